package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Entry describes one written file.
type Entry struct {
	Path   string
	Size   int64
	Digest string
}

// Summary aggregates the entries of one task.
type Summary struct {
	Title   string
	Entries []Entry
	Total   int64
}

// CalculateDigest computes the SHA256 hex digest of the
// file at path.
func CalculateDigest(path string) (result string, retErr error) {
	const errCtx = "calculating digest"

	fi, err := os.Open(path) //nolint:gosec // path is a task output
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	ha := sha256.New()

	if _, err := io.Copy(ha, fi); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return hex.EncodeToString(ha.Sum(nil)), nil
}

// Collect stats and digests every path.
func Collect(title string, paths []string) (Summary, error) {
	const errCtx = "collecting report"

	sum := Summary{
		Title:   title,
		Entries: make([]Entry, 0, len(paths)),
	}

	for _, pa := range paths {
		info, err := os.Stat(pa)
		if err != nil {
			return Summary{}, fmt.Errorf("%s: %w", errCtx, err)
		}

		digest, err := CalculateDigest(pa)
		if err != nil {
			return Summary{}, fmt.Errorf("%s: %w", errCtx, err)
		}

		sum.Entries = append(sum.Entries, Entry{
			Path:   pa,
			Size:   info.Size(),
			Digest: digest,
		})
		sum.Total += info.Size()
	}

	return sum, nil
}

// Log collects the report for paths and writes it to
// logger: one info line for the task, one debug line per
// file.
func Log(logger *slog.Logger, title string, paths []string) error {
	sum, err := Collect(title, paths)
	if err != nil {
		return err
	}

	for _, en := range sum.Entries {
		logger.Debug(
			"written",
			"task", title,
			"path", en.Path,
			"bytes", en.Size,
			"sha256", en.Digest,
		)
	}

	logger.Info(
		"size",
		"task", title,
		"files", len(sum.Entries),
		"bytes", sum.Total,
	)

	return nil
}
