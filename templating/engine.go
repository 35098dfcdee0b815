package templating

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrBadTags is returned when the placeholder delimiters
// cannot be scanned unambiguously.
var ErrBadTags = errors.New("start and end tags must be distinct")

// Engine expands #{#path#}# placeholders against a
// template data tree. An empty StartTag or EndTag stands
// for DefaultStartTag or DefaultEndTag.
type Engine struct {
	StartTag string
	EndTag   string
	Data     Value

	// Observer, when set, sees every replacement.
	Observer Observer
}

// ExpandString substitutes placeholders in text.
func (en *Engine) ExpandString(text string) string {
	startTag, endTag := en.tags()

	return Substitute(text, en.Data, startTag, endTag, en.Observer)
}

// Expand reads a template, substitutes placeholders and
// writes the result. An empty tplPath reads stdin, an
// empty outPath writes stdout.
func (en *Engine) Expand(tplPath string, outPath string) (retErr error) {
	const errCtx = "expanding template"

	if err := en.CheckTags(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	tplContent, err := en.readTemplate(tplPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	out, closer, err := en.openOutput(outPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := closer(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	if _, err := io.WriteString(
		out, en.ExpandString(string(tplContent)),
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// CheckTags reports ErrBadTags when the tags, once
// defaults are applied, are equal.
func (en *Engine) CheckTags() error {
	startTag, endTag := en.tags()
	if startTag == endTag {
		return fmt.Errorf("%w: both are %q", ErrBadTags, startTag)
	}

	return nil
}

// tags returns the configured start/end tags, falling
// back to the #{# #}# defaults.
func (en *Engine) tags() (string, string) {
	startTag := en.StartTag
	if startTag == "" {
		startTag = DefaultStartTag
	}

	endTag := en.EndTag
	if endTag == "" {
		endTag = DefaultEndTag
	}

	return startTag, endTag
}

// readTemplate reads the template from a file path. If
// tplPath is empty it reads from stdin.
func (en *Engine) readTemplate(
	tplPath string,
) ([]byte, error) {
	const errCtx = "reading template"

	if tplPath != "" {
		content, err := os.ReadFile(tplPath) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return content, nil
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: reading stdin: %w", errCtx, err,
		)
	}

	return content, nil
}

// openOutput returns a buffered writer for the result,
// on stdout when outPath is empty. The returned closer
// flushes the buffer and closes the file.
func (en *Engine) openOutput(
	outPath string,
) (io.Writer, func() error, error) {
	const errCtx = "opening output"

	if outPath == "" {
		bw := bufio.NewWriter(os.Stdout)

		return bw, bw.Flush, nil
	}

	fi, err := os.OpenFile( //nolint:gosec // paths from CLI flags
		outPath,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		0o666,
	)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	bw := bufio.NewWriter(fi)

	return bw, func() error {
		if err := bw.Flush(); err != nil {
			_ = fi.Close() //nolint:errcheck // flush error wins

			return fmt.Errorf("flushing %s: %w", outPath, err)
		}

		return fi.Close()
	}, nil
}
