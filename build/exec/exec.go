// Package exec runs the external build tools.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Ex executes the named command in the given directory and
// returns combined stdout+stderr output. Pass empty dir to
// use the current working directory.
func Ex(
	ctx context.Context,
	dir string,
	name string,
	arg ...string,
) (string, error) {
	const errCtx = "executing command"

	slog.Debug(
		"executing",
		"cmd", name,
		"args", strings.Join(arg, " "),
	)

	cmd := exec.CommandContext(ctx, name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}

	by, err := cmd.CombinedOutput()

	slog.Debug("output", "result", string(by))

	if err != nil {
		return string(by), fmt.Errorf(
			"%s: %s %s: %w",
			errCtx, name, strings.Join(arg, " "), err,
		)
	}

	return string(by), nil
}

// Pipe feeds in to the named command and returns what it
// wrote to stdout. Extra env entries are appended to the
// current environment. On failure the error carries the
// command's stderr.
func Pipe(
	ctx context.Context,
	in []byte,
	env []string,
	name string,
	arg ...string,
) ([]byte, error) {
	const errCtx = "piping through command"

	slog.Debug(
		"piping",
		"cmd", name,
		"args", strings.Join(arg, " "),
		"bytes", len(in),
	)

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, arg...)
	cmd.Stdin = bytes.NewReader(in)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf(
			"%s: %s %s: %w: %s",
			errCtx, name, strings.Join(arg, " "), err,
			strings.TrimSpace(stderr.String()),
		)
	}

	return stdout.Bytes(), nil
}
