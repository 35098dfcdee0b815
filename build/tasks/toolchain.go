package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/byte4ever/webapp_boilerplate/build/exec"
	"github.com/byte4ever/webapp_boilerplate/options"
)

// ErrNoTool is returned when a required tool has no
// command line configured.
var ErrNoTool = errors.New("no command configured")

// Toolchain performs the steps delegated to external
// tools.
type Toolchain interface {
	// CompileLess returns the CSS compiled from the LESS
	// file at path.
	CompileLess(ctx context.Context, path string) ([]byte, error)

	// Autoprefix adds vendor prefixes for browsers.
	Autoprefix(ctx context.Context, css []byte, browsers []string) ([]byte, error)

	// Lint checks scripts and returns the linter report.
	Lint(ctx context.Context, paths []string) (string, error)
}

// Commands is the Toolchain running the command lines of
// the build options.
type Commands struct {
	Tools options.Tools

	// Dir is the working directory of the linter.
	Dir string
}

var _ Toolchain = Commands{}

// CompileLess runs the LESS compiler on path.
func (co Commands) CompileLess(
	ctx context.Context,
	path string,
) ([]byte, error) {
	const errCtx = "compiling less"

	if len(co.Tools.Less) == 0 {
		return nil, fmt.Errorf("%s: %w", errCtx, ErrNoTool)
	}

	args := append(append([]string(nil), co.Tools.Less[1:]...), path)

	css, err := exec.Pipe(ctx, nil, nil, co.Tools.Less[0], args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return css, nil
}

// Autoprefix pipes css through the autoprefixer command
// with BROWSERSLIST set. Without a command css is
// returned unchanged.
func (co Commands) Autoprefix(
	ctx context.Context,
	css []byte,
	browsers []string,
) ([]byte, error) {
	const errCtx = "autoprefixing"

	if len(co.Tools.Autoprefixer) == 0 {
		return css, nil
	}

	var env []string
	if len(browsers) > 0 {
		env = []string{"BROWSERSLIST=" + strings.Join(browsers, ", ")}
	}

	out, err := exec.Pipe(
		ctx, css, env,
		co.Tools.Autoprefixer[0], co.Tools.Autoprefixer[1:]...,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return out, nil
}

// Lint runs the linter over paths. Without a command
// nothing is checked.
func (co Commands) Lint(
	ctx context.Context,
	paths []string,
) (string, error) {
	const errCtx = "linting"

	if len(co.Tools.JSHint) == 0 || len(paths) == 0 {
		return "", nil
	}

	args := append(append([]string(nil), co.Tools.JSHint[1:]...), paths...)

	out, err := exec.Ex(ctx, co.Dir, co.Tools.JSHint[0], args...)
	if err != nil {
		return out, fmt.Errorf("%s: %w", errCtx, err)
	}

	return out, nil
}
