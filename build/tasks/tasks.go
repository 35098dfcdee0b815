package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/byte4ever/webapp_boilerplate/build/glob"
)

// clean removes everything inside dist. dist itself is
// kept and may be missing.
func (ru *Runner) clean(context.Context) ([]string, error) {
	const errCtx = "cleaning dist"

	dist := ru.dist()

	entries, err := os.ReadDir(dist)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	removed := make([]string, 0, len(entries))

	for _, en := range entries {
		pa := filepath.Join(dist, en.Name())
		if err := os.RemoveAll(pa); err != nil {
			return removed, fmt.Errorf("%s: %w", errCtx, err)
		}

		removed = append(removed, pa)
	}

	return removed, nil
}

// html copies the pages with their placeholders expanded.
func (ru *Runner) html(ctx context.Context) ([]string, error) {
	const errCtx = "expanding html"

	files, err := ru.sources(ru.opts.Paths.HTML)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	written := make([]string, 0, len(files))

	for _, fi := range files {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("%s: %w", errCtx, err)
		}

		content, err := ru.read(fi)
		if err != nil {
			return written, fmt.Errorf("%s: %w", errCtx, err)
		}

		dest, err := ru.write(
			fi.Rel, []byte(ru.engine.ExpandString(string(content))),
		)
		if err != nil {
			return written, fmt.Errorf("%s: %w", errCtx, err)
		}

		written = append(written, dest)
	}

	return written, nil
}

// js lints the scripts then copies them. Lint findings are
// reported but do not stop the copy.
func (ru *Runner) js(ctx context.Context) ([]string, error) {
	const errCtx = "building scripts"

	files, err := ru.sources(ru.opts.Paths.JS)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if len(files) > 0 {
		paths := make([]string, len(files))
		for i, fi := range files {
			paths[i] = ru.abs(fi)
		}

		out, err := ru.tools.Lint(ctx, paths)
		if err != nil {
			ru.log.Warn("lint problems", "task", JS, "error", err, "report", out)
		}
	}

	written, err := ru.copyAll(ctx, files)
	if err != nil {
		return written, fmt.Errorf("%s: %w", errCtx, err)
	}

	return written, nil
}

// copyMiscFiles copies every source file that no other
// task builds.
func (ru *Runner) copyMiscFiles(ctx context.Context) ([]string, error) {
	const errCtx = "copying misc files"

	pa := ru.opts.Paths

	files, err := glob.Set{
		Include: []string{pa.All},
		Exclude: []string{
			pa.Ignore, pa.Less, pa.CSS, pa.HTML,
			pa.JS, pa.Image, pa.Fonts,
		},
	}.Files(ru.src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	written, err := ru.copyAll(ctx, files)
	if err != nil {
		return written, fmt.Errorf("%s: %w", errCtx, err)
	}

	return written, nil
}

// noop backs the tasks kept only so sequences naming them
// still run.
func (ru *Runner) noop(context.Context) ([]string, error) {
	return nil, nil
}

// sources lists the files of the given patterns minus the
// ignored ones.
func (ru *Runner) sources(patterns ...string) ([]glob.File, error) {
	return glob.Set{
		Include: patterns,
		Exclude: []string{ru.opts.Paths.Ignore},
	}.Files(ru.src)
}

func (ru *Runner) copyAll(
	ctx context.Context,
	files []glob.File,
) ([]string, error) {
	written := make([]string, 0, len(files))

	for _, fi := range files {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		content, err := ru.read(fi)
		if err != nil {
			return written, err
		}

		dest, err := ru.write(fi.Rel, content)
		if err != nil {
			return written, err
		}

		written = append(written, dest)
	}

	return written, nil
}
