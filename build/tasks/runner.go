package tasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/byte4ever/webapp_boilerplate/build/glob"
	"github.com/byte4ever/webapp_boilerplate/build/report"
	"github.com/byte4ever/webapp_boilerplate/build/watch"
	"github.com/byte4ever/webapp_boilerplate/options"
	"github.com/byte4ever/webapp_boilerplate/stamper"
	"github.com/byte4ever/webapp_boilerplate/templating"
)

// Task names.
const (
	Default       = "default"
	Clean         = "clean"
	LessCompile   = "less-compile"
	StyleConcat   = "style-concat"
	CSS2JS        = "css2js"
	HTML          = "html"
	JS            = "js"
	Images        = "images"
	Fonts         = "fonts"
	CopyMiscFiles = "copy-misc-files"
)

// ErrUnknownTask is returned for a task name Run does not
// know.
var ErrUnknownTask = errors.New("unknown task")

// Config holds everything a Runner needs.
type Config struct {
	Options options.Options

	// Data is the template data. Stamps from
	// Options.StampInfoFiles are merged into it.
	Data templating.Value

	// Root is the project directory the option paths are
	// relative to. Empty means the working directory.
	Root string

	// Tools defaults to Commands over Options.Tools.
	Tools Toolchain

	// Swallow logs task failures and carries on with the
	// sequence instead of stopping it.
	Swallow bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// taskFunc runs one task and returns the files it wrote.
type taskFunc func(ctx context.Context) ([]string, error)

// Runner runs build tasks. It is not safe for concurrent
// use.
type Runner struct {
	opts    options.Options
	root    string
	src     fs.FS
	tools   Toolchain
	engine  *templating.Engine
	stamps  map[string]interface{}
	swallow bool
	log     *slog.Logger
	tasks   map[string]taskFunc
}

// New validates the options, loads the stamp files and
// returns a Runner.
func New(cfg Config) (*Runner, error) {
	const errCtx = "creating task runner"

	if err := cfg.Options.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	root := cfg.Root
	if root == "" {
		root = "."
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	stampFiles := make([]string, len(cfg.Options.StampInfoFiles))
	for i, sf := range cfg.Options.StampInfoFiles {
		stampFiles[i] = inRoot(root, sf)
	}

	stamps, err := stamper.LoadStamps(stampFiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	tools := cfg.Tools
	if tools == nil {
		tools = Commands{Tools: cfg.Options.Tools, Dir: root}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ru := &Runner{
		opts:    cfg.Options,
		root:    root,
		src:     os.DirFS(root),
		tools:   tools,
		engine:  cfg.Options.Engine(stamper.Merge(cfg.Data, stamps)),
		stamps:  stamps,
		swallow: cfg.Swallow,
		log:     logger,
	}

	if cfg.Options.Verbose {
		ru.engine.Observer = func(path string, value templating.Value) {
			logger.Info("replacing", "path", path, "value", value.String())
		}
	}

	ru.tasks = map[string]taskFunc{
		Clean:         ru.clean,
		LessCompile:   ru.lessCompile,
		StyleConcat:   ru.styleConcat,
		CSS2JS:        ru.css2js,
		HTML:          ru.html,
		JS:            ru.js,
		Images:        ru.noop,
		Fonts:         ru.noop,
		CopyMiscFiles: ru.copyMiscFiles,
	}

	return ru, nil
}

// Names lists every task Run accepts, default first.
func Names() []string {
	return []string{
		Default,
		Clean,
		LessCompile,
		StyleConcat,
		CSS2JS,
		HTML,
		JS,
		Images,
		Fonts,
		CopyMiscFiles,
	}
}

// StyleTask is the task building the stylesheets.
func (ru *Runner) StyleTask() string {
	if ru.opts.ConcatStyle {
		return StyleConcat
	}

	return LessCompile
}

// DefaultSequence is the task list run by Default.
func (ru *Runner) DefaultSequence() []string {
	return []string{
		Clean,
		ru.StyleTask(),
		HTML,
		JS,
		Images,
		Fonts,
		CopyMiscFiles,
	}
}

// Run runs the named task. When the build is verbose a
// size report of the written files is logged.
func (ru *Runner) Run(ctx context.Context, name string) error {
	const errCtx = "running task"

	if name == Default {
		return ru.Sequence(ctx, ru.DefaultSequence()...)
	}

	task, ok := ru.tasks[name]
	if !ok {
		return fmt.Errorf("%s: %w: %q", errCtx, ErrUnknownTask, name)
	}

	started := time.Now()

	ru.log.Info("starting", "task", name)

	written, err := task(ctx)
	if err != nil {
		return fmt.Errorf("%s %s: %w", errCtx, name, err)
	}

	ru.log.Info(
		"finished",
		"task", name,
		"files", len(written),
		"after", time.Since(started).Round(time.Millisecond),
	)

	if ru.opts.Verbose && name != Clean {
		if err := report.Log(ru.log, name, written); err != nil {
			return fmt.Errorf("%s %s: %w", errCtx, name, err)
		}
	}

	return nil
}

// Sequence runs tasks one after the other. The first
// failure stops the sequence unless the runner swallows
// errors, in which case it is logged.
func (ru *Runner) Sequence(ctx context.Context, names ...string) error {
	const errCtx = "running sequence"

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		err := ru.Run(ctx, name)
		if err == nil {
			continue
		}

		if ru.swallow && !errors.Is(err, ErrUnknownTask) {
			ru.log.Error("task failed", "task", name, "error", err)

			continue
		}

		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// TasksFor returns the tasks owning the changed paths, in
// build order. Ignored files count: a changed LESS
// partial rebuilds the stylesheets importing it.
func (ru *Runner) TasksFor(paths []string) []string {
	routes := []struct {
		task string
		set  glob.Set
	}{
		{ru.StyleTask(), glob.Set{Include: []string{ru.opts.Paths.Less, ru.opts.Paths.CSS}}},
		{HTML, glob.Set{Include: []string{ru.opts.Paths.HTML}}},
		{JS, glob.Set{Include: []string{ru.opts.Paths.JS}}},
	}

	var names []string

	for _, route := range routes {
		for _, pa := range paths {
			if route.set.Match(ru.relative(pa)) {
				names = append(names, route.task)

				break
			}
		}
	}

	return names
}

// Dev watches the source tree and runs the tasks owning
// each batch of changes until ctx is done.
func (ru *Runner) Dev(ctx context.Context, delay time.Duration) error {
	const errCtx = "watching sources"

	wa, err := watch.New(delay)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := wa.Close(); closeErr != nil {
			ru.log.Error("failed to close watcher", "error", closeErr)
		}
	}()

	srcDir := inRoot(ru.root, ru.opts.Paths.Src)
	if err := wa.AddRecursive(srcDir); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	ru.log.Info("watching", "dir", srcDir)

	err = wa.Run(ctx, func(ctx context.Context, events []watch.Event) {
		paths := make([]string, len(events))
		for i, ev := range events {
			paths[i] = ev.Path
		}

		names := ru.TasksFor(paths)
		if len(names) == 0 {
			return
		}

		ru.log.Info("changes detected", "files", len(events), "tasks", names)

		if err := ru.Sequence(ctx, names...); err != nil {
			ru.log.Error("rebuild failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// relative turns an OS path into a slash path relative to
// the project root.
func (ru *Runner) relative(pa string) string {
	if !filepath.IsAbs(pa) {
		return filepath.ToSlash(pa)
	}

	rel, err := filepath.Rel(ru.root, pa)
	if err != nil {
		return filepath.ToSlash(pa)
	}

	return filepath.ToSlash(rel)
}

// dist returns the OS path of the output directory.
func (ru *Runner) dist() string {
	return inRoot(ru.root, ru.opts.Paths.Dist)
}

// write stores content at rel inside dist.
func (ru *Runner) write(rel string, content []byte) (string, error) {
	const errCtx = "writing output"

	dest := filepath.Join(ru.dist(), filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := os.WriteFile(dest, content, 0o644); err != nil { //nolint:gosec // build outputs are public assets
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return dest, nil
}

// read returns the content of a source file.
func (ru *Runner) read(fi glob.File) ([]byte, error) {
	content, err := fs.ReadFile(ru.src, fi.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fi.Path, err)
	}

	return content, nil
}

// abs returns the OS path of a source file.
func (ru *Runner) abs(fi glob.File) string {
	return filepath.Join(ru.root, filepath.FromSlash(fi.Path))
}

func inRoot(root string, pa string) string {
	if filepath.IsAbs(pa) {
		return pa
	}

	return filepath.Join(root, filepath.FromSlash(pa))
}

func replaceExt(rel string, ext string) string {
	return rel[:len(rel)-len(path.Ext(rel))] + ext
}
