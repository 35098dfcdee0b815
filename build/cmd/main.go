// Binary webapp builds a web app project: it compiles
// stylesheets, expands HTML templates and copies the
// remaining sources into the dist directory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/byte4ever/webapp_boilerplate/build/tasks"
	"github.com/byte4ever/webapp_boilerplate/options"
)

const envPrefix = "WEBAPP"

func newRootCmd() *cobra.Command {
	vi := viper.New()

	root := &cobra.Command{
		Use:   "webapp",
		Short: "Build a web app project into its dist directory",
		Long: `webapp runs the build tasks of a web app project.

Without a subcommand it runs the default sequence: clean, the style task,
html, js, images, fonts and copy-misc-files.

Every flag may also be set from the environment, e.g. WEBAPP_VERBOSE=true
or WEBAPP_OPTIONS=conf/build-options.json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setupLogging(vi.GetString("log-level"))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTasks(cmd.Context(), vi, false, tasks.Default)
		},
	}

	flags := root.PersistentFlags()
	flags.String("root", ".", "project directory")
	flags.String("options", "build-options.json", "build options file, relative to root")
	flags.String("data", "template-data.json", "template data file (.json, .yaml or .yml), relative to root")
	flags.BoolP("verbose", "v", false, "log substitutions and size reports")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	vi.SetEnvPrefix(envPrefix)
	vi.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vi.AutomaticEnv()

	if err := vi.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("binding flags: %v", err))
	}

	for _, name := range tasks.Names() {
		name := name

		root.AddCommand(&cobra.Command{
			Use:   name,
			Short: "Run the " + name + " task",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runTasks(cmd.Context(), vi, false, name)
			},
		})
	}

	root.AddCommand(newDevCmd(vi))

	return root
}

func newDevCmd(vi *viper.Viper) *cobra.Command {
	var (
		delay time.Duration
		build bool
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Watch the sources and re-run the matching tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			const errCtx = "dev"

			ru, err := newRunner(vi, true)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			if build {
				if err := ru.Run(cmd.Context(), tasks.Default); err != nil {
					return fmt.Errorf("%s: %w", errCtx, err)
				}
			}

			return ru.Dev(cmd.Context(), delay)
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", 300*time.Millisecond, "quiet period before a rebuild")
	cmd.Flags().BoolVar(&build, "build", false, "run the default sequence before watching")

	return cmd
}

func runTasks(
	ctx context.Context,
	vi *viper.Viper,
	swallow bool,
	names ...string,
) error {
	ru, err := newRunner(vi, swallow)
	if err != nil {
		return err
	}

	return ru.Sequence(ctx, names...)
}

func newRunner(vi *viper.Viper, swallow bool) (*tasks.Runner, error) {
	const errCtx = "loading project"

	root := vi.GetString("root")

	opts, err := options.Load(inRoot(root, vi.GetString("options")))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if vi.GetBool("verbose") {
		opts.Verbose = true
	}

	data, err := options.LoadTemplateData(inRoot(root, vi.GetString("data")))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	ru, err := tasks.New(tasks.Config{
		Options: opts,
		Data:    data,
		Root:    root,
		Swallow: swallow,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return ru, nil
}

func inRoot(root string, pa string) string {
	if filepath.IsAbs(pa) {
		return pa
	}

	return filepath.Join(root, pa)
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(
		os.Stderr, &slog.HandlerOptions{Level: lvl},
	)))

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
