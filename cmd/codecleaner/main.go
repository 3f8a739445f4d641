// Package main implements the CLI driver for codecleaner.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/715d/codecleaner/internal/report"
	"github.com/715d/codecleaner/pkg/codecleaner"
	"github.com/715d/codecleaner/pkg/format"
)

// Options holds all command-line options.
type Options struct {
	Verbose     bool   // enables debug logging on stderr
	JSON        bool   // prints a JSON summary instead of progress lines
	NoColor     bool   // disables colored output
	Prettier    string // explicit prettier executable
	PrintConfig bool   // prints the cleanup policy and exits
	Profile     bool   // enables CPU and memory profiling
}

const exitError = 1

var (
	// Set via ldflags during build.
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rootCmd, c := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		_ = c.teardown(nil, nil)
		if err.Error() != "" {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		var cErr *codedError
		if errors.As(err, &cErr) {
			os.Exit(cErr.code)
		}
		os.Exit(exitError)
	}
}

type cli struct {
	opts       Options
	cpuProfile *os.File
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}
	rootCmd := &cobra.Command{
		Use:   "codecleaner [root]",
		Short: "Strip comments and console.log calls from JS/TS sources and reformat them",
		Long: `codecleaner rewrites JavaScript and TypeScript files in place.

For every .ts, .tsx, .js and .jsx file under root (default: the current
directory) it:
- removes all comments, leaving strings, regexes, templates and JSX text alone
- removes console.log calls that stand as statements
- formats the result with prettier when it is installed

Directories named node_modules, build, dist or .git are skipped at any depth.
Files are overwritten without backup.`,
		Example: `  codecleaner                      # Clean the current directory
  codecleaner ./web                # Clean another tree
  codecleaner --json . > out.json  # Machine-readable summary
  codecleaner --print-config       # Show the compiled-in policy`,
		Args:               cobra.MaximumNArgs(1),
		RunE:               c.run,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Version:            version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("codecleaner version %s\n  commit: %s\n  built:  %s\n", version, gitCommit, buildTime))

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&c.opts.Verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&c.opts.JSON, "json", false, "Output in JSON format")
	flags.BoolVar(&c.opts.NoColor, "no-color", false, "Disable colored output")
	flags.StringVar(&c.opts.Prettier, "prettier", "", "Path to the prettier executable (default: $PATH, then <root>/node_modules/.bin)")
	flags.BoolVar(&c.opts.PrintConfig, "print-config", false, "Print the cleanup policy as YAML and exit")
	flags.BoolVar(&c.opts.Profile, "profile", false, "Enable CPU and memory profiling (writes cpu.prof and mem.prof to current directory)")

	return rootCmd, c
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	cfg := codecleaner.DefaultConfig()
	if c.opts.PrintConfig {
		return printConfig(cmd.OutOrStdout(), cfg)
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	rep := report.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), report.Options{
		JSON:    c.opts.JSON,
		Color:   c.colorEnabled(cmd.OutOrStdout()),
		Version: version,
	})
	rep.Start(root)

	formatter, err := c.formatter(root, cfg.Style, rep)
	if err != nil {
		return errWithCode(err, exitError)
	}

	start := time.Now()
	walker := codecleaner.NewWalker(cfg, codecleaner.NewProcessor(cfg, formatter), rep)
	stats, walkErr := walker.Walk(cmd.Context(), root)
	slog.Info("cleanup finished",
		"dur", time.Since(start),
		"processed", stats.Processed,
		"changed", stats.Changed,
		"warned", stats.Warned,
		"failed", stats.Failed)

	if err := rep.Finish(root, stats, walkErr); err != nil {
		return errWithCode(fmt.Errorf("write summary: %w", err), exitError)
	}
	if walkErr != nil {
		return errWithCode(fmt.Errorf("code cleanup: %w", walkErr), exitError)
	}
	return nil
}

// formatter picks prettier when it can be found. Without an explicit path a
// missing prettier is not an error: files are written unformatted.
func (c *cli) formatter(root string, style format.Style, rep *report.Printer) (format.Formatter, error) {
	path, err := format.Resolve(root, c.opts.Prettier)
	switch {
	case err == nil:
		slog.Info("using prettier", "path", path)
		return &format.Prettier{Path: path, Style: style}, nil
	case errors.Is(err, format.ErrNotFound):
		rep.Notice("prettier not found; files will not be formatted")
		return format.Nop{}, nil
	default:
		return nil, fmt.Errorf("resolve formatter: %w", err)
	}
}

func (c *cli) colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || c.opts.JSON {
		return false
	}
	return report.ColorEnabled(f, c.opts.NoColor)
}

func printConfig(w io.Writer, cfg codecleaner.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func (c *cli) setup(_ *cobra.Command, _ []string) error {
	// Disable logger unless verbose flag is set.
	slog.SetDefault(slog.New(slog.DiscardHandler))
	if c.opts.Verbose {
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
		if c.opts.JSON {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		}
		slog.SetDefault(slog.New(handler))
	}

	if !c.opts.Profile {
		return nil
	}

	var err error
	c.cpuProfile, err = os.Create("cpu.prof")
	if err != nil {
		return fmt.Errorf("creating cpu.prof: %w", err)
	}
	if err := pprof.StartCPUProfile(c.cpuProfile); err != nil {
		_ = c.cpuProfile.Close()
		c.cpuProfile = nil
		return fmt.Errorf("starting CPU profile: %w", err)
	}
	slog.Info("cpu profiling started", "file", "cpu.prof")
	return nil
}

func (c *cli) teardown(_ *cobra.Command, _ []string) error {
	if !c.opts.Profile || c.cpuProfile == nil {
		return nil
	}

	pprof.StopCPUProfile()
	defer func() {
		_ = c.cpuProfile.Close()
		c.cpuProfile = nil
	}()
	slog.Info("cpu profiling stopped", "file", "cpu.prof")

	memFile, err := os.Create("mem.prof")
	if err != nil {
		return fmt.Errorf("creating mem.prof: %w", err)
	}
	defer memFile.Close()
	runtime.GC() // Get up-to-date statistics
	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("writing memory profile: %w", err)
	}
	slog.Info("memory profiling completed", "file", "mem.prof")
	return nil
}

func errWithCode(err error, code int) error {
	return &codedError{err: err, code: code}
}

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}

func (e *codedError) Unwrap() error { return e.err }
