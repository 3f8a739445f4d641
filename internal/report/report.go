// Package report prints the progress and outcome of a cleanup run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/715d/codecleaner/pkg/codecleaner"
)

// Options configures a Printer.
type Options struct {
	// JSON replaces the line output with a single summary document.
	JSON bool
	// Color enables ANSI colors in line output.
	Color bool
	// Version is recorded in the JSON summary.
	Version string
}

// ColorEnabled reports whether colored output suits f: it must be a
// terminal, and neither --no-color nor NO_COLOR may be set.
func ColorEnabled(f *os.File, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Printer writes confirmation, warning and error lines as files are processed
// and a summary at the end. It implements codecleaner.Reporter.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	opts   Options

	ok   *color.Color
	warn *color.Color
	fail *color.Color

	files []jFile
	now   func() time.Time
}

var _ codecleaner.Reporter = (*Printer)(nil)

// New creates a Printer. Confirmation, warning and summary lines go to out;
// files that could not be read or written are reported on errOut.
func New(out, errOut io.Writer, opts Options) *Printer {
	p := &Printer{
		out:    out,
		errOut: errOut,
		opts:   opts,
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed, color.Bold),
		now:    time.Now,
	}
	for _, c := range []*color.Color{p.ok, p.warn, p.fail} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Start announces the run.
func (p *Printer) Start(root string) {
	if p.opts.JSON {
		return
	}
	fmt.Fprintln(p.out, "Starting code cleanup...")
	fmt.Fprintln(p.out, "Project directory:", root)
}

// Notice prints a run-level warning such as a missing formatter.
func (p *Printer) Notice(msg string) {
	if p.opts.JSON {
		return
	}
	p.warn.Fprintf(p.out, "⚠ %s\n", msg)
}

// File reports one processed file.
func (p *Printer) File(res codecleaner.FileResult) {
	if p.opts.JSON {
		p.files = append(p.files, newJFile(res))
		return
	}
	if res.Err != nil {
		p.fail.Fprintf(p.errOut, "✗ Error processing %s: %v\n", res.Path, res.Err)
		return
	}
	for _, w := range res.Warnings {
		p.warn.Fprintf(p.out, "⚠ %s: %s skipped: %v\n", res.Path, w.Stage, w.Err)
	}
	p.ok.Fprintf(p.out, "✓ Processed: %s\n", res.Path)
}

// DirError reports a directory that could not be read.
func (p *Printer) DirError(path string, err error) {
	if p.opts.JSON {
		return
	}
	p.warn.Fprintf(p.out, "⚠ Skipped directory %s: %v\n", path, err)
}

// Finish writes the summary. A non-nil runErr means the walk itself failed;
// in line mode the caller prints it.
func (p *Printer) Finish(root string, stats codecleaner.Stats, runErr error) error {
	if p.opts.JSON {
		return p.writeJSON(root, stats, runErr)
	}
	if runErr != nil {
		return nil
	}
	_, err := fmt.Fprintf(p.out, "\nCode cleanup completed successfully! (%d processed, %d changed, %d with warnings, %d failed)\n",
		stats.Processed, stats.Changed, stats.Warned, stats.Failed)
	return err
}

func (p *Printer) writeJSON(root string, stats codecleaner.Stats, runErr error) error {
	doc := jOutput{
		Root:      root,
		Files:     p.files,
		Stats:     stats,
		Version:   p.opts.Version,
		Timestamp: p.now().UTC().Format(time.RFC3339),
	}
	if doc.Files == nil {
		doc.Files = []jFile{}
	}
	if runErr != nil {
		doc.Error = runErr.Error()
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling json output: %w", err)
	}
	_, err = fmt.Fprintln(p.out, string(data))
	return err
}

type jOutput struct {
	Root      string            `json:"root"`
	Files     []jFile           `json:"files"`
	Stats     codecleaner.Stats `json:"stats"`
	Error     string            `json:"error,omitempty"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
}

type jFile struct {
	Path     string     `json:"path"`
	Changed  bool       `json:"changed"`
	Warnings []jWarning `json:"warnings,omitempty"`
	Error    string     `json:"error,omitempty"`
}

type jWarning struct {
	Stage   codecleaner.Stage `json:"stage"`
	Message string            `json:"message"`
}

func newJFile(res codecleaner.FileResult) jFile {
	f := jFile{Path: res.Path, Changed: res.Changed}
	for _, w := range res.Warnings {
		f.Warnings = append(f.Warnings, jWarning{Stage: w.Stage, Message: fmt.Sprint(w.Err)})
	}
	if res.Err != nil {
		f.Error = res.Err.Error()
	}
	return f
}
