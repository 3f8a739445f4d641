package codecleaner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/715d/codecleaner/pkg/format"
	"github.com/715d/codecleaner/pkg/jslex"
	"github.com/715d/codecleaner/pkg/strip"
)

// Processor runs the cleanup pipeline on single files.
type Processor struct {
	policy    policy
	formatter format.Formatter
}

// NewProcessor creates a processor for cfg. A nil formatter disables
// formatting.
func NewProcessor(cfg Config, formatter format.Formatter) *Processor {
	if formatter == nil {
		formatter = format.Nop{}
	}
	return &Processor{
		policy:    newPolicy(cfg),
		formatter: formatter,
	}
}

// Process reads path, strips comments and log calls, formats the result and
// writes it back. Stage failures after Read are recorded as warnings and the
// pipeline continues with the last good buffer; Read and Write failures set
// FileResult.Err and leave the file as it was.
func (p *Processor) Process(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}
	log := slog.With("path", path)

	orig, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", path, err)
		return res
	}

	opts := jslex.OptionsFor(path)
	buf := orig

	if out, err := strip.Comments(buf, opts); err != nil {
		res.warn(log, StageStripComments, err)
	} else {
		buf = out
	}

	if out, err := strip.LogCalls(buf, opts, p.policy.callees); err != nil {
		res.warn(log, StageStripLogs, err)
	} else {
		buf = out
	}

	// Apply hands back buf untouched on failure, so the unformatted result is
	// still written.
	out, err := format.Apply(ctx, p.formatter, path, buf)
	if err != nil {
		res.warn(log, StageFormat, err)
	}
	buf = out

	if bytes.Equal(orig, buf) {
		log.Debug("unchanged")
		return res
	}
	if err := overwrite(path, buf); err != nil {
		res.Err = err
		return res
	}
	res.Changed = true
	log.Debug("rewritten", "before", len(orig), "after", len(buf))
	return res
}

func (r *FileResult) warn(log *slog.Logger, stage Stage, err error) {
	log.Warn("stage failed", "stage", stage.String(), "error", err)
	r.Warnings = append(r.Warnings, Warning{Stage: stage, Err: err})
}

// overwrite replaces the contents of an existing file. It never creates the
// file, and the existing mode and ownership are kept.
func overwrite(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
