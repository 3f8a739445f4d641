// Package codecleaner walks a source tree and cleans eligible files in place.
package codecleaner

import "fmt"

// Stage is one step of the per-file pipeline.
type Stage int

const (
	StageRead Stage = iota
	StageStripComments
	StageStripLogs
	StageFormat
	StageWrite
)

func (s Stage) String() string {
	switch s {
	case StageRead:
		return "read"
	case StageStripComments:
		return "strip-comments"
	case StageStripLogs:
		return "strip-logs"
	case StageFormat:
		return "format"
	case StageWrite:
		return "write"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// MarshalText renders the stage name in JSON output.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Warning is a recoverable failure of one stage. The pipeline continued with
// the buffer as it was before the stage ran.
type Warning struct {
	Stage Stage `json:"stage"`
	Err   error `json:"-"`
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Stage, w.Err)
}

func (w Warning) Unwrap() error { return w.Err }

// FileResult describes what happened to one file.
type FileResult struct {
	Path     string    `json:"path"`
	Changed  bool      `json:"changed"`
	Warnings []Warning `json:"warnings,omitempty"`
	// Err is set when reading or writing failed; the file was left untouched.
	Err error `json:"-"`
}

// OK reports whether the file made it through Read and Write.
func (r FileResult) OK() bool { return r.Err == nil }

// Stats summarizes a walk.
type Stats struct {
	Processed int `json:"processed"`
	Changed   int `json:"changed"`
	Warned    int `json:"warned"`
	Failed    int `json:"failed"`
	// SkippedDirs counts excluded or unreadable directories.
	SkippedDirs int `json:"skipped_dirs"`
}

func (s *Stats) add(r FileResult) {
	if !r.OK() {
		s.Failed++
		return
	}
	s.Processed++
	if r.Changed {
		s.Changed++
	}
	if len(r.Warnings) > 0 {
		s.Warned++
	}
}
