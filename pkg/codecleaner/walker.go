package codecleaner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileProcessor cleans a single file.
type FileProcessor interface {
	Process(ctx context.Context, path string) FileResult
}

// Reporter receives walk events as they happen.
type Reporter interface {
	// File is called once per eligible file, after it has been processed.
	File(res FileResult)
	// DirError is called for a directory that could not be read.
	DirError(path string, err error)
}

type nopReporter struct{}

func (nopReporter) File(FileResult)        {}
func (nopReporter) DirError(string, error) {}

// Walker enumerates eligible files under a root and processes them one at a
// time.
type Walker struct {
	policy   policy
	proc     FileProcessor
	reporter Reporter
}

// NewWalker creates a walker. A nil reporter discards events.
func NewWalker(cfg Config, proc FileProcessor, reporter Reporter) *Walker {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Walker{
		policy:   newPolicy(cfg),
		proc:     proc,
		reporter: reporter,
	}
}

// Walk processes every eligible file under root, depth first. Excluded
// directories are skipped by base name at any depth below root. Symbolic
// links below root are never followed. Only a root that cannot be used or a
// cancelled context makes Walk return an error; per-file and per-directory
// failures are reported and counted.
func (w *Walker) Walk(ctx context.Context, root string) (Stats, error) {
	var stats Stats

	start, err := resolveRoot(root)
	if err != nil {
		return stats, err
	}
	slog.Debug("walk started", "root", root, "resolved", start)

	err = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == start {
				return fmt.Errorf("read root %s: %w", root, err)
			}
			return w.walkError(&stats, path, d, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		switch {
		case d.IsDir():
			if path != start && w.policy.excluded(d.Name()) {
				stats.SkippedDirs++
				slog.Debug("directory excluded", "path", path)
				return filepath.SkipDir
			}
			return nil
		case d.Type()&fs.ModeSymlink != 0:
			slog.Debug("symlink not followed", "path", path)
			return nil
		case !d.Type().IsRegular():
			return nil
		case !w.policy.eligible(path):
			return nil
		}

		res := w.proc.Process(ctx, path)
		stats.add(res)
		w.reporter.File(res)
		return nil
	})
	return stats, err
}

// walkError handles an entry below the root that WalkDir could not read. A
// directory, or an entry whose type is unknown, is counted and reported as
// skipped. A file that failed to stat is only logged: it was never eligible
// for processing and is not a directory.
func (w *Walker) walkError(stats *Stats, path string, d fs.DirEntry, err error) error {
	if d != nil && !d.IsDir() {
		slog.Warn("file skipped", "path", path, "error", err)
		return nil
	}
	stats.SkippedDirs++
	slog.Warn("directory skipped", "path", path, "error", err)
	w.reporter.DirError(path, err)
	if d != nil {
		return filepath.SkipDir
	}
	return nil
}

// resolveRoot returns the directory to walk. A root that is itself a
// symbolic link is resolved once so that its contents are walked.
func resolveRoot(root string) (string, error) {
	info, err := os.Lstat(root)
	if err != nil {
		return "", fmt.Errorf("stat root: %w", err)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(root)
		if err != nil {
			return "", fmt.Errorf("resolve root %s: %w", root, err)
		}
		if info, err = os.Stat(resolved); err != nil {
			return "", fmt.Errorf("stat root: %w", err)
		}
		root = resolved
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root %s is not a directory", root)
	}
	return root, nil
}
