package harness

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/codecleaner/pkg/codecleaner"
	"github.com/715d/codecleaner/pkg/format"
)

// TestCase is one archive: a source tree plus the expected outcome.
type TestCase struct {
	// Name is the archive file name without extension.
	Name string

	Expect Expectation

	// Input maps slash-separated relative paths to file content.
	Input map[string][]byte

	// Want maps input paths to their expected content after cleaning.
	Want map[string][]byte
}

// TestResult represents the result of running a test case.
type TestResult struct {
	// Success indicates if every expectation held.
	Success bool

	// Message provides a summary of the result.
	Message string

	// Details lists each failed expectation.
	Details []string

	// Stats is what the walk reported.
	Stats codecleaner.Stats
}

// TestHarness runs test cases. Formatting is disabled so expectations do not
// depend on an installed formatter.
type TestHarness struct {
	formatter format.Formatter
}

// NewHarness creates a new test harness.
func NewHarness() *TestHarness {
	return &TestHarness{formatter: format.Nop{}}
}

// collector records results keyed by path relative to the walk root.
type collector struct {
	root    string
	results map[string]codecleaner.FileResult
}

func (c *collector) File(res codecleaner.FileResult) {
	rel, err := filepath.Rel(c.root, res.Path)
	if err != nil {
		rel = res.Path
	}
	c.results[filepath.ToSlash(rel)] = res
}

func (c *collector) DirError(string, error) {}

// Run cleans a fresh copy of the input tree and compares the outcome.
func (h *TestHarness) Run(t *testing.T, tc *TestCase) *TestResult {
	t.Helper()

	root := t.TempDir()
	materialize(t, root, tc)

	cfg := codecleaner.DefaultConfig()
	if len(tc.Expect.LogCallees) > 0 {
		cfg.LogCallees = tc.Expect.LogCallees
	}
	col := &collector{root: root, results: make(map[string]codecleaner.FileResult)}
	walker := codecleaner.NewWalker(cfg, codecleaner.NewProcessor(cfg, h.formatter), col)
	stats, err := walker.Walk(t.Context(), root)
	require.NoError(t, err)

	res := &TestResult{Stats: stats}
	res.Details = append(res.Details, h.checkResults(tc, col.results)...)
	res.Details = append(res.Details, h.checkFiles(t, root, tc)...)
	if stats.SkippedDirs != tc.Expect.SkippedDirs {
		res.Details = append(res.Details, fmt.Sprintf("skipped %d directories, want %d", stats.SkippedDirs, tc.Expect.SkippedDirs))
	}

	res.Success = len(res.Details) == 0
	if res.Success {
		res.Message = fmt.Sprintf("%d files processed as expected", len(col.results))
	} else {
		res.Message = fmt.Sprintf("%d expectations failed:\n  %s", len(res.Details), strings.Join(res.Details, "\n  "))
	}
	return res
}

func (h *TestHarness) checkResults(tc *TestCase, results map[string]codecleaner.FileResult) []string {
	var details []string

	got := make([]string, 0, len(results))
	var warned []string
	for name, r := range results {
		got = append(got, name)
		if r.Err != nil {
			details = append(details, fmt.Sprintf("%s failed: %v", name, r.Err))
		}
		if len(r.Warnings) > 0 {
			warned = append(warned, name)
		}
	}
	slices.Sort(got)
	slices.Sort(warned)

	want := slices.Sorted(slices.Values(tc.Expect.Processed))
	for _, m := range missing(want, got) {
		details = append(details, "should have been processed: "+m)
	}
	for _, u := range missing(got, want) {
		details = append(details, "should not have been processed: "+u)
	}

	wantWarned := slices.Sorted(slices.Values(tc.Expect.Warned))
	for _, m := range missing(wantWarned, warned) {
		details = append(details, "should have warned: "+m)
	}
	for _, u := range missing(warned, wantWarned) {
		details = append(details, fmt.Sprintf("unexpected warning for %s: %v", u, results[u].Warnings))
	}
	return details
}

// checkFiles compares every input file on disk with its expected content.
func (h *TestHarness) checkFiles(t *testing.T, root string, tc *TestCase) []string {
	t.Helper()
	var details []string
	for _, name := range slices.Sorted(maps.Keys(tc.Input)) {
		want, ok := tc.Want[name]
		if !ok {
			want = tc.Input[name]
		}
		got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		require.NoError(t, err)
		if string(got) != string(want) {
			details = append(details, fmt.Sprintf("content mismatch for %s:\n--- got ---\n%s--- want ---\n%s", name, got, want))
		}
	}
	return details
}

// missing returns the elements of sorted a that are absent from sorted b.
func missing(a, b []string) []string {
	var out []string
	for _, s := range a {
		if _, found := slices.BinarySearch(b, s); !found {
			out = append(out, s)
		}
	}
	return out
}
