package harness

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestAll runs every archive under testdata.
func TestAll(t *testing.T) {
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "get current file path")

	harnessDir := filepath.Dir(filename)
	testdataDir := filepath.Join(harnessDir, "..", "..", "testdata")

	testCases := discoverTestCases(t, testdataDir)
	require.NotEmpty(t, testCases, "no test cases found")

	if testing.Verbose() {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			if tc.Expect.Description != "" {
				t.Log(tc.Expect.Description)
			}

			result := NewHarness().Run(t, tc)
			if !result.Success {
				t.Errorf("Test failed: %s", result.Message)
			}
		})
	}
}

func discoverTestCases(t *testing.T, root string) []*TestCase {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(root, "*.txtar"))
	require.NoError(t, err)

	testCases := make([]*TestCase, 0, len(paths))
	for _, path := range paths {
		testCases = append(testCases, LoadTestCase(t, path))
	}
	return testCases
}

func TestMissing(t *testing.T) {
	require.Equal(t, []string{"a", "c"}, missing([]string{"a", "b", "c"}, []string{"b"}))
	require.Empty(t, missing([]string{"a"}, []string{"a", "b"}))
}
