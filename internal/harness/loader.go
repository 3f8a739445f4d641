package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
	yaml "gopkg.in/yaml.v3"
)

const (
	inputPrefix = "input/"
	wantPrefix  = "want/"
)

// LoadTestCase parses a txtar archive. Its comment section is the YAML
// Expectation; files under input/ form the tree to clean and files under
// want/ give the expected content of the input file with the same relative
// path. Input files without a want/ entry must come out unchanged.
func LoadTestCase(t *testing.T, path string) *TestCase {
	t.Helper()

	ar, err := txtar.ParseFile(path)
	require.NoError(t, err, "parse %s", path)

	tc := &TestCase{
		Name:  strings.TrimSuffix(filepath.Base(path), ".txtar"),
		Input: make(map[string][]byte),
		Want:  make(map[string][]byte),
	}
	require.NoError(t, yaml.Unmarshal(ar.Comment, &tc.Expect), "parse header of %s", path)

	for _, f := range ar.Files {
		switch {
		case strings.HasPrefix(f.Name, inputPrefix):
			tc.Input[strings.TrimPrefix(f.Name, inputPrefix)] = f.Data
		case strings.HasPrefix(f.Name, wantPrefix):
			tc.Want[strings.TrimPrefix(f.Name, wantPrefix)] = f.Data
		default:
			require.Failf(t, "unexpected archive entry", "%s: %s is neither input/ nor want/", path, f.Name)
		}
	}
	for name := range tc.Want {
		_, ok := tc.Input[name]
		require.True(t, ok, "%s: want/%s has no matching input", path, name)
	}
	return tc
}

// materialize writes the input tree of tc below dir.
func materialize(t *testing.T, dir string, tc *TestCase) {
	t.Helper()
	for name, data := range tc.Input {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
}
