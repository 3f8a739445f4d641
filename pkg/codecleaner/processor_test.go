package codecleaner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/codecleaner/pkg/format"
)

// fakeFormatter fails for paths containing fail and otherwise applies fn.
type fakeFormatter struct {
	fail  string
	fn    func([]byte) []byte
	calls []string
}

func (f *fakeFormatter) Format(_ context.Context, path string, src []byte) ([]byte, error) {
	f.calls = append(f.calls, path)
	if f.fail != "" && strings.Contains(path, f.fail) {
		return nil, errors.New("SyntaxError: Unexpected token")
	}
	if f.fn == nil {
		return src, nil
	}
	return f.fn(src), nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func stages(ws []Warning) []Stage {
	var out []Stage
	for _, w := range ws {
		out = append(out, w.Stage)
	}
	return out
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		src          string
		formatter    format.Formatter
		want         string
		wantChanged  bool
		wantWarnings []Stage
	}{
		{
			name:        "comment_and_log_removed",
			file:        "a.ts",
			src:         "// header\nfunction f() {\n  console.log('hi');\n  return 1;\n}\n",
			want:        "function f() {\n  return 1;\n}\n",
			wantChanged: true,
		},
		{
			name: "clean_file_untouched",
			file: "a.js",
			src:  "const u = 'http://example.com';\n",
			want: "const u = 'http://example.com';\n",
		},
		{
			name:        "formatter_output_written",
			file:        "a.js",
			src:         "let a = \"x\" // c\n",
			formatter:   &fakeFormatter{fn: func(b []byte) []byte { return []byte(strings.ReplaceAll(string(b), `"`, "'") + ";") }},
			want:        "let a = 'x'\n;",
			wantChanged: true,
		},
		{
			name:         "format_failure_writes_stripped_source",
			file:         "fail.ts",
			src:          "// c\nlet x = ;\nconsole.log(x);\n",
			formatter:    &fakeFormatter{fail: "fail"},
			want:         "let x = ;\n",
			wantChanged:  true,
			wantWarnings: []Stage{StageFormat},
		},
		{
			name:         "malformed_source_left_alone",
			file:         "fail.js",
			src:          "const s = 'open;\nconsole.log(1);\n// c\n",
			formatter:    &fakeFormatter{fail: "fail"},
			want:         "const s = 'open;\nconsole.log(1);\n// c\n",
			wantWarnings: []Stage{StageStripComments, StageStripLogs, StageFormat},
		},
		{
			name:        "jsx_comment_container",
			file:        "App.jsx",
			src:         "export const App = () => (\n  <div>\n    {/* todo */}\n    <p>hi</p>\n  </div>\n);\n",
			want:        "export const App = () => (\n  <div>\n    <p>hi</p>\n  </div>\n);\n",
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.src)

			p := NewProcessor(DefaultConfig(), tt.formatter)
			res := p.Process(context.Background(), path)
			require.NoError(t, res.Err)
			require.True(t, res.OK())
			require.Equal(t, path, res.Path)
			require.Equal(t, tt.wantChanged, res.Changed)
			require.Equal(t, tt.wantWarnings, stages(res.Warnings))
			require.Equal(t, tt.want, readFile(t, path))
		})
	}
}

func TestProcess_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.tsx")
	writeFile(t, path, "/** doc */\nexport function f(x: number) {\n  console.log(x); // trace\n  return <b>{x}</b>;\n}\n")

	p := NewProcessor(DefaultConfig(), nil)
	first := p.Process(context.Background(), path)
	require.NoError(t, first.Err)
	require.True(t, first.Changed)
	want := readFile(t, path)
	require.Equal(t, "export function f(x: number) {\n  return <b>{x}</b>;\n}\n", want)

	second := p.Process(context.Background(), path)
	require.NoError(t, second.Err)
	require.False(t, second.Changed)
	require.Empty(t, second.Warnings)
	require.Equal(t, want, readFile(t, path))
}

func TestProcess_KeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.js")
	require.NoError(t, os.WriteFile(path, []byte("#!/usr/bin/env node\n// c\nmain();\n"), 0o751))
	require.NoError(t, os.Chmod(path, 0o751))

	res := NewProcessor(DefaultConfig(), nil).Process(context.Background(), path)
	require.NoError(t, res.Err)
	require.True(t, res.Changed)
	require.Equal(t, "#!/usr/bin/env node\nmain();\n", readFile(t, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o751), info.Mode().Perm())
}

func TestProcess_ReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.ts")

	res := NewProcessor(DefaultConfig(), nil).Process(context.Background(), path)
	require.Error(t, res.Err)
	require.False(t, res.OK())
	require.ErrorIs(t, res.Err, os.ErrNotExist)

	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist, "no file may be created")
}

func TestProcess_CustomCallees(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.js")
	writeFile(t, path, "console.log(1);\nconsole.debug(2);\n")

	cfg := DefaultConfig()
	cfg.LogCallees = []string{"console.debug"}
	res := NewProcessor(cfg, nil).Process(context.Background(), path)
	require.NoError(t, res.Err)
	require.Equal(t, "console.log(1);\n", readFile(t, path))
}

func TestWarning(t *testing.T) {
	cause := errors.New("boom")
	w := Warning{Stage: StageFormat, Err: cause}
	require.Equal(t, "format: boom", w.Error())
	require.ErrorIs(t, w, cause)
	require.Equal(t, "Stage(9)", Stage(9).String())
}
