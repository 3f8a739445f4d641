package format

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script standing in for prettier.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestParserFor(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "a.ts", want: "typescript"},
		{path: "dir/a.TSX", want: "typescript"},
		{path: "a.js", want: "babel"},
		{path: "a.jsx", want: "babel"},
		{path: "a.mjs", want: "babel"},
		{path: "a.css", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ParserFor(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPrettier_Args(t *testing.T) {
	p := &Prettier{Path: "prettier", Style: DefaultStyle()}
	args, err := p.Args("src/app.tsx")
	require.NoError(t, err)
	require.Equal(t, []string{
		"--stdin-filepath", "src/app.tsx",
		"--parser", "typescript",
		"--trailing-comma", "es5",
		"--print-width", "80",
		"--tab-width", "2",
		"--no-config",
		"--no-editorconfig",
		"--single-quote",
	}, args)

	style := DefaultStyle()
	style.Semi = false
	style.SingleQuote = false
	args, err = (&Prettier{Style: style}).Args("a.js")
	require.NoError(t, err)
	require.Contains(t, args, "--no-semi")
	require.NotContains(t, args, "--single-quote")
}

func TestPrettier_Format(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	script := writeScript(t, dir, "prettier", `echo "$@" > "`+argsFile+`"
tr 'a-z' 'A-Z'
`)

	p := &Prettier{Path: script, Style: DefaultStyle()}
	// Large enough to overflow a pipe buffer in both directions.
	src := strings.Repeat("let x = 1;\n", 20000)
	out, err := p.Format(context.Background(), "a.js", []byte(src))
	require.NoError(t, err)
	require.Equal(t, strings.ToUpper(src), string(out))

	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Contains(t, string(recorded), "--stdin-filepath a.js --parser babel")
}

func TestPrettier_FormatFailure(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "prettier", `cat > /dev/null
echo "" >&2
echo "[error] stdin: SyntaxError: Unexpected token (1:5)" >&2
exit 2
`)

	p := &Prettier{Path: script, Style: DefaultStyle()}
	_, err := p.Format(context.Background(), "a.ts", []byte("let = ;"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "SyntaxError: Unexpected token (1:5)")
}

type failingFormatter struct{}

func (failingFormatter) Format(context.Context, string, []byte) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestApply(t *testing.T) {
	src := []byte("a;\n")

	out, err := Apply(context.Background(), Nop{}, "a.js", src)
	require.NoError(t, err)
	require.Equal(t, src, out)

	out, err = Apply(context.Background(), failingFormatter{}, "a.js", src)
	require.EqualError(t, err, "boom")
	require.Equal(t, src, out, "input must be returned on failure")
}

func TestResolve(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bits are not meaningful on windows")
	}
	t.Setenv("PATH", t.TempDir())

	root := t.TempDir()
	_, err := Resolve(root, "")
	require.ErrorIs(t, err, ErrNotFound)

	bin := filepath.Join(root, "node_modules", ".bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	local := writeScript(t, bin, "prettier", "cat\n")
	got, err := Resolve(root, "")
	require.NoError(t, err)
	require.Equal(t, local, got)

	explicit := writeScript(t, t.TempDir(), "my-prettier", "cat\n")
	got, err = Resolve(root, explicit)
	require.NoError(t, err)
	require.Equal(t, explicit, got)

	_, err = Resolve(root, filepath.Join(root, "missing"))
	require.Error(t, err)
}
