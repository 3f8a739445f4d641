// Package format adapts external code formatters to the cleanup pipeline.
package format

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Formatter reformats one file's source text.
type Formatter interface {
	// Format returns src formatted as the language of path, or an error.
	Format(ctx context.Context, path string, src []byte) ([]byte, error)
}

// Style holds the formatting policy passed to the formatter.
type Style struct {
	Semi          bool   `yaml:"semi"`
	TrailingComma string `yaml:"trailing_comma"`
	SingleQuote   bool   `yaml:"single_quote"`
	PrintWidth    int    `yaml:"print_width"`
	TabWidth      int    `yaml:"tab_width"`
}

// DefaultStyle requires semicolons, ES5 trailing commas, single quotes, an
// 80 column limit and 2-space indentation.
func DefaultStyle() Style {
	return Style{
		Semi:          true,
		TrailingComma: "es5",
		SingleQuote:   true,
		PrintWidth:    80,
		TabWidth:      2,
	}
}

// Apply formats src with f. It never fails the caller: when formatting fails
// it returns src unchanged together with the formatter's error, which the
// caller reports as a warning.
func Apply(ctx context.Context, f Formatter, path string, src []byte) ([]byte, error) {
	out, err := f.Format(ctx, path, src)
	if err != nil {
		return src, err
	}
	return out, nil
}

// Nop is the identity formatter, used when no formatter is installed.
type Nop struct{}

// Format returns src unchanged.
func (Nop) Format(_ context.Context, _ string, src []byte) ([]byte, error) {
	return src, nil
}

// ParserFor returns the prettier parser for a file, chosen by extension.
func ParserFor(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ts", ".tsx", ".mts", ".cts":
		return "typescript", nil
	case ".js", ".jsx", ".mjs", ".cjs":
		return "babel", nil
	default:
		return "", fmt.Errorf("no parser for %q files", ext)
	}
}
