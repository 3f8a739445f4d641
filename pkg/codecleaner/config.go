package codecleaner

import (
	"path/filepath"
	"slices"

	"github.com/715d/codecleaner/pkg/format"
)

// Config is the cleanup policy. It is built once and passed by value; the
// walker copies the slices it needs, so later mutation by the caller has no
// effect on a running walk.
type Config struct {
	// Extensions lists eligible file suffixes, including the dot. Matching is
	// case-sensitive.
	Extensions []string `yaml:"extensions"`
	// ExcludeDirs lists directory base names skipped at any depth.
	ExcludeDirs []string `yaml:"exclude_dirs"`
	// LogCallees are dotted callee paths removed in statement position.
	LogCallees []string     `yaml:"log_callees"`
	Style      format.Style `yaml:"style"`
}

// DefaultConfig returns the compiled-in policy.
func DefaultConfig() Config {
	return Config{
		Extensions:  []string{".ts", ".tsx", ".js", ".jsx"},
		ExcludeDirs: []string{"node_modules", "build", "dist", ".git"},
		LogCallees:  []string{"console.log"},
		Style:       format.DefaultStyle(),
	}
}

// policy is the lookup form of a Config.
type policy struct {
	extensions map[string]struct{}
	exclude    map[string]struct{}
	callees    []string
}

func newPolicy(cfg Config) policy {
	return policy{
		extensions: toSet(cfg.Extensions),
		exclude:    toSet(cfg.ExcludeDirs),
		callees:    slices.Clone(cfg.LogCallees),
	}
}

func (p policy) eligible(path string) bool {
	_, ok := p.extensions[filepath.Ext(path)]
	return ok
}

func (p policy) excluded(name string) bool {
	_, ok := p.exclude[name]
	return ok
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
