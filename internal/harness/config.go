// Package harness runs the cleaner over small source trees described by
// txtar archives and checks the rewritten files against expectations.
package harness

// Expectation is the YAML header of a test archive.
type Expectation struct {
	// Description says what the case covers.
	Description string `yaml:"description"`

	// Processed lists every file, relative to the tree root, that the walk
	// must hand to the processor.
	Processed []string `yaml:"processed"`

	// Warned lists the processed files expected to carry warnings.
	Warned []string `yaml:"warned,omitempty"`

	// SkippedDirs is the expected number of excluded or unreadable
	// directories.
	SkippedDirs int `yaml:"skipped_dirs"`

	// LogCallees overrides the default callee list when set.
	LogCallees []string `yaml:"log_callees,omitempty"`
}
