// Package manifest handles tubular.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a tubular.toml run configuration. CLI flags override
// anything set here.
type Manifest struct {
	Program Program `toml:"program"`
	Limits  Limits  `toml:"limits"`
	Output  Output  `toml:"output"`
	Input   Input   `toml:"input"`

	// Dir is the directory containing the tubular.toml file (set at load time).
	Dir string `toml:"-"`
}

// Program names the default program to run.
type Program struct {
	File string `toml:"file"`
}

// Limits bounds execution. Zeroes mean unlimited.
type Limits struct {
	MaxTicks  uint64 `toml:"max-ticks"`
	MaxTimeMS uint64 `toml:"max-time-ms"`
}

// Output configures diagnostics and report rendering.
type Output struct {
	Verbose bool   `toml:"verbose"`
	Trace   bool   `toml:"trace"`
	Format  string `toml:"format"` // table, json, or cbor
}

// Input supplies canned program input for '?' and '??'.
type Input struct {
	Text string `toml:"text"`
}

// Load parses a tubular.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "tubular.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Output.Format == "" {
		m.Output.Format = "table"
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a tubular.toml file, then
// loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "tubular.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// ProgramPath returns the absolute path of the configured program file, or
// "" when none is configured.
func (m *Manifest) ProgramPath() string {
	if m.Program.File == "" {
		return ""
	}
	if filepath.IsAbs(m.Program.File) {
		return m.Program.File
	}
	return filepath.Join(m.Dir, m.Program.File)
}
