// Package manifest handles penplot.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the project configuration file.
const FileName = "penplot.toml"

// Manifest represents a penplot.toml project configuration.
type Manifest struct {
	Project Project       `toml:"project"`
	Source  Source        `toml:"source"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Output  OutputConfig  `toml:"output"`
	Run     RunConfig     `toml:"run"`
	Fractal FractalConfig `toml:"fractal"`
	Log     LogConfig     `toml:"log"`

	// Dir is the directory containing the penplot.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name string `toml:"name"`
}

// Source names the program the run command draws by default.
type Source struct {
	Entry string `toml:"entry"`
}

// CanvasConfig pins the canvas. Zero width or height means auto-size.
type CanvasConfig struct {
	Width   int `toml:"width"`
	Height  int `toml:"height"`
	OffsetX int `toml:"offset-x"`
	OffsetY int `toml:"offset-y"`
}

// OutputConfig configures image output.
type OutputConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format,omitempty"`
	Scale  int    `toml:"scale"`
}

// RunConfig bounds execution.
type RunConfig struct {
	MaxSteps int  `toml:"max-steps"`
	Trace    bool `toml:"trace"`
}

// FractalConfig names an L-system spec and how far to expand it.
type FractalConfig struct {
	Spec       string `toml:"spec"`
	Iterations int    `toml:"iterations"`
}

// LogConfig sets log verbosity (0 quiet, 1 info, 2 debug).
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// Default returns a manifest with every default applied.
func Default() *Manifest {
	m := &Manifest{}
	m.applyDefaults()
	return m
}

func (m *Manifest) applyDefaults() {
	if m.Output.Path == "" {
		m.Output.Path = "out.png"
	}
	if m.Output.Scale < 1 {
		m.Output.Scale = 1
	}
	if m.Fractal.Iterations < 0 {
		m.Fractal.Iterations = 0
	}
}

// Load parses a penplot.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.applyDefaults()

	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Canvas.Width < 0 || m.Canvas.Height < 0 {
		return fmt.Errorf("canvas size must not be negative")
	}
	if m.Run.MaxSteps < 0 {
		return fmt.Errorf("run.max-steps must not be negative")
	}
	if m.Fractal.Iterations < 0 {
		return fmt.Errorf("fractal.iterations must not be negative")
	}
	return nil
}

// FindAndLoad walks up from startDir to find a penplot.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
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

// Write encodes the manifest to dir/penplot.toml, refusing to overwrite an
// existing file.
func Write(dir string, m *Manifest) error {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	enc := toml.NewEncoder(f)
	enc.Indent = ""
	if err := enc.Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return f.Close()
}

// Resolve returns p relative to the manifest directory. Absolute and empty
// paths are returned unchanged.
func (m *Manifest) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || m.Dir == "" {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// EntryPath returns the absolute path of the default program, or "".
func (m *Manifest) EntryPath() string {
	return m.Resolve(m.Source.Entry)
}

// SpecPath returns the absolute path of the default L-system spec, or "".
func (m *Manifest) SpecPath() string {
	return m.Resolve(m.Fractal.Spec)
}

// OutputPath returns the absolute path of the output image.
func (m *Manifest) OutputPath() string {
	return m.Resolve(m.Output.Path)
}
