package project

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors sexpr.toml. Absent keys keep the values from Default.
type Config struct {
	Output      OutputConfig      `toml:"output"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Parse       ParseConfig       `toml:"parse"`
	Source      SourceConfig      `toml:"source"`
}

type OutputConfig struct {
	Format   string `toml:"format"`    // debug|tree|json|sexpr
	Color    string `toml:"color"`     // auto|on|off
	PathMode string `toml:"path_mode"` // auto|absolute|relative|basename
}

type DiagnosticsConfig struct {
	Max     int  `toml:"max"`
	Notes   bool `toml:"notes"`
	Context int  `toml:"context"`
}

type ParseConfig struct {
	Jobs      int    `toml:"jobs"`
	Cache     bool   `toml:"cache"`
	MaxTokens uint32 `toml:"max_tokens"`
}

type SourceConfig struct {
	Extensions []string `toml:"extensions"`
	Normalize  string   `toml:"normalize"` // none|nfc
}

// Manifest is a loaded sexpr.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

var (
	outputFormats = []string{"debug", "tree", "json", "sexpr"}
	colorModes    = []string{"auto", "on", "off"}
	pathModes     = []string{"auto", "absolute", "relative", "basename"}
	normalizeMode = []string{"none", "nfc"}
)

// Default returns the configuration used when no sexpr.toml exists.
func Default() Config {
	return Config{
		Output:      OutputConfig{Format: "debug", Color: "auto", PathMode: "auto"},
		Diagnostics: DiagnosticsConfig{Max: 100, Notes: true, Context: 0},
		Source:      SourceConfig{Normalize: "none"},
	}
}

// LoadNearest finds sexpr.toml from startDir upwards and loads it.
func LoadNearest(startDir string) (*Manifest, bool, error) {
	configPath, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadManifest(configPath)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadManifest loads the config file at path.
func LoadManifest(path string) (*Manifest, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// LoadConfig decodes and validates the file at path on top of Default().
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	if err := oneOf("[output].format", c.Output.Format, outputFormats); err != nil {
		return err
	}
	if err := oneOf("[output].color", c.Output.Color, colorModes); err != nil {
		return err
	}
	if err := oneOf("[output].path_mode", c.Output.PathMode, pathModes); err != nil {
		return err
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("[diagnostics].max must be >= 0, got %d", c.Diagnostics.Max)
	}
	if c.Diagnostics.Context < 0 || c.Diagnostics.Context > 10 {
		return fmt.Errorf("[diagnostics].context must be in 0..10, got %d", c.Diagnostics.Context)
	}
	if c.Parse.Jobs < 0 {
		return fmt.Errorf("[parse].jobs must be >= 0, got %d", c.Parse.Jobs)
	}
	for i, ext := range c.Source.Extensions {
		if strings.TrimSpace(strings.TrimPrefix(ext, ".")) == "" {
			return fmt.Errorf("[source].extensions[%d] is empty", i)
		}
	}
	return oneOf("[source].normalize", c.Source.Normalize, normalizeMode)
}

func oneOf(key, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, "|"), value)
}
