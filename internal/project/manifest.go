package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrNoManifest is returned by Load when no jsonerr.toml is found.
	ErrNoManifest = errors.New("no jsonerr.toml found")
	// ErrBadManifest wraps every validation failure of a manifest.
	ErrBadManifest = errors.New("invalid jsonerr.toml")
	// ErrManifestExists is returned by Init when the manifest is already there.
	ErrManifestExists = errors.New("jsonerr.toml already exists")
)

// Manifest is a loaded jsonerr.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest layout.
type Config struct {
	Generate    GenerateConfig    `toml:"generate"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Docs        DocsConfig        `toml:"docs"`
}

// GenerateConfig controls code and documentation output.
type GenerateConfig struct {
	InternalCode string `toml:"internal_code"`
	Log          bool   `toml:"log"`
	Runtime      string `toml:"runtime"`
	Suffix       string `toml:"suffix"`
	DocsSuffix   string `toml:"docs_suffix"`
}

// DiagnosticsConfig controls reporting.
type DiagnosticsConfig struct {
	Max                         int  `toml:"max"`
	ReportMissingAfterTypeError bool `toml:"report_missing_after_type_error"`
}

// DocsConfig holds documentation post-processing.
type DocsConfig struct {
	Combine []CombineRule `toml:"combine,omitempty"`
}

// CombineRule asks for the combined artifact of two cases of one unit.
type CombineRule struct {
	Unit  string   `toml:"unit"`
	Cases []string `toml:"cases"`
}

// Default returns the configuration used without a manifest.
func Default() Config {
	return Config{
		Generate: GenerateConfig{
			InternalCode: "internal-error",
			Log:          true,
			Runtime:      "jsonerr/jsonresp",
			Suffix:       "_jsonerr.go",
			DocsSuffix:   ".jsonerr.json",
		},
		Diagnostics: DiagnosticsConfig{Max: 100},
	}
}

// Load finds and parses the manifest governing startDir.
func Load(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// LoadOrDefault is Load that falls back to Default when there is no manifest.
// The returned manifest then has empty Path and Root.
func LoadOrDefault(startDir string) (*Manifest, error) {
	m, err := Load(startDir)
	if errors.Is(err, ErrNoManifest) {
		return &Manifest{Config: Default()}, nil
	}
	return m, err
}

// LoadConfig parses one manifest file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: %s: unknown keys %s", ErrBadManifest, path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that decoding cannot.
func (c Config) Validate() error {
	g := c.Generate
	switch {
	case strings.TrimSpace(g.InternalCode) == "":
		return fmt.Errorf("%w: [generate].internal_code must not be empty", ErrBadManifest)
	case !strings.HasSuffix(g.Suffix, ".go"):
		return fmt.Errorf("%w: [generate].suffix must end with .go", ErrBadManifest)
	case g.DocsSuffix == "" || g.DocsSuffix == g.Suffix:
		return fmt.Errorf("%w: [generate].docs_suffix must be set and differ from suffix", ErrBadManifest)
	case strings.TrimSpace(g.Runtime) == "":
		return fmt.Errorf("%w: [generate].runtime must not be empty", ErrBadManifest)
	case c.Diagnostics.Max < 0:
		return fmt.Errorf("%w: [diagnostics].max must not be negative", ErrBadManifest)
	}
	for i, rule := range c.Docs.Combine {
		if rule.Unit == "" {
			return fmt.Errorf("%w: [[docs.combine]] #%d: unit is required", ErrBadManifest, i+1)
		}
		if len(rule.Cases) != 2 {
			return fmt.Errorf("%w: [[docs.combine]] #%d: exactly two cases are required, got %d", ErrBadManifest, i+1, len(rule.Cases))
		}
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Init writes the default manifest into dir.
func Init(dir string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return path, ErrManifestExists
	}
	data, err := Encode(Default())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
