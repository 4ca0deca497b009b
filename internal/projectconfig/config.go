// Package projectconfig provides the ProjectConfig struct and loader for
// .modelpick.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spboyer/modelpick/internal/profile"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up from the working directory.
const FileName = ".modelpick.yaml"

// Default values for project configuration. These are the single source of
// truth; New() references them and no other code should duplicate them.
const (
	DefaultFormat = "table"

	DefaultServerHost = "127.0.0.1"
	DefaultServerPort = 3000

	maxSearchDepth = 10
)

// Formats lists the accepted output formats.
var Formats = []string{"table", "json", "yaml"}

// PathsConfig holds file locations.
type PathsConfig struct {
	// KnowledgeBase replaces the embedded reference rules when set. Relative
	// paths are resolved against the directory holding the config file.
	KnowledgeBase string `yaml:"knowledge_base,omitempty"`
}

// ProfileDefaults pre-fills profile attributes for the CLI and wizard.
type ProfileDefaults struct {
	ProblemType    string `yaml:"problem_type,omitempty"`
	Gaussian       *bool  `yaml:"gaussian,omitempty"`
	ClassImbalance *bool  `yaml:"class_imbalance,omitempty"`
	PGreaterThanN  *bool  `yaml:"p_greater_than_n,omitempty"`
	ErrorFocus     string `yaml:"error_focus,omitempty"`
}

// DefaultsConfig holds output and profile defaults.
type DefaultsConfig struct {
	Format  string          `yaml:"format,omitempty"`
	Notes   *bool           `yaml:"notes,omitempty"`
	Explain *bool           `yaml:"explain,omitempty"`
	Profile ProfileDefaults `yaml:"profile,omitempty"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Host           string   `yaml:"host,omitempty"`
	Port           int      `yaml:"port,omitempty"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .modelpick.yaml.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`

	// Dir is the directory the config file was found in, empty for defaults.
	Dir string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	def := profile.Default()
	return &ProjectConfig{
		Defaults: DefaultsConfig{
			Format:  DefaultFormat,
			Notes:   boolPtr(false),
			Explain: boolPtr(false),
			Profile: ProfileDefaults{
				ProblemType:    string(def.ProblemType),
				Gaussian:       boolPtr(def.Gaussian),
				ClassImbalance: boolPtr(def.ClassImbalance),
				PGreaterThanN:  boolPtr(def.PGreaterThanN),
				ErrorFocus:     string(def.ErrorFocus),
			},
		},
		Server: ServerConfig{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
	}
}

// Load finds .modelpick.yaml by walking up from startDir (max 10 levels),
// unmarshals it, fills in missing fields with defaults and validates the
// result. If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, dir, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Join(dir, FileName), err)
	}
	return cfg, nil
}

// findConfigFile walks up from dir looking for the config file. Returns
// os.ErrNotExist if none is found.
func findConfigFile(dir string) ([]byte, string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for range maxSearchDepth {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, dir, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, "", os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Paths.KnowledgeBase != "" {
		dst.Paths.KnowledgeBase = src.Paths.KnowledgeBase
	}

	if src.Defaults.Format != "" {
		dst.Defaults.Format = src.Defaults.Format
	}
	if src.Defaults.Notes != nil {
		dst.Defaults.Notes = src.Defaults.Notes
	}
	if src.Defaults.Explain != nil {
		dst.Defaults.Explain = src.Defaults.Explain
	}

	sp, dp := &src.Defaults.Profile, &dst.Defaults.Profile
	if sp.ProblemType != "" {
		dp.ProblemType = sp.ProblemType
	}
	if sp.Gaussian != nil {
		dp.Gaussian = sp.Gaussian
	}
	if sp.ClassImbalance != nil {
		dp.ClassImbalance = sp.ClassImbalance
	}
	if sp.PGreaterThanN != nil {
		dp.PGreaterThanN = sp.PGreaterThanN
	}
	if sp.ErrorFocus != "" {
		dp.ErrorFocus = sp.ErrorFocus
	}

	if src.Server.Host != "" {
		dst.Server.Host = src.Server.Host
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if len(src.Server.AllowedOrigins) > 0 {
		dst.Server.AllowedOrigins = src.Server.AllowedOrigins
	}
}

// Validate checks enumerated settings.
func (c *ProjectConfig) Validate() error {
	if !slices.Contains(Formats, c.Defaults.Format) {
		return fmt.Errorf("defaults.format %q must be one of %v", c.Defaults.Format, Formats)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if _, err := c.Defaults.Profile.Profile(); err != nil {
		return fmt.Errorf("defaults.profile: %w", err)
	}
	return nil
}

// KnowledgeBasePath returns the configured knowledge base path resolved
// against the config directory, or "" when the embedded rules should be used.
func (c *ProjectConfig) KnowledgeBasePath() string {
	p := c.Paths.KnowledgeBase
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Profile converts the defaults into a validated profile. Unset fields fall
// back to profile.Default().
func (d ProfileDefaults) Profile() (profile.Profile, error) {
	p := profile.Default()
	if d.ProblemType != "" {
		p.ProblemType = profile.ProblemType(d.ProblemType)
	}
	if d.Gaussian != nil {
		p.Gaussian = *d.Gaussian
	}
	if d.ClassImbalance != nil {
		p.ClassImbalance = *d.ClassImbalance
	}
	if d.PGreaterThanN != nil {
		p.PGreaterThanN = *d.PGreaterThanN
	}
	if d.ErrorFocus != "" {
		p.ErrorFocus = profile.ErrorFocus(d.ErrorFocus)
	}
	if err := p.Validate(); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

func boolPtr(b bool) *bool {
	return &b
}
