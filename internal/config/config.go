package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/kexdocs/internal/foundation/errors"
)

// DefaultConfigFile is the configuration path used when --config is not given.
const DefaultConfigFile = "kexdocs.yaml"

// Config represents the application configuration.
type Config struct {
	ProjectDir   string             `yaml:"project_dir"`
	Declarations DeclarationsConfig `yaml:"declarations"`
	Generator    GeneratorConfig    `yaml:"generator"`
	Output       OutputConfig       `yaml:"output"`
	Assets       []AssetRule        `yaml:"assets"`
	Verify       VerifyConfig       `yaml:"verify"`
	State        StateConfig        `yaml:"state"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Watch        WatchConfig        `yaml:"watch"`
}

// DeclarationsConfig controls the aggregation of ambient declaration files.
type DeclarationsConfig struct {
	Pattern    string  `yaml:"pattern"`
	Output     string  `yaml:"output"`
	Banner     string  `yaml:"banner"`
	Separator  *string `yaml:"separator,omitempty"` // nil means DefaultSeparator
	AllowEmpty bool    `yaml:"allow_empty"`
}

// JoinSeparator returns the text placed between consecutive declaration files.
func (d DeclarationsConfig) JoinSeparator() string {
	if d.Separator == nil {
		return DefaultSeparator
	}
	return *d.Separator
}

// GeneratorConfig describes the external documentation generator.
type GeneratorConfig struct {
	Enabled *bool    `yaml:"enabled,omitempty"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Title   string   `yaml:"title"`
	Readme  string   `yaml:"readme"`
	Out     string   `yaml:"out"`
}

// IsEnabled reports whether the generator stage runs (default true).
func (g GeneratorConfig) IsEnabled() bool { return g.Enabled == nil || *g.Enabled }

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// AssetRule copies Src (file, directory or glob) to Dest under the output root.
type AssetRule struct {
	Src      string `yaml:"src"`
	Dest     string `yaml:"dest"`
	Flatten  bool   `yaml:"flatten,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
}

// VerifyConfig controls link verification of the output tree.
type VerifyConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	FailOnBroken bool     `yaml:"fail_on_broken"`
	Ignore       []string `yaml:"ignore,omitempty"`
}

func (v VerifyConfig) IsEnabled() bool { return v.Enabled == nil || *v.Enabled }

// StateConfig holds build bookkeeping that must stay outside the output root.
type StateConfig struct {
	Directory string `yaml:"directory"`
	Manifest  *bool  `yaml:"manifest,omitempty"`
}

func (s StateConfig) ManifestEnabled() bool { return s.Manifest == nil || *s.Manifest }

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("path", configPath).Build()
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			Fatal().WithContext("path", configPath).Build()
	}

	// A relative project_dir is relative to the config file, not the working directory.
	if cfg.ProjectDir == "" || !filepath.IsAbs(cfg.ProjectDir) {
		cfg.ProjectDir = filepath.Join(filepath.Dir(configPath), cfg.ProjectDir)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load, except that a missing file at the default
// path yields the built-in defaults rooted at the working directory.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == DefaultConfigFile {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			loadEnvFile()
			cfg := Default()
			return cfg, cfg.Validate()
		}
	}
	return Load(configPath)
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	cfg := Default()
	cfg.ProjectDir = "."
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Fatal().Build()
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create config directory").Build()
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}

// Path resolves p against the project directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectDir, p)
}

// OutputRoot returns the absolute-or-project-relative output directory.
func (c *Config) OutputRoot() string { return c.Path(c.Output.Directory) }
