// Package config loads extractor settings from defaults, an optional YAML
// file, EXTRACTOR_* environment variables and bound command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hannajonsd/component-extractor/analyzer"
	"github.com/hannajonsd/component-extractor/resolver"
)

// Sentinel validation errors.
var (
	ErrNoExtensions     = errors.New("at least one source extension is required")
	ErrInvalidExtension = errors.New("source extensions must start with a dot")
	ErrEmptyOutput      = errors.New("output directory must not be empty")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrConfigExists     = errors.New("config file already exists")
)

// Default configuration values.
const (
	FileName  = ".component-extractor.yaml"
	EnvPrefix = "EXTRACTOR"

	defaultProject   = "."
	defaultOutput    = "./extracted"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config holds all extractor settings.
type Config struct {
	Project    string        `mapstructure:"project"     yaml:"project"`
	Output     string        `mapstructure:"output"      yaml:"output"`
	SourceRoot string        `mapstructure:"source_root" yaml:"source_root"`
	Extensions []string      `mapstructure:"extensions"  yaml:"extensions"`
	SkipDirs   []string      `mapstructure:"skip_dirs"   yaml:"skip_dirs"`
	Prune      bool          `mapstructure:"prune"       yaml:"prune"`
	DryRun     bool          `mapstructure:"dry_run"     yaml:"dry_run"`
	Logging    LoggingConfig `mapstructure:"logging"     yaml:"logging"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Project:    defaultProject,
		Output:     defaultOutput,
		SourceRoot: resolver.DefaultSourceRoot,
		Extensions: slices.Clone(resolver.DefaultExtensions),
		SkipDirs:   slices.Clone(analyzer.DefaultSkipDirs),
		Prune:      true,
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("project", def.Project)
	v.SetDefault("output", def.Output)
	v.SetDefault("source_root", def.SourceRoot)
	v.SetDefault("extensions", def.Extensions)
	v.SetDefault("skip_dirs", def.SkipDirs)
	v.SetDefault("prune", def.Prune)
	v.SetDefault("dry_run", def.DryRun)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
}

// Load reads configuration into v and returns the validated result. When
// configPath is empty, .component-extractor.yaml is looked up in the
// working directory and then the home directory; a missing file is not an
// error. Flags must already be bound to v.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if len(c.Extensions) == 0 {
		return ErrNoExtensions
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
	}

	if strings.TrimSpace(c.Output) == "" {
		return ErrEmptyOutput
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	return nil
}

// ExtractorOptions converts the settings into analyzer options.
func (c *Config) ExtractorOptions() []analyzer.Option {
	return []analyzer.Option{
		analyzer.WithExtensions(c.Extensions),
		analyzer.WithSourceRoot(c.SourceRoot),
		analyzer.WithSkipDirs(c.SkipDirs),
		analyzer.WithPruning(c.Prune),
		analyzer.WithDryRun(c.DryRun),
	}
}

// Marshal returns the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}

// WriteDefault writes the default configuration to dir and returns the
// path of the new file. An existing file is never overwritten.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w at %s", ErrConfigExists, path)
	}

	content, err := Default().Marshal()
	if err != nil {
		return "", err
	}

	header := "# component-extractor configuration\n# Every key can be overridden with an EXTRACTOR_ environment variable.\n\n"
	if err := os.WriteFile(path, append([]byte(header), content...), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
