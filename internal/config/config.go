package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	FileName  = "settings.yaml"
	EnvPrefix = "DOCTAG"
	// BaseDirName is the managed root used when nothing else names one.
	BaseDirName = "base"
)

// Config is the CLI's own settings, separate from a root's tag config.
type Config struct {
	Root         string `yaml:"root,omitempty" mapstructure:"root"`
	SingleFolder bool   `yaml:"single_folder,omitempty" mapstructure:"single_folder"`
	SearchField  string `yaml:"search_field,omitempty" mapstructure:"search_field"`
	Verbose      bool   `yaml:"verbose,omitempty" mapstructure:"verbose"`
}

func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return &cfg, nil
}

func Save(dataDir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	return os.WriteFile(filepath.Join(dataDir, FileName), data, 0644)
}

// Resolve merges settings from, highest first: flags, DOCTAG_* environment
// variables, dataDir/settings.yaml and defaults. flags may be nil.
func Resolve(dataDir string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("root", "")
	v.SetDefault("single_folder", false)
	v.SetDefault("search_field", "tags")
	v.SetDefault("verbose", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("root", EnvPrefix+"_ROOT")
	_ = v.BindEnv("single_folder", EnvPrefix+"_SINGLE_FOLDER")
	_ = v.BindEnv("search_field", EnvPrefix+"_SEARCH_FIELD")
	_ = v.BindEnv("verbose", EnvPrefix+"_VERBOSE")

	if flags != nil {
		bindFlag(v, flags, "root", "root")
		bindFlag(v, flags, "single_folder", "single-folder")
		bindFlag(v, flags, "search_field", "field")
		bindFlag(v, flags, "verbose", "verbose")
	}

	path := filepath.Join(dataDir, FileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading settings: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	cfg.Root = expandHomeDir(cfg.Root)
	return &cfg, nil
}

// bindFlag binds key to the named flag when the command defines it.
func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key, name string) {
	if f := flags.Lookup(name); f != nil {
		_ = v.BindPFlag(key, f)
	}
}

// DefaultRoot is the managed root inside the data directory.
func DefaultRoot(dataDir string) string {
	return filepath.Join(dataDir, BaseDirName)
}

// expandHomeDir expands a leading ~ to the user's home directory.
func expandHomeDir(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}
