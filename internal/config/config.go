package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Column mapping
	TextColumn   string `mapstructure:"text_column" yaml:"text_column"`
	DateColumn   string `mapstructure:"date_column" yaml:"date_column"`
	GroupColumn  string `mapstructure:"group_column" yaml:"group_column"`
	RatingColumn string `mapstructure:"rating_column" yaml:"rating_column"`

	// Input
	Encoding  string `mapstructure:"encoding" yaml:"encoding"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	MaxRows   int    `mapstructure:"max_rows" yaml:"max_rows"`

	// Report sizes
	TopWords    int `mapstructure:"top_words" yaml:"top_words"`
	CloudWords  int `mapstructure:"cloud_words" yaml:"cloud_words"`
	DocumentTop int `mapstructure:"document_top" yaml:"document_top"`
	CorpusTop   int `mapstructure:"corpus_top" yaml:"corpus_top"`
	SampleRows  int `mapstructure:"sample_rows" yaml:"sample_rows"`

	// Normalization
	StopWordsFile     string   `mapstructure:"stop_words_file" yaml:"stop_words_file"`
	ExtraStopWords    []string `mapstructure:"extra_stop_words" yaml:"extra_stop_words"`
	SnowballStopWords bool     `mapstructure:"snowball_stop_words" yaml:"snowball_stop_words"`
	Stem              bool     `mapstructure:"stem" yaml:"stem"`

	// Charts
	ChartWidth  int `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int `mapstructure:"chart_height" yaml:"chart_height"`
}

// EnvFile is read for REVIEWLOOM_* variables that are not already set in the
// process environment. A missing file is ignored.
var EnvFile = ".env"

// Dir returns ~/.reviewloom.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".reviewloom"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.reviewloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("REVIEWLOOM")
	v.AutomaticEnv()

	v.SetDefault("text_column", "Review_Text")
	v.SetDefault("date_column", "Year_Month")
	v.SetDefault("group_column", "Branch")
	v.SetDefault("rating_column", "Rating")
	v.SetDefault("encoding", "utf-8")
	v.SetDefault("delimiter", "")
	v.SetDefault("max_rows", 0)
	v.SetDefault("top_words", 20)
	v.SetDefault("cloud_words", 100)
	v.SetDefault("document_top", 15)
	v.SetDefault("corpus_top", 10)
	v.SetDefault("sample_rows", 3)
	v.SetDefault("stop_words_file", "")
	v.SetDefault("extra_stop_words", []string{})
	v.SetDefault("snowball_stop_words", false)
	v.SetDefault("stem", false)
	v.SetDefault("chart_width", 1100)
	v.SetDefault("chart_height", 600)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// a missing file means defaults; a malformed one is an error
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := applyDotenv(v); err != nil {
		return nil, err
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func applyDotenv(v *viper.Viper) error {
	vals, err := godotenv.Read(EnvFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", EnvFile, err)
	}
	for k, val := range vals {
		key, ok := strings.CutPrefix(k, "REVIEWLOOM_")
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(k); set {
			continue
		}
		v.Set(strings.ToLower(key), val)
	}
	return nil
}
