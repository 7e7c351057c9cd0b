// Package config loads scriptgen command settings from defaults, an optional
// YAML file, SCRIPTGEN_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SCRIPTGEN_DATA_BUNDLE.
const EnvPrefix = "SCRIPTGEN"

// Config stores all configuration of the scriptgen command.
type Config struct {
	Data       DataConfig       `mapstructure:"data"`
	Model      ModelConfig      `mapstructure:"model"`
	Preprocess PreprocessConfig `mapstructure:"preprocess"`
	Generate   GenerateConfig   `mapstructure:"generate"`
	Log        LogConfig        `mapstructure:"log"`
}

// DataConfig locates the preprocessed bundle.
type DataConfig struct {
	Bundle string `mapstructure:"bundle"`
}

// ModelConfig locates the exported generation model.
type ModelConfig struct {
	ONNX string `mapstructure:"onnx"`
}

// PreprocessConfig controls a preprocessing run.
type PreprocessConfig struct {
	// Seed of the stopword downsampling draw; 0 picks a random seed.
	Seed            uint64  `mapstructure:"seed"`
	KeepProbability float64 `mapstructure:"keepProbability"`
	// Stopwords is a stopword file; empty uses the built-in English list.
	Stopwords string `mapstructure:"stopwords"`
}

// GenerateConfig controls text generation.
type GenerateConfig struct {
	SeqLen   int    `mapstructure:"seqLen"`
	TopK     int    `mapstructure:"topK"`
	Length   int    `mapstructure:"length"`
	Prime    string `mapstructure:"prime"`
	Seed     uint64 `mapstructure:"seed"`
	PoolSize int    `mapstructure:"poolSize"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration. configPath may be empty, in which case
// scriptgen.yaml is looked up in the working directory and a missing file is
// not an error. Flags registered in flags are bound to their keys by name;
// see FlagKeys.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("scriptgen")
		v.SetConfigType("yaml")
	}

	v.SetDefault("data.bundle", "preprocess.p")
	v.SetDefault("model.onnx", "")
	v.SetDefault("preprocess.seed", 0)
	v.SetDefault("preprocess.keepProbability", 0.5)
	v.SetDefault("preprocess.stopwords", "")
	v.SetDefault("generate.seqLen", 20)
	v.SetDefault("generate.topK", 5)
	v.SetDefault("generate.length", 400)
	v.SetDefault("generate.prime", "moe_szyslak:")
	v.SetDefault("generate.seed", 0)
	v.SetDefault("generate.poolSize", 1)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FlagKeys maps configuration keys to the flag names that override them.
var FlagKeys = map[string]string{
	"data.bundle":                "bundle",
	"model.onnx":                 "model",
	"preprocess.seed":            "seed",
	"preprocess.keepProbability": "keep",
	"preprocess.stopwords":       "stopwords",
	"generate.seqLen":            "seq-len",
	"generate.topK":              "top-k",
	"generate.length":            "length",
	"generate.prime":             "prime",
	"generate.seed":              "sample-seed",
	"generate.poolSize":          "pool-size",
	"log.level":                  "log-level",
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if c.Data.Bundle == "" {
		return errors.New("config: data.bundle must not be empty")
	}
	if p := c.Preprocess.KeepProbability; p < 0 || p > 1 {
		return fmt.Errorf("config: preprocess.keepProbability %v outside [0, 1]", p)
	}
	if c.Generate.SeqLen <= 0 {
		return fmt.Errorf("config: generate.seqLen must be positive, got %d", c.Generate.SeqLen)
	}
	if c.Generate.TopK <= 0 {
		return fmt.Errorf("config: generate.topK must be positive, got %d", c.Generate.TopK)
	}
	return nil
}
