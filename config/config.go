package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// --- Configuration Structs ---

type GeneratorConfig struct {
	Records   int   `yaml:"records" mapstructure:"records"`
	Seed      int64 `yaml:"seed" mapstructure:"seed"`
	ChunkSize int   `yaml:"chunk_size" mapstructure:"chunk_size"`
}

type SinkConfig struct {
	DriverPath string `yaml:"driver_path,omitempty" mapstructure:"driver_path"`
	Path       string `yaml:"path,omitempty" mapstructure:"path"`
	Host       string `yaml:"host,omitempty" mapstructure:"host"`
	Warehouse  string `yaml:"warehouse,omitempty" mapstructure:"warehouse"`
	Token      string `yaml:"token,omitempty" mapstructure:"token"`
	Table      string `yaml:"table" mapstructure:"table"`
}

type Config struct {
	Generator GeneratorConfig `yaml:"generator" mapstructure:"generator"`
	Sink      SinkConfig      `yaml:"sink" mapstructure:"sink"`
}

// --- Load Configuration ---

func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// --- Validation Functions ---

// validate is a helper function to reduce repetition.
func validate(condition bool, format string, a ...any) error {
	if !condition {
		return fmt.Errorf(format, a...)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("generator validation failed: %w", err)
	}
	if err := c.Sink.Validate(); err != nil {
		return fmt.Errorf("sink validation failed: %w", err)
	}
	return nil
}

func (gc *GeneratorConfig) Validate() error {
	if err := validate(gc.Records > 0, "record count must be positive"); err != nil {
		return err
	}
	return validate(gc.ChunkSize > 0, "chunk size must be positive")
}

func (sc *SinkConfig) Validate() error {
	// Host, warehouse and token are optional passthrough options; only
	// presence of a destination table is required here.
	return validate(sc.Table != "", "destination table is required")
}
