package log

import (
	"fmt"
	"strings"
)

type Config struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Environment string `yaml:"environment"`
	ServiceName string `yaml:"service_name"`
	Version     string `yaml:"version"`

	OutputPath string `yaml:"output_path"`

	FileMaxSizeInMB  int  `yaml:"file_max_size_mb"`
	FileMaxAgeInDays int  `yaml:"file_max_age_days"`
	FileMaxBackups   int  `yaml:"file_max_backups"`
	CompressRotated  bool `yaml:"compress_rotated"`

	DisableCaller     bool `yaml:"disable_caller"`
	DisableStacktrace bool `yaml:"disable_stacktrace"`
}

func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
	}
	if !validLevels[strings.ToLower(c.Level)] {
		return fmt.Errorf("invalid log level: %s, must be one of: debug, info, warn, error, fatal", c.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[strings.ToLower(c.Format)] {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'console'", c.Format)
	}

	if c.FileMaxSizeInMB <= 0 {
		return fmt.Errorf("file_max_size_mb must be greater than 0")
	}
	if c.FileMaxAgeInDays <= 0 {
		return fmt.Errorf("file_max_age_days must be greater than 0")
	}
	if c.FileMaxBackups < 0 {
		return fmt.Errorf("file_max_backups must be greater than or equal to 0")
	}

	return nil
}

func DefaultConfig() Config {
	return Config{
		Level:            "info",
		Format:           "json",
		Environment:      "development",
		ServiceName:      "comercia",
		Version:          "1.0.0",
		OutputPath:       "stdout",
		FileMaxSizeInMB:  100,
		FileMaxAgeInDays: 30,
		FileMaxBackups:   10,
		CompressRotated:  true,
	}
}

func DevelopmentConfig() Config {
	config := DefaultConfig()
	config.Level = "debug"
	config.Format = "console"
	return config
}

func ProductionConfig(serviceName, version string) Config {
	config := DefaultConfig()
	config.Environment = "production"
	config.ServiceName = serviceName
	config.Version = version
	config.DisableCaller = true
	config.DisableStacktrace = true
	return config
}
