package config

import (
	"github.com/Adithya151/DCF---racker/internal/logging"
)

// LoggingConfig is the logging section of config.yaml.
type LoggingConfig struct {
	Level  string `yaml:"level"          json:"level"`
	Format string `yaml:"format"         json:"format"`
	File   string `yaml:"file"           json:"file,omitempty"`
	Caller bool   `yaml:"caller"         json:"caller"`
}

// ToLoggingConfig converts the YAML section into a logging.Config.
//
// When File is set the output becomes "file", otherwise stderr.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
		Caller: lc.Caller,
	}
}

// GetLoggingConfig returns the Logging section of the global configuration.
// Flag overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	cfg := GetGlobalConfig()
	return cfg.Logging
}
