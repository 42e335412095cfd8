// Package config loads scribble settings from YAML files.
package config

// Config is the merged configuration (global, then project).
type Config struct {
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Dictation DictationConfig `yaml:"dictation" mapstructure:"dictation"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StorageConfig selects where notes live.
type StorageConfig struct {
	Adapter string `yaml:"adapter" mapstructure:"adapter"` // fs, badger, sqlite or memory
	Path    string `yaml:"path" mapstructure:"path"`
	Slot    string `yaml:"slot" mapstructure:"slot"`
}

// DictationConfig configures speech capture.
type DictationConfig struct {
	Language string `yaml:"language" mapstructure:"language"`
	// Command is the recognizer command line; "{lang}" is replaced by Language.
	Command string `yaml:"command" mapstructure:"command"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}
