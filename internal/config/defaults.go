package config

import (
	"os"
	"path/filepath"

	"github.com/aretw0/scribble/pkg/core"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Adapter: "fs",
			Path:    filepath.Join(GlobalDir(), "notes"),
			Slot:    core.DefaultSlot,
		},
		Dictation: DictationConfig{
			Language: core.DefaultLanguage,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// WriteDefault writes a commented starter configuration to path.
func WriteDefault(path string) error {
	content := `# scribble configuration
storage:
  adapter: fs        # fs, badger, sqlite or memory
  path: ~/.scribble/notes
  slot: note@array-notes

dictation:
  language: pt-BR
  # Streaming recognizer printing one transcript per line (plain text or JSON).
  # command: my-recognizer --lang {lang}

log:
  level: info        # debug, info, warn or error
`
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
