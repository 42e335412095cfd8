package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/aretw0/scribble/internal/platform"
)

const (
	dirName  = platform.MarkerDir
	fileName = "config.yaml"
)

// Load merges the global config and then the project config over the defaults.
// Missing files are skipped.
func Load() (*Config, error) {
	return LoadFrom(GlobalConfigPath(), ProjectConfigPath())
}

// LoadFrom merges the given files in order over the defaults.
func LoadFrom(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := loadFile(path, cfg); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	cfg.Storage.Path = ExpandHome(cfg.Storage.Path)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// LogLevel maps the configured level name to a slog.Level. Unknown names mean info.
func (c LogConfig) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// GlobalDir returns the per-user scribble directory.
func GlobalDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dirName)
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalDir(), fileName)
}

// ProjectConfigPath returns the path to the project config file for the
// working directory.
func ProjectConfigPath() string {
	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	return projectConfigPath(cwd, home)
}

// projectConfigPath resolves the config of the nearest project at or above
// startDir. The home directory holds the global config, so it never counts as
// a project; without a project the path points into startDir.
func projectConfigPath(startDir, home string) string {
	root, err := platform.FindRoot(startDir)
	if err != nil || (home != "" && filepath.Clean(root) == filepath.Clean(home)) {
		root = startDir
	}
	return filepath.Join(root, dirName, fileName)
}
