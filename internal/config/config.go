package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sadopc/timelog/internal/timelog"
	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

type Config struct {
	RecordDir         string `yaml:"record_dir,omitempty"`
	LogLevel          string `yaml:"log_level,omitempty"`
	LogFile           string `yaml:"log_file,omitempty"`
	DefaultDiscipline string `yaml:"default_discipline,omitempty"`
}

func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DefaultDiscipline != "" {
		if _, err := timelog.ParseDiscipline(cfg.DefaultDiscipline); err != nil {
			return nil, fmt.Errorf("parsing config: default_discipline: %w", err)
		}
	}
	return &cfg, nil
}

func Save(dataDir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dataDir, fileName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// RecordPath resolves where per-employee records are written. Relative
// paths are taken from dataDir; the default is dataDir/records.
func (c *Config) RecordPath(dataDir string) string {
	switch {
	case c.RecordDir == "":
		return filepath.Join(dataDir, "records")
	case filepath.IsAbs(c.RecordDir):
		return c.RecordDir
	default:
		return filepath.Join(dataDir, c.RecordDir)
	}
}

// LogPath resolves the log file used while the terminal UI is running.
func (c *Config) LogPath(dataDir string) string {
	switch {
	case c.LogFile == "":
		return filepath.Join(dataDir, "timelog.log")
	case filepath.IsAbs(c.LogFile):
		return c.LogFile
	default:
		return filepath.Join(dataDir, c.LogFile)
	}
}

// Discipline returns the configured default discipline, or Development.
func (c *Config) Discipline() timelog.Discipline {
	if d, err := timelog.ParseDiscipline(c.DefaultDiscipline); err == nil {
		return d
	}
	return timelog.Development
}
