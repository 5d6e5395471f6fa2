package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// MinRefreshInterval bounds how often the dashboard may re-scan the
// progress directory.
const MinRefreshInterval = 100 * time.Millisecond

// Settings is the user configuration read from ~/.wtenv/config.yaml.
type Settings struct {
	ProgressDir     string         `yaml:"progress_dir"`
	RefreshInterval time.Duration  `yaml:"refresh_interval"`
	Watch           bool           `yaml:"watch"`
	LogLevel        string         `yaml:"log_level"`
	LogFile         string         `yaml:"log_file"`
	Server          ServerSettings `yaml:"server"`
}

// ServerSettings configures `wtenv serve`.
type ServerSettings struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Token, when set, is required as a bearer token on /v1 routes.
	Token string `yaml:"token"`
}

// Addr returns host:port for the API listener.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings(rc *RuntimeConfig) *Settings {
	return &Settings{
		ProgressDir:     rc.ProgressDir,
		RefreshInterval: time.Second,
		Watch:           true,
		LogLevel:        "info",
		LogFile:         rc.LogFile,
		Server: ServerSettings{
			Host: "127.0.0.1",
			Port: 6370,
		},
	}
}

// LoadSettings reads path over the defaults. A missing file is not an error.
func LoadSettings(path string, rc *RuntimeConfig) (*Settings, error) {
	s := DefaultSettings(rc)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if s.ProgressDir == "" {
		s.ProgressDir = rc.ProgressDir
	}
	if s.RefreshInterval < MinRefreshInterval {
		s.RefreshInterval = MinRefreshInterval
	}
	if s.LogFile == "" {
		s.LogFile = rc.LogFile
	}
	return s, nil
}
