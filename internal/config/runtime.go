package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/Coxless/wtenv/internal/gitutil"
)

// RuntimeConfig holds the filesystem locations wtenv works with. It is
// detected once at startup and passed to whatever needs it.
type RuntimeConfig struct {
	HomeDir         string
	ClaudeConfigDir string // where Claude Code keeps settings.json
	ProgressDir     string // directory of <session-id>.jsonl logs
	ConfigDir       string // ~/.wtenv
	ConfigPath      string // ~/.wtenv/config.yaml
	LogFile         string // dashboard log file
	CurrentRepo     string // git root of the working directory, if any
}

// DetectRuntime determines the locations for the current user and process.
func DetectRuntime() *RuntimeConfig {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = "."
		}
	}
	return newRuntimeConfig(homeDir)
}

func newRuntimeConfig(homeDir string) *RuntimeConfig {
	claudeDir := getClaudeConfigDir(homeDir)
	configDir := filepath.Join(homeDir, ".wtenv")

	rc := &RuntimeConfig{
		HomeDir:         homeDir,
		ClaudeConfigDir: claudeDir,
		ProgressDir:     filepath.Join(claudeDir, "task-progress"),
		ConfigDir:       configDir,
		ConfigPath:      filepath.Join(configDir, "config.yaml"),
		LogFile:         filepath.Join(configDir, "wtenv.log"),
	}

	if dir := os.Getenv("WTENV_PROGRESS_DIR"); dir != "" {
		rc.ProgressDir = dir
	}

	if cwd, err := os.Getwd(); err == nil {
		if root, ok := gitutil.FindGitRoot(cwd); ok {
			rc.CurrentRepo = root
		}
	}

	return rc
}

// getClaudeConfigDir picks the Claude Code config directory. CLAUDE_CONFIG_DIR
// wins; otherwise ~/.claude, except on Linux installs that only have the XDG
// location.
func getClaudeConfigDir(homeDir string) string {
	if dir := os.Getenv("CLAUDE_CONFIG_DIR"); dir != "" {
		return dir
	}

	legacy := filepath.Join(homeDir, ".claude")
	if runtime.GOOS != "linux" || dirExists(legacy) {
		return legacy
	}

	xdgBase := os.Getenv("XDG_CONFIG_HOME")
	if xdgBase == "" {
		xdgBase = filepath.Join(homeDir, ".config")
	}
	if xdg := filepath.Join(xdgBase, "claude"); dirExists(xdg) {
		return xdg
	}
	return legacy
}

// ClaudeSettingsPath returns the settings.json hooks are installed into.
func (rc *RuntimeConfig) ClaudeSettingsPath() string {
	return filepath.Join(rc.ClaudeConfigDir, "settings.json")
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
