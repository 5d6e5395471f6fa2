package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClaudeConfigDir(t *testing.T) {
	t.Run("CLAUDE_CONFIG_DIR wins", func(t *testing.T) {
		t.Setenv("CLAUDE_CONFIG_DIR", "/opt/claude")
		assert.Equal(t, "/opt/claude", getClaudeConfigDir(t.TempDir()))
	})

	t.Run("existing ~/.claude is used", func(t *testing.T) {
		t.Setenv("CLAUDE_CONFIG_DIR", "")
		home := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(home, ".claude"), 0755))
		assert.Equal(t, filepath.Join(home, ".claude"), getClaudeConfigDir(home))
	})

	t.Run("nothing installed falls back to ~/.claude", func(t *testing.T) {
		t.Setenv("CLAUDE_CONFIG_DIR", "")
		t.Setenv("XDG_CONFIG_HOME", "")
		home := t.TempDir()
		assert.Equal(t, filepath.Join(home, ".claude"), getClaudeConfigDir(home))
	})

	t.Run("on Linux an XDG-only install uses $XDG_CONFIG_HOME/claude", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("skipping test on non-Linux systems")
		}
		t.Setenv("CLAUDE_CONFIG_DIR", "")
		home := t.TempDir()
		xdg := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(xdg, "claude"), 0755))
		t.Setenv("XDG_CONFIG_HOME", xdg)

		assert.Equal(t, filepath.Join(xdg, "claude"), getClaudeConfigDir(home))
	})

	t.Run("on Linux without XDG_CONFIG_HOME checks ~/.config/claude", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("skipping test on non-Linux systems")
		}
		t.Setenv("CLAUDE_CONFIG_DIR", "")
		t.Setenv("XDG_CONFIG_HOME", "")
		home := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(home, ".config", "claude"), 0755))

		assert.Equal(t, filepath.Join(home, ".config", "claude"), getClaudeConfigDir(home))
	})
}

func TestNewRuntimeConfig(t *testing.T) {
	t.Run("derives paths from home", func(t *testing.T) {
		t.Setenv("CLAUDE_CONFIG_DIR", "")
		t.Setenv("WTENV_PROGRESS_DIR", "")
		home := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(home, ".claude"), 0755))

		rc := newRuntimeConfig(home)
		assert.Equal(t, home, rc.HomeDir)
		assert.Equal(t, filepath.Join(home, ".claude", "task-progress"), rc.ProgressDir)
		assert.Equal(t, filepath.Join(home, ".wtenv", "config.yaml"), rc.ConfigPath)
		assert.Equal(t, filepath.Join(home, ".wtenv", "wtenv.log"), rc.LogFile)
		assert.Equal(t, filepath.Join(home, ".claude", "settings.json"), rc.ClaudeSettingsPath())
	})

	t.Run("WTENV_PROGRESS_DIR overrides the progress directory", func(t *testing.T) {
		t.Setenv("WTENV_PROGRESS_DIR", "/tmp/progress")
		rc := newRuntimeConfig(t.TempDir())
		assert.Equal(t, "/tmp/progress", rc.ProgressDir)
	})
}
