package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRuntime(t *testing.T) *RuntimeConfig {
	t.Helper()
	home := t.TempDir()
	return &RuntimeConfig{
		HomeDir:     home,
		ProgressDir: filepath.Join(home, ".claude", "task-progress"),
		LogFile:     filepath.Join(home, ".wtenv", "wtenv.log"),
	}
}

func TestLoadSettings(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		rc := testRuntime(t)
		s, err := LoadSettings(filepath.Join(rc.HomeDir, "nope.yaml"), rc)
		require.NoError(t, err)
		assert.Equal(t, DefaultSettings(rc), s)
		assert.Equal(t, time.Second, s.RefreshInterval)
		assert.True(t, s.Watch)
		assert.Equal(t, "127.0.0.1:6370", s.Server.Addr())
	})

	t.Run("file values override defaults", func(t *testing.T) {
		rc := testRuntime(t)
		path := filepath.Join(rc.HomeDir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
progress_dir: /data/progress
refresh_interval: 2500ms
watch: false
log_level: debug
server:
  port: 9000
`), 0644))

		s, err := LoadSettings(path, rc)
		require.NoError(t, err)
		assert.Equal(t, "/data/progress", s.ProgressDir)
		assert.Equal(t, 2500*time.Millisecond, s.RefreshInterval)
		assert.False(t, s.Watch)
		assert.Equal(t, "debug", s.LogLevel)
		assert.Equal(t, "127.0.0.1", s.Server.Host)
		assert.Equal(t, 9000, s.Server.Port)
		assert.Equal(t, rc.LogFile, s.LogFile)
	})

	t.Run("refresh interval is clamped", func(t *testing.T) {
		rc := testRuntime(t)
		path := filepath.Join(rc.HomeDir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("refresh_interval: 1ms\n"), 0644))

		s, err := LoadSettings(path, rc)
		require.NoError(t, err)
		assert.Equal(t, MinRefreshInterval, s.RefreshInterval)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		rc := testRuntime(t)
		path := filepath.Join(rc.HomeDir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [oops\n"), 0644))

		_, err := LoadSettings(path, rc)
		assert.Error(t, err)
	})
}
