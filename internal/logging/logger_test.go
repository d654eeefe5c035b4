package logging

import (
	"os"
	"path/filepath"
	"testing"

	"shareit/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	app := config.AppConfig{Name: "shareit", Environment: "test", Version: "1.0.0"}

	t.Run("DefaultStdout", func(t *testing.T) {
		logger, closer, err := New(config.LoggingConfig{}, app)
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.Nil(t, closer)

		logger.Info().Msg("default logger works")
	})

	t.Run("Stderr", func(t *testing.T) {
		cfg := config.LoggingConfig{Level: "debug", Output: "stderr"}
		logger, closer, err := New(cfg, app)
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.Nil(t, closer)
	})

	t.Run("Console", func(t *testing.T) {
		cfg := config.LoggingConfig{Level: "info", Format: "console"}
		logger, closer, err := New(cfg, app)
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.Nil(t, closer)

		logger.Info().Str("mode", "console").Msg("console logger works")
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		cfg := config.LoggingConfig{Level: "warn", Output: "file", FilePath: path}
		logger, closer, err := New(cfg, app)
		require.NoError(t, err)
		require.NotNil(t, logger)
		require.NotNil(t, closer)

		logger.Warn().Msg("file logger works")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "file logger works")
	})

	t.Run("FileWithoutPath", func(t *testing.T) {
		cfg := config.LoggingConfig{Output: "file"}
		logger, closer, err := New(cfg, app)
		assert.Error(t, err)
		assert.Nil(t, logger)
		assert.Nil(t, closer)
	})

	t.Run("InvalidLevelFallsBack", func(t *testing.T) {
		cfg := config.LoggingConfig{Level: "chatty"}
		logger, closer, err := New(cfg, app)
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.Nil(t, closer)
	})
}
