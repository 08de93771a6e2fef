package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_OK(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9090
  mode: release
generative:
  api_key: sk-test
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "sk-test", cfg.Generative.APIKey)
	// Unset fields picked up platform defaults.
	assert.Equal(t, DefaultGenerativeModel, cfg.Generative.Model)
	assert.Equal(t, DefaultStructureBaseURL, cfg.Sources.StructureBaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfiguration))
}

func TestLoad_InvalidConfigIsFatal(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 8080
`)
	// No generative API key anywhere: the loader must refuse the config.
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfiguration))
	assert.Contains(t, err.Error(), "generative.api_key")
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}
