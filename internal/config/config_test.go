package config

import (
	"os"
	"path/filepath"
	"testing"

	"hplusminus/internal"
	"hplusminus/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"HPLUSMINUS_GSP_DIR", "HPLUSMINUS_COLUMN", "HPLUSMINUS_HTTP_ADDR", "HPLUSMINUS_BATCH_WORKERS", "HPLUSMINUS_HTTP_MAX_CONCURRENT", "LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCalibrationDir(), cfg.Calibration.Dir)
	assert.Equal(t, 1, cfg.Input.Column)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, internal.LogLevelInfo, cfg.LogLevel)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("HPLUSMINUS_GSP_DIR", "/opt/gsp")
	t.Setenv("HPLUSMINUS_COLUMN", "3")
	t.Setenv("HPLUSMINUS_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("HPLUSMINUS_BATCH_WORKERS", "8")
	t.Setenv("HPLUSMINUS_HTTP_MAX_CONCURRENT", "16")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "/opt/gsp", cfg.Calibration.Dir)
	assert.Equal(t, 3, cfg.Input.Column)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, 16, cfg.Server.MaxConcurrent)
	assert.Equal(t, internal.LogLevelDebug, cfg.LogLevel)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("HPLUSMINUS_COLUMN=2\nHPLUSMINUS_GSP_DIR=calib\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("HPLUSMINUS_COLUMN")
		os.Unsetenv("HPLUSMINUS_GSP_DIR")
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Input.Column)
	assert.Equal(t, "calib", cfg.Calibration.Dir)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("HPLUSMINUS_BATCH_WORKERS", "0")
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	clearEnv(t)
	t.Setenv("LOG_LEVEL", "loud")
	_, err = Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Calibration: CalibrationConfig{Dir: "gsp"},
		Input:       InputConfig{Column: 0},
		Server:      ServerConfig{Addr: ":8080"},
		Batch:       BatchConfig{Workers: 1},
	}
	assert.Error(t, cfg.Validate())
	cfg.Input.Column = 1
	assert.NoError(t, cfg.Validate())
}
