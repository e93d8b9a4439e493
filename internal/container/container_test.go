package container

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"hplusminus/internal"
	"hplusminus/internal/calibration"
	"hplusminus/internal/config"
	"hplusminus/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestNew_WiresEvaluation(t *testing.T) {
	dir := t.TempDir()
	gsp := filepath.Join(dir, "gsp")
	require.NoError(t, testkit.WriteCalibrationDir(gsp, calibration.FormatText))

	cfg := &config.Config{Calibration: config.CalibrationConfig{Dir: gsp}}
	c, err := New(cfg, internal.NewLoggerTo(internal.LogLevelError, &bytes.Buffer{}))
	require.NoError(t, err)
	assert.Equal(t, gsp, c.Calibration.Dir())

	path := filepath.Join(dir, "res.txt")
	require.NoError(t, os.WriteFile(path, []byte("0.5\n-1.2\n0.7\n1.4\n-0.3\n"), 0o644))
	values, err := c.Residuals.ReadColumn(context.Background(), path, 1)
	require.NoError(t, err)

	eval, err := c.Service.Evaluate(context.Background(), values)
	require.NoError(t, err)
	assert.Equal(t, 5, eval.N)

	rec := httptest.NewRecorder()
	c.Server().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
