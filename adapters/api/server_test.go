package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hplusminus/app"
	"hplusminus/domain/stats"
	"hplusminus/internal"
	"hplusminus/internal/errors"
	"hplusminus/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := internal.NewLoggerTo(internal.LogLevelError, &bytes.Buffer{})
	service := app.NewEvaluationService(testkit.SyntheticModel()).WithLogger(logger)
	return NewServer(service, logger)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func residualsBody(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(EvaluateRequest{Residuals: testkit.Residuals(testkit.DefaultResidualConfig())})
	require.NoError(t, err)
	return string(data)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListTests(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/v1/tests", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"test":"chi2","label":"chi2"},
		{"test":"h","label":"h"},
		{"test":"hpm","label":"hpm"},
		{"test":"chi2_h","label":"(chi2,h)"},
		{"test":"chi2_hpm","label":"(chi^2,hpm)"}
	]`, rec.Body.String())
}

func TestEvaluate_JSON(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/evaluate", residualsBody(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 500, resp.N)
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.Results, stats.NumTests)
	for i, r := range resp.Results {
		assert.Equal(t, stats.AllTests[i], r.Test)
		assert.GreaterOrEqual(t, r.P, 0.0)
		assert.LessOrEqual(t, r.P, 1.0)
	}
	require.NotNil(t, resp.Results[0].RatioChi2)
	assert.Equal(t, 1.0, *resp.Results[0].RatioChi2)
}

func TestEvaluate_ReportFormats(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/evaluate?format=csv", residualsBody(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "test,I,p-value\n"))

	rec = do(t, s, http.MethodPost, "/v1/evaluate?format=html", residualsBody(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<table>")

	rec = do(t, s, http.MethodPost, "/v1/evaluate?format=xml", residualsBody(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), errors.CodeUnsupportedFormat)
}

func TestEvaluate_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"residuals":`, http.StatusBadRequest, errors.CodeInvalidInput},
		{"unknown field", `{"values":[1,2]}`, http.StatusBadRequest, errors.CodeInvalidInput},
		{"empty", `{"residuals":[]}`, http.StatusBadRequest, errors.CodeInvalidInput},
		{"zero residual", `{"residuals":[1,0,-1]}`, http.StatusBadRequest, errors.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/evaluate", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestEvaluate_MissingCalibration(t *testing.T) {
	logger := internal.NewLoggerTo(internal.LogLevelError, &bytes.Buffer{})
	s := NewServer(app.NewEvaluationService(nil).WithLogger(logger), logger)

	rec := do(t, s, http.MethodPost, "/v1/evaluate", `{"residuals":[1,-1,1]}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), errors.CodeCalibration)
}

func TestEvaluate_MethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/v1/evaluate", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{"/nope", "/v1/nope"} {
		rec := do(t, s, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, errors.CodeNotFound, body["code"], target)
		assert.Equal(t, target+" not found", body["error"], target)
	}
}

func TestEvaluate_RequestSizeLimit(t *testing.T) {
	logger := internal.NewLoggerTo(internal.LogLevelError, &bytes.Buffer{})
	service := app.NewEvaluationService(testkit.SyntheticModel()).WithLogger(logger)
	s := NewServerWithOptions(service, logger, Options{MaxRequestBytes: 24})

	rec := do(t, s, http.MethodPost, "/v1/evaluate", residualsBody(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/evaluate", `{"residuals":[1,-1,1,-1,1]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "body over 24 bytes")

	rec = do(t, s, http.MethodPost, "/v1/evaluate", `{"residuals":[1,-1,1]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{MaxConcurrent: 4}.withDefaults()
	def := DefaultOptions()
	assert.Equal(t, def.RequestTimeout, opts.RequestTimeout)
	assert.Equal(t, def.ShutdownTimeout, opts.ShutdownTimeout)
	assert.Equal(t, int64(MaxRequestBytes), opts.MaxRequestBytes)
	assert.Equal(t, 4, opts.MaxConcurrent)
}
