package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"hplusminus/adapters/report"
	"hplusminus/app"
	"hplusminus/domain/stats"
	"hplusminus/internal"
	"hplusminus/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// MaxRequestBytes bounds the size of an evaluation request body.
const MaxRequestBytes = 32 << 20

// Server exposes the evaluation service over HTTP
type Server struct {
	router  *chi.Mux
	service *app.EvaluationService
	logger  *internal.Logger
	opts    Options
}

// NewServer creates the HTTP API for service with DefaultOptions
func NewServer(service *app.EvaluationService, logger *internal.Logger) *Server {
	return NewServerWithOptions(service, logger, DefaultOptions())
}

// NewServerWithOptions creates the HTTP API for service. Zero fields of opts
// take their default.
func NewServerWithOptions(service *app.EvaluationService, logger *internal.Logger, opts Options) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		logger:  logger,
		opts:    opts.withDefaults(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.opts.RequestTimeout))
	if s.opts.MaxConcurrent > 0 {
		s.router.Use(middleware.Throttle(s.opts.MaxConcurrent))
	}
	s.router.Use(middleware.Compress(s.opts.CompressionLevel))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.NotFound(s.handleNotFound)
	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/tests", s.handleListTests)
		r.Post("/evaluate", s.handleEvaluate)
	})
}

// Handler returns the HTTP handler of the API
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down HTTP API")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Zap().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// EvaluateRequest is the body of POST /v1/evaluate
type EvaluateRequest struct {
	Residuals []float64 `json:"residuals"`
}

// TestResultResponse is one row of an evaluation response
type TestResultResponse struct {
	Test      stats.TestID `json:"test"`
	Label     string       `json:"label"`
	I         float64      `json:"I"`
	P         float64      `json:"p"`
	RatioChi2 *float64     `json:"ratio_chi2"`
}

// EvaluateResponse is the JSON answer of POST /v1/evaluate
type EvaluateResponse struct {
	ID         string               `json:"id"`
	InputHash  string               `json:"input_hash"`
	N          int                  `json:"n"`
	ChiSquare  float64              `json:"chi_square"`
	NumRuns    int                  `json:"num_runs"`
	PlusRuns   int                  `json:"num_plus_runs"`
	PlusSigns  int                  `json:"num_plus_signs"`
	Results    []TestResultResponse `json:"results"`
	Normalized bool                 `json:"looks_normalized"`
	RuntimeMs  int64                `json:"runtime_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTests(w http.ResponseWriter, r *http.Request) {
	type testInfo struct {
		Test  stats.TestID `json:"test"`
		Label string       `json:"label"`
	}
	out := make([]testInfo, 0, stats.NumTests)
	for _, test := range stats.AllTests {
		out = append(out, testInfo{Test: test, Label: test.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleEvaluate answers JSON by default; ?format=csv|txt|md|html selects a
// report serialization instead.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	var write func(io.Writer, *stats.ResultSet) error
	if format != "" && format != "json" {
		fn, err := report.WriterFor("evaluation." + format)
		if err != nil {
			s.writeError(w, err)
			return
		}
		write = fn
	}

	var req EvaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	eval, err := s.service.Evaluate(r.Context(), req.Residuals)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if write != nil {
		w.Header().Set("Content-Type", contentType(format))
		if err := write(w, &eval.Results); err != nil {
			s.logger.Error("writing %s report: %v", format, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, newEvaluateResponse(eval))
}

func newEvaluateResponse(eval *app.Evaluation) EvaluateResponse {
	resp := EvaluateResponse{
		ID:         eval.ID.String(),
		InputHash:  eval.InputHash.String(),
		N:          eval.N,
		ChiSquare:  eval.ChiSquare,
		NumRuns:    eval.Runs.NumRuns,
		PlusRuns:   eval.Runs.NumPlusRuns,
		PlusSigns:  eval.Runs.NumPlusSigns,
		Normalized: eval.Profile.LooksNormalized,
		RuntimeMs:  eval.RuntimeMs,
	}
	for _, test := range stats.AllTests {
		r := eval.Results.Get(test)
		row := TestResultResponse{Test: test, Label: r.Label, I: r.I, P: r.P}
		// JSON has no encoding for the Inf or NaN a zero chi2 p-value produces.
		if ratio := eval.Results.RatioToChi2(test); !math.IsInf(ratio, 0) && !math.IsNaN(ratio) {
			row.RatioChi2 = &ratio
		}
		resp.Results = append(resp.Results, row)
	}
	return resp
}

func contentType(format string) string {
	switch format {
	case "csv":
		return "text/csv; charset=utf-8"
	case "html", "htm":
		return "text/html; charset=utf-8"
	case "md":
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, errors.NotFound(r.URL.Path))
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.CodeFor(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("evaluation failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
