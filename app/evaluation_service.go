package app

import (
	"context"
	"fmt"
	"time"

	"hplusminus/domain/core"
	"hplusminus/domain/runs"
	"hplusminus/domain/stats"
	"hplusminus/internal"
	"hplusminus/internal/analysis/information"
	"hplusminus/internal/analysis/pvalue"
	"hplusminus/internal/errors"
	"hplusminus/internal/profiling"
	"hplusminus/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// EvaluationService runs the full test suite on residual sequences
type EvaluationService struct {
	engine   *pvalue.Engine
	profiler ports.ResidualProfiler
	logger   *internal.Logger
}

// Evaluation is the outcome of running all five tests on one sequence
type Evaluation struct {
	ID          core.EvaluationID         `json:"id"`
	Source      string                    `json:"source,omitempty"`
	CreatedAt   core.Timestamp            `json:"created_at"`
	InputHash   core.InputHash            `json:"input_hash"`
	N           int                       `json:"n"`
	ChiSquare   float64                   `json:"chi_square"`
	Runs        *runs.Summary             `json:"runs"`
	Information stats.Information         `json:"information"`
	Results     stats.ResultSet           `json:"results"`
	Profile     profiling.ResidualProfile `json:"profile"`
	RuntimeMs   int64                     `json:"runtime_ms"`
}

// BatchInput names one residual sequence of a batch
type BatchInput struct {
	Name      string
	Residuals []float64
}

// NewEvaluationService creates an evaluation service
func NewEvaluationService(calibration ports.CalibrationProvider) *EvaluationService {
	return &EvaluationService{
		engine:   pvalue.NewEngine(calibration),
		profiler: profiling.NewProfiler(),
		logger:   internal.DefaultLogger,
	}
}

// WithLogger replaces the service logger
func (s *EvaluationService) WithLogger(logger *internal.Logger) *EvaluationService {
	s.logger = logger
	return s
}

// WithProfiler replaces the residual profiler
func (s *EvaluationService) WithProfiler(profiler ports.ResidualProfiler) *EvaluationService {
	s.profiler = profiler
	return s
}

// Evaluate computes the information and p-value of every test for residuals
func (s *EvaluationService) Evaluate(ctx context.Context, residuals []float64) (*Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	signs, err := runs.SignsFromResiduals(residuals)
	if err != nil {
		return nil, errors.Wrap(err, "invalid residuals")
	}
	summary, err := runs.Extract(signs)
	if err != nil {
		return nil, errors.Wrap(err, "run extraction failed")
	}

	n := len(residuals)
	chiSquare := floats.Dot(residuals, residuals)

	info, err := information.Compute(chiSquare, summary)
	if err != nil {
		return nil, errors.Wrapf(err, "information of %d residuals", n)
	}
	results, err := s.engine.Evaluate(info, n)
	if err != nil {
		return nil, errors.Wrap(err, "p-value computation failed")
	}

	profile, err := s.profiler.Profile(residuals)
	if err != nil {
		return nil, errors.Wrap(err, "residual profile failed")
	}

	eval := &Evaluation{
		ID:          core.NewEvaluationID(),
		CreatedAt:   core.Now(),
		InputHash:   core.ComputeInputHash(residuals),
		N:           n,
		ChiSquare:   chiSquare,
		Runs:        summary,
		Information: info,
		Results:     results,
		Profile:     profile,
		RuntimeMs:   time.Since(startTime).Milliseconds(),
	}

	log := s.logger.With(zap.String("evaluation", eval.ID.String()), zap.Int("n", n))
	if !profile.LooksNormalized {
		log.Warn("residuals do not look normalized (mean %.3g, std %.3g); chi2-based p-values assume unit variance",
			profile.Mean, profile.StdDev)
	}
	log.Debug("evaluated %d runs, chi2=%.6g", summary.NumRuns, chiSquare)

	return eval, nil
}

// EvaluateBatch evaluates independent sequences with at most workers running
// at once. Results keep the input order; the first failure cancels the rest.
func (s *EvaluationService) EvaluateBatch(ctx context.Context, inputs []BatchInput, workers int) ([]*Evaluation, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]*Evaluation, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, input := range inputs {
		g.Go(func() error {
			eval, err := s.Evaluate(gctx, input.Residuals)
			if err != nil {
				return fmt.Errorf("%s: %w", input.Name, err)
			}
			eval.Source = input.Name
			out[i] = eval
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("evaluated %d sequences with %d workers", len(inputs), workers)
	return out, nil
}
