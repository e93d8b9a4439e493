// Package pvalue converts Shannon information into p-values under a shifted
// gamma null law.
package pvalue

import (
	"fmt"
	"math"

	"hplusminus/domain/core"
	"hplusminus/domain/stats"
	"hplusminus/internal/analysis/information"
	"hplusminus/ports"

	"gonum.org/v1/gonum/stat/distuv"
)

// Chi-square shape and rate. The location depends on the sample size.
const (
	chi2Alpha = 0.5
	chi2Beta  = 1.0
)

// Engine computes p-values for all five tests. The chi-square test uses an
// analytic law; the others are resolved through the calibration provider.
type Engine struct {
	calibration ports.CalibrationProvider
}

// NewEngine returns an engine backed by the given calibration.
func NewEngine(calibration ports.CalibrationProvider) *Engine {
	return &Engine{calibration: calibration}
}

// Chi2Parameters returns the analytic shifted-gamma law of the chi-square
// information for n points. The location is the information of the density
// mode, -ln f(n-2; n). For n = 1 the mode is undefined and I0 is +Inf.
func Chi2Parameters(n int) stats.GammaParameters {
	return stats.GammaParameters{
		Alpha: chi2Alpha,
		Beta:  chi2Beta,
		I0:    -information.ChiSquareLogDensity(float64(n-2), n),
	}
}

// Parameters returns the shifted-gamma law of test for n points.
func (e *Engine) Parameters(test stats.TestID, n int) (stats.GammaParameters, error) {
	if !test.Valid() {
		return stats.GammaParameters{}, fmt.Errorf("%s: %w", test, core.ErrUnknownTest)
	}
	if n < 1 {
		return stats.GammaParameters{}, fmt.Errorf("sample size %d: %w", n, core.ErrInvalidArgument)
	}
	if test == stats.TestChi2 {
		return Chi2Parameters(n), nil
	}
	if e.calibration == nil {
		return stats.GammaParameters{}, fmt.Errorf("no calibration for %s: %w", test, core.ErrCalibrationMissing)
	}
	return e.calibration.Parameters(test, n)
}

// PValue returns the probability of observing information of at least si for
// test with n points.
func (e *Engine) PValue(si float64, n int, test stats.TestID) (float64, error) {
	params, err := e.Parameters(test, n)
	if err != nil {
		return 0, err
	}
	return Survival(si, params)
}

// Survival evaluates 1 - GammaCDF(si; alpha, beta, I0). Values at or below the
// location give 1.
func Survival(si float64, p stats.GammaParameters) (float64, error) {
	if math.IsNaN(si) {
		return 0, fmt.Errorf("information is NaN: %w", core.ErrInvalidArgument)
	}
	if !(p.Alpha > 0) || !(p.Beta > 0) || math.IsInf(p.Alpha, 0) || math.IsInf(p.Beta, 0) || math.IsNaN(p.I0) {
		return 0, fmt.Errorf("gamma parameters alpha=%g beta=%g I0=%g: %w", p.Alpha, p.Beta, p.I0, core.ErrCalibration)
	}

	x := si - p.I0
	if math.IsInf(p.I0, 1) || x <= 0 {
		return 1, nil
	}
	if math.IsInf(x, 1) {
		return 0, nil
	}
	sf := distuv.Gamma{Alpha: p.Alpha, Beta: p.Beta}.Survival(x)
	return math.Min(1, math.Max(0, sf)), nil
}

// Evaluate computes the p-value of every test and assembles the result set.
func (e *Engine) Evaluate(in stats.Information, n int) (stats.ResultSet, error) {
	var rs stats.ResultSet
	for _, test := range stats.AllTests {
		p, err := e.PValue(in[test], n, test)
		if err != nil {
			return rs, fmt.Errorf("p-value of %s: %w", test, err)
		}
		rs[test] = stats.TestResult{Test: test, Label: test.Label(), I: in[test], P: p}
	}
	return rs, nil
}
