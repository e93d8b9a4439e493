package calibration

import (
	"fmt"
	"math"

	"hplusminus/domain/core"
	"hplusminus/domain/stats"
)

// Key names one family of calibration splines.
type Key string

const (
	KeyH          Key = "h"
	KeyBoth       Key = "both"
	KeyHSimple    Key = "h_simple"
	KeyBothSimple Key = "both_simple"
)

// Keys lists every spline family a calibration directory must provide.
var Keys = []Key{KeyH, KeyBoth, KeyHSimple, KeyBothSimple}

// Parameter names one shifted-gamma parameter.
type Parameter string

const (
	ParamAlpha Parameter = "alpha"
	ParamBeta  Parameter = "beta"
	ParamI0    Parameter = "I0"
)

// Parameters lists the shifted-gamma parameters in (shape, rate, location) order.
var Parameters = [3]Parameter{ParamAlpha, ParamBeta, ParamI0}

// KeyFor returns the spline family that calibrates a test statistic. The
// "simple" families calibrate the single-histogram statistics and the full
// families the joint-histogram ones. chi2 has an analytic law and no key.
func KeyFor(test stats.TestID) (Key, error) {
	switch test {
	case stats.TestH:
		return KeyHSimple, nil
	case stats.TestHpm:
		return KeyH, nil
	case stats.TestChi2H:
		return KeyBothSimple, nil
	case stats.TestChi2Hpm:
		return KeyBoth, nil
	case stats.TestChi2:
		return "", fmt.Errorf("chi2 uses analytic parameters: %w", core.ErrInvalidArgument)
	}
	return "", fmt.Errorf("%s: %w", test, core.ErrUnknownTest)
}

// Model maps sample size to shifted-gamma parameters for every spline family.
// A Model is immutable once built and safe for concurrent use.
type Model struct {
	source  string
	splines map[Key][3]*BSpline
}

// NewModel builds a model from complete spline families.
func NewModel(source string, splines map[Key][3]*BSpline) (*Model, error) {
	for _, key := range Keys {
		set, ok := splines[key]
		if !ok {
			return nil, fmt.Errorf("spline family %q: %w", key, core.ErrCalibrationMissing)
		}
		for i, s := range set {
			if s == nil {
				return nil, fmt.Errorf("spline %s_%s: %w", key, Parameters[i], core.ErrCalibrationMissing)
			}
		}
	}
	return &Model{source: source, splines: splines}, nil
}

// Source returns where the model was loaded from.
func (m *Model) Source() string { return m.source }

// Evaluate returns the shifted-gamma parameters of a spline family for n data
// points. The splines are evaluated at log10(n) without range checks.
func (m *Model) Evaluate(key Key, n int) (stats.GammaParameters, error) {
	set, ok := m.splines[key]
	if !ok {
		return stats.GammaParameters{}, fmt.Errorf("spline family %q: %w", key, core.ErrInvalidArgument)
	}
	if n < 1 {
		return stats.GammaParameters{}, fmt.Errorf("sample size %d: %w", n, core.ErrInvalidArgument)
	}
	x := math.Log10(float64(n))
	return stats.GammaParameters{
		Alpha: set[0].Eval(x),
		Beta:  set[1].Eval(x),
		I0:    set[2].Eval(x),
	}, nil
}

// Parameters resolves the calibrated parameters of a test statistic.
func (m *Model) Parameters(test stats.TestID, n int) (stats.GammaParameters, error) {
	key, err := KeyFor(test)
	if err != nil {
		return stats.GammaParameters{}, err
	}
	return m.Evaluate(key, n)
}
