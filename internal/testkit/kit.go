package testkit

import (
	"hplusminus/internal/calibration"
)

// calibrationKnots is a clamped cubic knot vector over log10(N) in [0, 5].
var calibrationKnots = []float64{0, 0, 0, 0, 1, 2, 3, 4, 5, 5, 5, 5}

// LinearSpline returns a cubic B-spline equal to a + b*x everywhere. The
// coefficients are the line evaluated at the Greville abscissae.
func LinearSpline(a, b float64) *calibration.BSpline {
	k := calibration.Degree
	n := len(calibrationKnots) - k - 1
	coeffs := make([]float64, n)
	for j := range coeffs {
		g := 0.0
		for i := 1; i <= k; i++ {
			g += calibrationKnots[j+i]
		}
		coeffs[j] = a + b*g/float64(k)
	}

	knots := append([]float64(nil), calibrationKnots...)
	s, err := calibration.NewBSpline(knots, coeffs, k)
	if err != nil {
		panic(err)
	}
	return s
}

// LinearParameters describes the linear shifted-gamma parameters of one
// spline family as functions of x = log10(N).
type LinearParameters struct {
	Alpha, AlphaSlope float64
	Beta, BetaSlope   float64
	I0, I0Slope       float64
}

// SyntheticParameters are plausible, not fitted, calibration curves: the
// location grows with log10(N) like the information of a typical sequence.
var SyntheticParameters = map[calibration.Key]LinearParameters{
	calibration.KeyH:          {Alpha: 2.0, AlphaSlope: 0.5, Beta: 1.0, I0: 1.0, I0Slope: 2.0},
	calibration.KeyBoth:       {Alpha: 3.0, AlphaSlope: 0.5, Beta: 0.8, I0: 2.0, I0Slope: 3.0},
	calibration.KeyHSimple:    {Alpha: 1.5, AlphaSlope: 0.25, Beta: 1.0, I0: 0.5, I0Slope: 1.5},
	calibration.KeyBothSimple: {Alpha: 2.5, AlphaSlope: 0.25, Beta: 0.9, I0: 1.5, I0Slope: 2.5},
}

// SyntheticModel builds a complete calibration model from SyntheticParameters.
func SyntheticModel() *calibration.Model {
	splines := make(map[calibration.Key][3]*calibration.BSpline, len(SyntheticParameters))
	for key, p := range SyntheticParameters {
		splines[key] = [3]*calibration.BSpline{
			LinearSpline(p.Alpha, p.AlphaSlope),
			LinearSpline(p.Beta, p.BetaSlope),
			LinearSpline(p.I0, p.I0Slope),
		}
	}
	m, err := calibration.NewModel("synthetic", splines)
	if err != nil {
		panic(err)
	}
	return m
}

// WriteCalibrationDir writes the synthetic model into dir using the standard
// resource file names.
func WriteCalibrationDir(dir string, format calibration.Format) error {
	return calibration.Export(SyntheticModel(), dir, format)
}
