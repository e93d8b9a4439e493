package calibration

import (
	"math"
	"testing"

	"hplusminus/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBSpline_PartitionOfUnity(t *testing.T) {
	knots := []float64{0, 0, 0, 0, 0.5, 1.2, 2, 2, 2, 2}
	coeffs := make([]float64, len(knots)-Degree-1)
	for i := range coeffs {
		coeffs[i] = 3.25
	}
	s, err := NewBSpline(knots, coeffs, Degree)
	require.NoError(t, err)

	for _, x := range []float64{0, 0.1, 0.5, 0.77, 1.2, 1.99, 2} {
		assert.InDelta(t, 3.25, s.Eval(x), 1e-12, "x=%v", x)
	}
}

func TestBSpline_ReproducesCubic(t *testing.T) {
	// A single Bezier segment on [0, 1]: coefficients are the Bernstein
	// coefficients of x^3, i.e. (0, 0, 0, 1).
	s, err := NewBSpline([]float64{0, 0, 0, 0, 1, 1, 1, 1}, []float64{0, 0, 0, 1}, Degree)
	require.NoError(t, err)

	for _, x := range []float64{0, 0.25, 0.5, 0.9, 1} {
		assert.InDelta(t, math.Pow(x, 3), s.Eval(x), 1e-12, "x=%v", x)
	}
	// Outside the base interval the end polynomial continues.
	assert.InDelta(t, 8.0, s.Eval(2), 1e-12)
	assert.InDelta(t, -1.0, s.Eval(-1), 1e-12)
}

func TestBSpline_IgnoresTrailingCoefficients(t *testing.T) {
	s, err := NewBSpline([]float64{0, 0, 0, 0, 1, 1, 1, 1}, []float64{0, 0, 0, 1, 0, 0, 0, 0}, Degree)
	require.NoError(t, err)
	assert.InDelta(t, 0.125, s.Eval(0.5), 1e-12)
}

func TestNewBSpline_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		knots  []float64
		coeffs []float64
	}{
		{"too few knots", []float64{0, 0, 1, 1}, []float64{1, 1}},
		{"too few coefficients", []float64{0, 0, 0, 0, 1, 1, 1, 1}, []float64{1, 2}},
		{"unsorted knots", []float64{0, 0, 0, 0, 2, 1, 1, 1, 1}, []float64{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBSpline(tt.knots, tt.coeffs, Degree)
			assert.ErrorIs(t, err, core.ErrCalibrationData)
		})
	}
}
