package calibration

import (
	"fmt"
	"sort"

	"hplusminus/domain/core"
)

// Degree is the polynomial degree of all calibration splines.
const Degree = 3

// BSpline is a one-dimensional B-spline given by its knot vector and
// coefficients. Evaluation outside the base interval continues the first or
// last polynomial piece.
type BSpline struct {
	Knots  []float64
	Coeffs []float64
	Degree int
}

// NewBSpline validates knots and coefficients of a spline of degree k.
func NewBSpline(knots, coeffs []float64, k int) (*BSpline, error) {
	if k < 0 {
		return nil, fmt.Errorf("degree %d: %w", k, core.ErrCalibrationData)
	}
	if len(knots) < 2*k+2 {
		return nil, fmt.Errorf("need at least %d knots for degree %d, got %d: %w", 2*k+2, k, len(knots), core.ErrCalibrationData)
	}
	if n := len(knots) - k - 1; len(coeffs) < n {
		return nil, fmt.Errorf("need at least %d coefficients for %d knots, got %d: %w", n, len(knots), len(coeffs), core.ErrCalibrationData)
	}
	if !sort.Float64sAreSorted(knots) {
		return nil, fmt.Errorf("knots not in ascending order: %w", core.ErrCalibrationData)
	}
	return &BSpline{Knots: knots, Coeffs: coeffs, Degree: k}, nil
}

// Eval evaluates the spline at x with de Boor's algorithm.
func (b *BSpline) Eval(x float64) float64 {
	k := b.Degree
	t := b.Knots
	n := len(t) - k - 1

	// Interval i with t[i] <= x < t[i+1], clamped to the base interval.
	i := sort.Search(len(t), func(j int) bool { return t[j] > x }) - 1
	if i < k {
		i = k
	}
	if i > n-1 {
		i = n - 1
	}

	d := make([]float64, k+1)
	for j := 0; j <= k; j++ {
		d[j] = b.Coeffs[j+i-k]
	}
	for r := 1; r <= k; r++ {
		for j := k; j >= r; j-- {
			left := t[j+i-k]
			span := t[j+1+i-r] - left
			alpha := 0.0
			if span != 0 {
				alpha = (x - left) / span
			}
			d[j] = (1-alpha)*d[j-1] + alpha*d[j]
		}
	}
	return d[k]
}
