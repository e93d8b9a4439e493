package information

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogBinomial returns ln C(n, k) as a difference of sums of logarithms.
// It returns -Inf when k < 0 or k > n, where the coefficient is zero.
func LogBinomial(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	if k > n-k {
		k = n - k
	}
	lb := 0.0
	for i := n - k + 1; i <= n; i++ {
		lb += math.Log(float64(i))
	}
	for i := 2; i <= k; i++ {
		lb -= math.Log(float64(i))
	}
	return lb
}

// logFactorials returns the table ln(k!) for k = 0..n, built as a cumulative
// sum of ln(k).
func logFactorials(n int) []float64 {
	table := make([]float64, n+1)
	for k := 1; k <= n; k++ {
		table[k] = math.Log(float64(k))
	}
	return floats.CumSum(table, table)
}

// LogFactorial returns ln(n!) for n >= 0.
func LogFactorial(n int) float64 {
	lf := 0.0
	for k := 2; k <= n; k++ {
		lf += math.Log(float64(k))
	}
	return lf
}

// LogMultinomial returns ln(n! / prod counts[i]!).
func LogMultinomial(n int, counts []int) float64 {
	size := n
	for _, c := range counts {
		if c > size {
			size = c
		}
	}
	table := logFactorials(size)

	lm := table[n]
	for _, c := range counts {
		if c > 0 {
			lm -= table[c]
		}
	}
	return lm
}
