package runs

import (
	"fmt"
	"math"

	"hplusminus/domain/core"
)

// SignsFromResiduals maps each residual to its sign. Zero and non-finite
// residuals are rejected because they have no usable sign.
func SignsFromResiduals(residuals []float64) (SignSequence, error) {
	if len(residuals) == 0 {
		return nil, core.ErrEmptySequence
	}

	signs := make(SignSequence, len(residuals))
	for i, r := range residuals {
		switch {
		case math.IsNaN(r) || math.IsInf(r, 0):
			return nil, fmt.Errorf("residual %d (%v): %w", i+1, r, core.ErrNonFinite)
		case r > 0:
			signs[i] = Plus
		case r < 0:
			signs[i] = Minus
		default:
			return nil, fmt.Errorf("residual %d: %w", i+1, core.ErrZeroResidual)
		}
	}
	return signs, nil
}

// Extract splits a sign sequence into maximal runs and builds the run-length
// sets and histograms for all, positive and negative runs.
func Extract(signs SignSequence) (*Summary, error) {
	n := len(signs)
	if n == 0 {
		return nil, core.ErrEmptySequence
	}
	for i, s := range signs {
		if s != Plus && s != Minus {
			return nil, fmt.Errorf("sign %d (%d): %w", i+1, s, core.ErrInvalidSign)
		}
	}

	all := runLengths(signs)

	// Runs alternate in sign, so the first sign fixes the parity of the positive runs.
	first, second := splitAlternating(all)
	lengths := RunLengthSet{All: all}
	if signs[0] == Plus {
		lengths.Plus, lengths.Minus = first, second
	} else {
		lengths.Plus, lengths.Minus = second, first
	}

	nPlus := 0
	for _, l := range lengths.Plus {
		nPlus += l
	}

	return &Summary{
		N:            n,
		NumRuns:      len(all),
		NumPlusSigns: nPlus,
		NumPlusRuns:  len(lengths.Plus),
		NumMinusRuns: len(lengths.Minus),
		Lengths:      lengths,
		Histograms: Histograms{
			All:   histogram(lengths.All, n),
			Plus:  histogram(lengths.Plus, n),
			Minus: histogram(lengths.Minus, n),
		},
	}, nil
}

// runLengths returns the lengths of the segments between sign changes.
func runLengths(signs SignSequence) []int {
	lengths := make([]int, 0, 8)
	start := 0
	for i := 1; i < len(signs); i++ {
		if signs[i] != signs[i-1] {
			lengths = append(lengths, i-start)
			start = i
		}
	}
	return append(lengths, len(signs)-start)
}

func splitAlternating(lengths []int) (even, odd []int) {
	even = make([]int, 0, (len(lengths)+1)/2)
	odd = make([]int, 0, len(lengths)/2)
	for i, l := range lengths {
		if i%2 == 0 {
			even = append(even, l)
		} else {
			odd = append(odd, l)
		}
	}
	return even, odd
}

// histogram bins run lengths into unit buckets covering [0, n+1].
func histogram(lengths []int, n int) Histogram {
	h := make(Histogram, n+2)
	for _, l := range lengths {
		h[l]++
	}
	return h
}
