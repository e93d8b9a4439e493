package information

import (
	"fmt"
	"math"
	"testing"

	"hplusminus/domain/core"
	"hplusminus/domain/runs"
	"hplusminus/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequenceFromBits(bits uint, n int) runs.SignSequence {
	signs := make(runs.SignSequence, n)
	for i := range signs {
		if bits&(1<<uint(i)) != 0 {
			signs[i] = runs.Plus
		} else {
			signs[i] = runs.Minus
		}
	}
	return signs
}

// TestSIH_ExactEnumeration checks SIH against the empirical histogram
// probabilities of all 2^n sign sequences.
func TestSIH_ExactEnumeration(t *testing.T) {
	for n := 1; n <= 12; n++ {
		counts := map[string]int{}
		summaries := map[string]*runs.Summary{}
		for bits := uint(0); bits < 1<<uint(n); bits++ {
			s, err := runs.Extract(sequenceFromBits(bits, n))
			require.NoError(t, err)
			key := fmt.Sprint(s.Histograms.All)
			counts[key]++
			summaries[key] = s
		}

		total := math.Exp2(float64(n))
		for key, c := range counts {
			want := -math.Log(float64(c) / total)
			got := SIH(n, summaries[key].Histograms.All)
			assert.InDelta(t, want, got, 1e-9, "n=%d histogram=%s", n, key)
		}
	}
}

// TestSIHpm_ExactEnumeration checks SIHpm against the empirical probabilities
// of the (h+, h-) histogram pair over all 2^n sign sequences.
func TestSIHpm_ExactEnumeration(t *testing.T) {
	for n := 1; n <= 12; n++ {
		counts := map[string]int{}
		summaries := map[string]*runs.Summary{}
		for bits := uint(0); bits < 1<<uint(n); bits++ {
			s, err := runs.Extract(sequenceFromBits(bits, n))
			require.NoError(t, err)
			key := fmt.Sprint(s.Histograms.Plus, s.Histograms.Minus)
			counts[key]++
			summaries[key] = s
		}

		total := math.Exp2(float64(n))
		for key, c := range counts {
			s := summaries[key]
			want := -math.Log(float64(c) / total)
			got := SIHpm(n, s.NumPlusSigns, s.Histograms.Plus, s.Histograms.Minus)
			assert.InDelta(t, want, got, 1e-9, "n=%d histograms=%s", n, key)
		}
	}
}

func TestNumberOfRunsTerm_Normalized(t *testing.T) {
	for _, n := range []int{1, 2, 7, 40, 300} {
		total := 0.0
		for nc := 1; nc <= n; nc++ {
			total += math.Exp(-NumberOfRunsTerm(n, nc))
		}
		assert.InDelta(t, 1.0, total, 1e-10, "n=%d", n)
	}
	assert.Equal(t, 0.0, NumberOfRunsTerm(5, 0))
	assert.Equal(t, 0.0, NumberOfRunsTerm(5, 6))
}

func TestPositiveSignsTerm_Normalized(t *testing.T) {
	cases := []struct{ n, nc, ncPlus int }{
		{20, 5, 3},
		{20, 5, 2},
		{20, 3, 2}, // one negative run: closed-form normalizer
		{20, 2, 1},
		{60, 17, 8},
		{200, 101, 51},
	}

	for _, tc := range cases {
		ncMinus := tc.nc - tc.ncPlus
		total := 0.0
		for nPlus := tc.ncPlus; nPlus <= tc.n-ncMinus; nPlus++ {
			total += math.Exp(-PositiveSignsTerm(tc.n, nPlus, tc.nc, tc.ncPlus))
		}
		assert.InDelta(t, 1.0, total, 1e-9, "case %+v", tc)
	}
}

// TestPositiveSignsTerm_LargeN compares the hypergeometric normalizer with the
// Vandermonde identity sum = C(n-1, nc-1) at sizes where float64 series fail.
func TestPositiveSignsTerm_LargeN(t *testing.T) {
	cases := []struct{ n, nPlus, nc, ncPlus int }{
		{1000, 480, 500, 250},
		{5000, 2600, 2501, 1250},
		{5000, 2500, 40, 20},
	}
	for _, tc := range cases {
		ncMinus := tc.nc - tc.ncPlus
		want := LogBinomial(tc.n-1, tc.nc-1) -
			LogBinomial(tc.nPlus-1, tc.ncPlus-1) -
			LogBinomial(tc.n-tc.nPlus-1, ncMinus-1)
		got := PositiveSignsTerm(tc.n, tc.nPlus, tc.nc, tc.ncPlus)
		assert.InDelta(t, want, got, 1e-8*math.Max(1, math.Abs(want)), "case %+v", tc)
	}
}

func TestPositiveSignsTerm_SingleRun(t *testing.T) {
	assert.Equal(t, 0.0, PositiveSignsTerm(5, 5, 1, 1))
	assert.Equal(t, 0.0, PositiveSignsTerm(5, 0, 0, 0))
}

func TestRunParityTerm(t *testing.T) {
	tests := []struct {
		name       string
		nc, ncPlus int
		want       float64
	}{
		{"even forced split", 4, 2, 0},
		{"odd one more positive", 5, 3, math.Ln2},
		{"odd one more negative", 5, 2, math.Ln2},
		{"single run", 1, 1, math.Ln2},
		{"inadmissible odd split", 5, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RunParityTerm(tt.nc, tt.ncPlus))
		})
	}
}

func TestConditionalHistogramTerm_Empty(t *testing.T) {
	assert.Equal(t, 0.0, ConditionalHistogramTerm(runs.Histogram{0, 0, 0}, 0))
}

func TestSIH_Examples(t *testing.T) {
	single, err := runs.Extract(runs.SignSequence{1, 1, 1, 1, 1})
	require.NoError(t, err)
	// One run of five: probability 2/2^5.
	assert.InDelta(t, 4*math.Ln2, SIH(5, single.Histograms.All), 1e-12)

	alternating, err := runs.Extract(runs.SignSequence{1, -1, 1, -1})
	require.NoError(t, err)
	assert.InDelta(t, 3*math.Ln2, SIH(4, alternating.Histograms.All), 1e-12)

	assert.Equal(t, 0.0, SIH(0, runs.Histogram{0, 0}))
	assert.Equal(t, -1.0, SIHSentinel(5, single.Histograms.All))
}

func TestSIHpmCounts_OmitsHistogramTerms(t *testing.T) {
	s, err := runs.Extract(runs.SignSequence{1, 1, -1, 1, -1, -1, -1, 1, 1, 1})
	require.NoError(t, err)

	full := SIHpm(s.N, s.NumPlusSigns, s.Histograms.Plus, s.Histograms.Minus)
	counts := SIHpmCounts(s.N, s.NumPlusSigns, s.Histograms.Plus, s.Histograms.Minus)
	cond := ConditionalHistogramTerm(s.Histograms.Plus, s.NumPlusSigns) +
		ConditionalHistogramTerm(s.Histograms.Minus, s.NumMinusSigns())
	assert.InDelta(t, full, counts+cond, 1e-12)
}

func TestSIChi2(t *testing.T) {
	// k = 4: p(x) = x exp(-x/2) / 4
	x := 3.0
	want := -math.Log(x * math.Exp(-x/2) / 4)
	got, err := SIChi2(x, 4)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12)

	// k = 2 at zero: p(0) = 1/2
	got, err = SIChi2(0, 2)
	require.NoError(t, err)
	assert.InDelta(t, math.Ln2, got, 1e-15)

	for _, tc := range []struct {
		x float64
		k int
	}{{-1, 4}, {0, 4}, {0, 1}, {math.NaN(), 3}, {2, 0}} {
		_, err := SIChi2(tc.x, tc.k)
		assert.ErrorIs(t, err, core.ErrDensityUndefined, "x=%v k=%d", tc.x, tc.k)
		assert.ErrorIs(t, err, core.ErrDomain)
	}
}

func TestChiSquareLogDensity_LargeN(t *testing.T) {
	// The log density stays finite where the density itself underflows.
	lp := ChiSquareLogDensity(20000, 10000)
	assert.False(t, math.IsInf(lp, 0))
	assert.Less(t, lp, -700.0)
}

func TestCompute_Additivity(t *testing.T) {
	residuals := []float64{0.3, -1.1, -0.2, 0.8, 1.9, -0.4, 0.05, 0.7, -1.3, -0.9, 0.2, 0.6}
	signs, err := runs.SignsFromResiduals(residuals)
	require.NoError(t, err)
	s, err := runs.Extract(signs)
	require.NoError(t, err)

	chiSquare := 0.0
	for _, r := range residuals {
		chiSquare += r * r
	}

	in, err := Compute(chiSquare, s)
	require.NoError(t, err)

	assert.Equal(t, in[stats.TestH]+in[stats.TestChi2], in[stats.TestChi2H])
	assert.Equal(t, in[stats.TestHpm]+in[stats.TestChi2], in[stats.TestChi2Hpm])

	again, err := Compute(chiSquare, s)
	require.NoError(t, err)
	assert.Equal(t, in, again)
}

func TestCompute_PropagatesDomainError(t *testing.T) {
	s, err := runs.Extract(runs.SignSequence{1, 1, -1, -1})
	require.NoError(t, err)
	_, err = Compute(0, s)
	assert.ErrorIs(t, err, core.ErrDensityUndefined)
}
