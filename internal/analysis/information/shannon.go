package information

import (
	"fmt"
	"math"

	"hplusminus/domain/core"
	"hplusminus/domain/runs"
	"hplusminus/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquareLogDensity returns the log of the chi-square density with k degrees
// of freedom at x. Points outside the support give -Inf. The density at zero
// is handled explicitly because it is finite for k = 2.
func ChiSquareLogDensity(x float64, k int) float64 {
	switch {
	case math.IsNaN(x) || k <= 0:
		return math.NaN()
	case x < 0:
		return math.Inf(-1)
	case x == 0:
		switch {
		case k < 2:
			return math.Inf(1)
		case k == 2:
			return -math.Ln2
		default:
			return math.Inf(-1)
		}
	}
	return distuv.ChiSquared{K: float64(k)}.LogProb(x)
}

// SIChi2 returns the Shannon information of the chi-square value of n
// normalized residuals, -ln p(chiSquare) for the chi-square law with n degrees
// of freedom.
func SIChi2(chiSquare float64, n int) (float64, error) {
	lp := ChiSquareLogDensity(chiSquare, n)
	if math.IsNaN(lp) || math.IsInf(lp, 0) {
		return 0, fmt.Errorf("chi-square %g with %d degrees of freedom: %w", chiSquare, n, core.ErrDensityUndefined)
	}
	return -lp, nil
}

// SIH returns the Shannon information of the run-length histogram of all runs
// of n signs: (n-1) ln 2 - ln(nc!) + sum ln(h[l]!).
func SIH(n int, histAll runs.Histogram) float64 {
	nc := histAll.Runs()
	if nc == 0 {
		return 0
	}
	si := float64(n-1)*math.Ln2 - LogFactorial(nc)
	for _, c := range histAll {
		if c > 1 {
			si += LogFactorial(c)
		}
	}
	return si
}

// SIHSentinel is the validation variant of SIH that skips the histogram and
// always yields -1.
func SIHSentinel(int, runs.Histogram) float64 { return -1 }

// NumberOfRunsTerm is the information of observing nc runs in n independent signs.
func NumberOfRunsTerm(n, nc int) float64 {
	if nc <= 0 || nc > n {
		return 0
	}
	return -LogBinomial(n-1, nc-1) + float64(n-1)*math.Ln2
}

// PositiveSignsTerm is the information of observing nPlus positive signs given
// n signs, nc runs and ncPlus positive runs.
func PositiveSignsTerm(n, nPlus, nc, ncPlus int) float64 {
	if nc <= 1 {
		return 0
	}
	ncMinus := nc - ncPlus
	nMinus := n - nPlus

	var norm float64
	if ncMinus > 1 {
		norm = -LogBinomial(n-1-ncPlus, ncMinus-1) - logHyp2F1AtOne(ncPlus, n-nc, 1+ncPlus-n)
	} else {
		norm = -LogBinomial(n-1, ncPlus-1) - math.Log(float64(n-ncPlus)/float64(ncPlus))
	}
	return -LogBinomial(nPlus-1, ncPlus-1) - LogBinomial(nMinus-1, ncMinus-1) - norm
}

// ConditionalHistogramTerm is the information of a run-length histogram given
// its number of runs and the number of signs those runs cover.
func ConditionalHistogramTerm(hist runs.Histogram, signs int) float64 {
	nc := hist.Runs()
	if nc == 0 {
		return 0
	}
	return -LogMultinomial(nc, hist) + LogBinomial(signs-1, nc-1)
}

// RunParityTerm is the information of how nc runs split into ncPlus positive
// and nc-ncPlus negative runs. For even nc the split is forced.
func RunParityTerm(nc, ncPlus int) float64 {
	if nc%2 == 0 {
		return 0
	}
	if d := 2*ncPlus - nc; d == 1 || d == -1 {
		return math.Ln2
	}
	return 0
}

// SIHpm returns the Shannon information of the pair of run-length histograms
// of positive and negative runs of n signs, nPlus of which are positive.
func SIHpm(n, nPlus int, histPlus, histMinus runs.Histogram) float64 {
	si := SIHpmCounts(n, nPlus, histPlus, histMinus)
	si += ConditionalHistogramTerm(histPlus, nPlus) + ConditionalHistogramTerm(histMinus, n-nPlus)
	return si
}

// SIHpmCounts is SIHpm without the two conditional histogram terms: the
// information carried by the numbers of runs and signs alone.
func SIHpmCounts(n, nPlus int, histPlus, histMinus runs.Histogram) float64 {
	ncPlus := histPlus.Runs()
	nc := ncPlus + histMinus.Runs()
	si := NumberOfRunsTerm(n, nc) + PositiveSignsTerm(n, nPlus, nc, ncPlus)
	return si + RunParityTerm(nc, ncPlus)
}

// Compute evaluates all five statistics for one sequence.
func Compute(chiSquare float64, s *runs.Summary) (stats.Information, error) {
	var in stats.Information

	chi2, err := SIChi2(chiSquare, s.N)
	if err != nil {
		return in, err
	}

	in[stats.TestChi2] = chi2
	in[stats.TestH] = SIH(s.N, s.Histograms.All)
	in[stats.TestHpm] = SIHpm(s.N, s.NumPlusSigns, s.Histograms.Plus, s.Histograms.Minus)
	in[stats.TestChi2H] = in[stats.TestH] + in[stats.TestChi2]
	in[stats.TestChi2Hpm] = in[stats.TestHpm] + in[stats.TestChi2]
	return in, nil
}
