package profiling

import (
	"fmt"
	"math"

	"hplusminus/domain/core"

	"github.com/montanaflynn/stats"
)

// Profiler computes residual profiles. A sequence looks normalized when its
// mean is within MeanSigmas standard errors of zero and its standard
// deviation lies in [MinStdDev, MaxStdDev].
type Profiler struct {
	MeanSigmas float64
	MinStdDev  float64
	MaxStdDev  float64
}

// NewProfiler returns a profiler with the default tolerances.
func NewProfiler() *Profiler {
	return &Profiler{MeanSigmas: 3, MinStdDev: 0.5, MaxStdDev: 2}
}

// ProfileResiduals profiles data with the default tolerances.
func ProfileResiduals(data []float64) (ResidualProfile, error) {
	return NewProfiler().Profile(data)
}

// Profile computes summary statistics, a normality test and the normalization
// check for data.
func (p *Profiler) Profile(data []float64) (ResidualProfile, error) {
	profile := ResidualProfile{N: len(data)}
	if len(data) == 0 {
		return profile, core.ErrEmptySequence
	}

	var err error
	if profile.Mean, err = stats.Mean(data); err != nil {
		return profile, fmt.Errorf("mean: %w", err)
	}
	if profile.StdDev, err = stats.StandardDeviation(data); err != nil {
		return profile, fmt.Errorf("standard deviation: %w", err)
	}
	if profile.Min, err = stats.Min(data); err != nil {
		return profile, fmt.Errorf("min: %w", err)
	}
	if profile.Max, err = stats.Max(data); err != nil {
		return profile, fmt.Errorf("max: %w", err)
	}
	if profile.Median, err = stats.Median(data); err != nil {
		return profile, fmt.Errorf("median: %w", err)
	}
	// Quartiles of fewer than four points fall outside the percentile bounds.
	profile.Q25, profile.Q75 = profile.Min, profile.Max
	if len(data) >= 4 {
		if profile.Q25, err = stats.Percentile(data, 25); err != nil {
			return profile, fmt.Errorf("25th percentile: %w", err)
		}
		if profile.Q75, err = stats.Percentile(data, 75); err != nil {
			return profile, fmt.Errorf("75th percentile: %w", err)
		}
	}

	profile.Skewness = calculateSkewness(data, profile.Mean, profile.StdDev)
	profile.Kurtosis = calculateExcessKurtosis(data, profile.Mean, profile.StdDev)
	profile.JarqueBera, profile.NormalityP = jarqueBera(len(data), profile.Skewness, profile.Kurtosis)
	profile.Outliers = detectOutliers(data, profile.Q25, profile.Q75)
	profile.LooksNormalized = p.looksNormalized(profile)

	return profile, nil
}

func (p *Profiler) looksNormalized(profile ResidualProfile) bool {
	if profile.N < 2 {
		return false
	}
	stdErr := 1 / math.Sqrt(float64(profile.N))
	return math.Abs(profile.Mean) <= p.MeanSigmas*stdErr &&
		profile.StdDev >= p.MinStdDev &&
		profile.StdDev <= p.MaxStdDev
}
