package profiling

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	return skewness * math.Sqrt(n*(n-1)) / (n - 2)
}

// calculateExcessKurtosis computes the moment estimate m4/m2^2 - 3
func calculateExcessKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumFourthDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumFourthDeviations += deviation * deviation * deviation * deviation
	}
	return sumFourthDeviations/n - 3
}

// jarqueBera tests normality from skewness and excess kurtosis. The statistic
// is asymptotically chi-square with two degrees of freedom.
func jarqueBera(n int, skewness, excessKurtosis float64) (statistic, pValue float64) {
	if n < 4 {
		return 0, 1
	}
	statistic = float64(n) / 6 * (skewness*skewness + excessKurtosis*excessKurtosis/4)
	return statistic, distuv.ChiSquared{K: 2}.Survival(statistic)
}

// detectOutliers identifies outliers using IQR method
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}
