package profiling

// ResidualProfile summarizes the distribution of a residual sequence. The
// run-length tests only use signs, but the chi-square test assumes residuals
// normalized to unit variance, which the profile lets callers check.
type ResidualProfile struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"excess_kurtosis"`

	JarqueBera float64 `json:"jarque_bera"`
	NormalityP float64 `json:"normality_p"`
	Outliers   int     `json:"outliers"`

	LooksNormalized bool `json:"looks_normalized"`
}
