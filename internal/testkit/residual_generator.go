package testkit

import (
	"math"
	"math/rand"
)

// ResidualGeneratorConfig configures synthetic normalized residuals
type ResidualGeneratorConfig struct {
	Count       int     `json:"count"`
	Seed        int64   `json:"seed"`
	Correlation float64 `json:"correlation"` // AR(1) coefficient; 0 gives white noise
	Amplitude   float64 `json:"amplitude"`   // amplitude of a systematic sinusoidal deviation
	Periods     float64 `json:"periods"`     // number of periods of the deviation over the sequence
}

// DefaultResidualConfig returns a true-model configuration: independent
// standard normal residuals.
func DefaultResidualConfig() ResidualGeneratorConfig {
	return ResidualGeneratorConfig{
		Count: 500,
		Seed:  42,
	}
}

// AlternativeModelConfig returns residuals of a model that misses a slow
// systematic trend, with per-point noise still properly normalized.
func AlternativeModelConfig() ResidualGeneratorConfig {
	return ResidualGeneratorConfig{
		Count:     500,
		Seed:      42,
		Amplitude: 0.6,
		Periods:   3,
	}
}

// ResidualGenerator produces reproducible residual sequences
type ResidualGenerator struct {
	config ResidualGeneratorConfig
	rng    *rand.Rand
}

// NewResidualGenerator creates a generator seeded from the config
func NewResidualGenerator(config ResidualGeneratorConfig) *ResidualGenerator {
	return &ResidualGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns config.Count residuals. Exact zeros are redrawn so every
// residual has a sign.
func (g *ResidualGenerator) Generate() []float64 {
	n := g.config.Count
	phi := g.config.Correlation
	scale := math.Sqrt(1 - phi*phi)

	out := make([]float64, n)
	prev := 0.0
	for i := range out {
		noise := g.rng.NormFloat64()
		ar := noise
		if i > 0 {
			ar = phi*prev + scale*noise
		}
		prev = ar

		v := ar
		if g.config.Amplitude != 0 && n > 1 {
			v += g.config.Amplitude * math.Sin(2*math.Pi*g.config.Periods*float64(i)/float64(n-1))
		}
		for v == 0 {
			v = g.rng.NormFloat64()
		}
		out[i] = v
	}
	return out
}

// Residuals is a shorthand for NewResidualGenerator(config).Generate().
func Residuals(config ResidualGeneratorConfig) []float64 {
	return NewResidualGenerator(config).Generate()
}
