package ports

import (
	"hplusminus/internal/profiling"
)

// ResidualProfiler summarizes the distribution of a residual sequence
type ResidualProfiler interface {
	Profile(data []float64) (profiling.ResidualProfile, error)
}
