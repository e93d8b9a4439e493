package ports

import (
	"hplusminus/domain/stats"
)

// CalibrationProvider resolves the shifted-gamma law of a calibrated test
// statistic for a given sample size. Implementations must be safe for
// concurrent use once constructed.
type CalibrationProvider interface {
	Parameters(test stats.TestID, n int) (stats.GammaParameters, error)
}
