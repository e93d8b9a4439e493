package calibration

import (
	"sync"

	"hplusminus/domain/stats"
)

// Lazy loads a calibration directory on first use, exactly once. All callers
// share the loaded model, or the load error.
type Lazy struct {
	dir   string
	once  sync.Once
	model *Model
	err   error
}

// NewLazy returns a handle that loads dir on first use.
func NewLazy(dir string) *Lazy {
	return &Lazy{dir: dir}
}

// Dir returns the calibration directory.
func (l *Lazy) Dir() string { return l.dir }

// Model returns the loaded model, loading it on the first call.
func (l *Lazy) Model() (*Model, error) {
	l.once.Do(func() {
		l.model, l.err = Load(l.dir)
	})
	return l.model, l.err
}

// Parameters resolves the calibrated parameters of a test statistic.
func (l *Lazy) Parameters(test stats.TestID, n int) (stats.GammaParameters, error) {
	m, err := l.Model()
	if err != nil {
		return stats.GammaParameters{}, err
	}
	return m.Parameters(test, n)
}
