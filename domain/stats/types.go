package stats

import (
	"fmt"

	"hplusminus/domain/core"
)

// ============================================================================
// TEST IDENTIFIERS (closed set, never extended at runtime)
// ============================================================================

// TestID identifies one of the five test statistics.
type TestID int

const (
	TestChi2    TestID = iota // Pearson chi-square
	TestH                     // run-length histogram of all runs
	TestHpm                   // separate histograms of positive and negative runs
	TestChi2H                 // combined chi2 and h
	TestChi2Hpm               // combined chi2 and hpm

	numTests
)

// NumTests is the size of the test set.
const NumTests = int(numTests)

// AllTests lists the tests in reporting order.
var AllTests = [NumTests]TestID{TestChi2, TestH, TestHpm, TestChi2H, TestChi2Hpm}

var testNames = [NumTests]string{"chi2", "h", "hpm", "chi2_h", "chi2_hpm"}

var testLabels = [NumTests]string{"chi2", "h", "hpm", "(chi2,h)", "(chi^2,hpm)"}

// Valid reports whether t is one of the five known tests.
func (t TestID) Valid() bool { return t >= 0 && t < numTests }

// String returns the machine name used in files and APIs ("chi2", "chi2_hpm", ...).
func (t TestID) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TestID(%d)", int(t))
	}
	return testNames[t]
}

// Label returns the human readable name used in printed tables.
func (t TestID) Label() string {
	if !t.Valid() {
		return t.String()
	}
	return testLabels[t]
}

// ParseTestID maps a machine name to its TestID.
func ParseTestID(s string) (TestID, error) {
	for i, name := range testNames {
		if name == s {
			return TestID(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, core.ErrUnknownTest)
}

// MarshalText implements encoding.TextMarshaler.
func (t TestID) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%d: %w", int(t), core.ErrUnknownTest)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TestID) UnmarshalText(text []byte) error {
	id, err := ParseTestID(string(text))
	if err != nil {
		return err
	}
	*t = id
	return nil
}

// ============================================================================
// SHANNON INFORMATION
// ============================================================================

// Information holds the Shannon information (negative log-probability) of
// every test statistic, indexed by TestID.
// INVARIANTS:
// - Information[TestChi2H] == Information[TestH] + Information[TestChi2]
// - Information[TestChi2Hpm] == Information[TestHpm] + Information[TestChi2]
type Information [NumTests]float64

// Get returns the information of test t.
func (in Information) Get(t TestID) float64 { return in[t] }

// ============================================================================
// CALIBRATION
// ============================================================================

// GammaParameters parameterize a shifted gamma distribution.
type GammaParameters struct {
	Alpha float64 `json:"alpha"` // shape, > 0
	Beta  float64 `json:"beta"`  // rate, > 0
	I0    float64 `json:"i0"`    // location (shift)
}

// ============================================================================
// RESULTS
// ============================================================================

// TestResult is the final record for one test.
type TestResult struct {
	Test  TestID  `json:"test"`
	Label string  `json:"label"`
	I     float64 `json:"I"`
	P     float64 `json:"p"`
}

// ResultSet holds one TestResult per test, indexed by TestID.
type ResultSet [NumTests]TestResult

// Get returns the result of test t.
func (rs *ResultSet) Get(t TestID) TestResult { return rs[t] }

// RatioToChi2 returns p(t)/p(chi2), the factor by which test t is more (ratio < 1)
// or less sensitive than the chi-square test.
func (rs *ResultSet) RatioToChi2(t TestID) float64 {
	return rs[t].P / rs[TestChi2].P
}
