package runs

// Sign is the sign of one normalized residual.
type Sign int8

const (
	Minus Sign = -1
	Plus  Sign = 1
)

// SignSequence is an ordered sequence of signs, each Plus or Minus.
type SignSequence []Sign

// RunLengthSet holds the run lengths of a sign sequence in sequence order.
// INVARIANTS:
// - sum(All) == N
// - len(Plus) + len(Minus) == len(All)
// - |len(Plus) - len(Minus)| <= 1
type RunLengthSet struct {
	All   []int `json:"all"`
	Plus  []int `json:"plus"`
	Minus []int `json:"minus"`
}

// Histogram counts runs by length. Index l holds the number of runs of length l;
// the slice covers lengths 0..N+1.
type Histogram []int

// Runs returns the number of runs counted by the histogram.
func (h Histogram) Runs() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// Signs returns the number of signs covered by the counted runs.
func (h Histogram) Signs() int {
	total := 0
	for l, c := range h {
		total += l * c
	}
	return total
}

// Histograms groups the run-length histograms of the three run categories.
type Histograms struct {
	All   Histogram `json:"all"`
	Plus  Histogram `json:"plus"`
	Minus Histogram `json:"minus"`
}

// Summary is the run structure of one sign sequence.
type Summary struct {
	N            int          `json:"n"`
	NumRuns      int          `json:"num_runs"`
	NumPlusSigns int          `json:"num_plus_signs"`
	NumPlusRuns  int          `json:"num_plus_runs"`
	NumMinusRuns int          `json:"num_minus_runs"`
	Lengths      RunLengthSet `json:"lengths"`
	Histograms   Histograms   `json:"histograms"`
}

// NumMinusSigns returns the number of negative signs.
func (s *Summary) NumMinusSigns() int { return s.N - s.NumPlusSigns }
