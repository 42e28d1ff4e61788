package model

// Report is the streamed result of trying a single mutation.
type Report struct {
	Mutation Mutation
	Outcome  Outcome
	Verdict  Verdict
}

// Summary accumulates verdicts across a run. Total always equals
// Caught + Survived().
type Summary struct {
	Total  int
	Caught int
}

// Add folds one verdict into the summary.
func (s *Summary) Add(v Verdict) {
	s.Total++
	if v == Caught {
		s.Caught++
	}
}

// Survived returns the number of undetected mutations.
func (s Summary) Survived() int {
	return s.Total - s.Caught
}

// Ok reports whether every mutation was caught.
func (s Summary) Ok() bool {
	return s.Survived() == 0
}

// Score returns the fraction of mutations caught. An empty run scores 1.
func (s Summary) Score() float64 {
	if s.Total == 0 {
		return 1.0
	}

	return float64(s.Caught) / float64(s.Total)
}
