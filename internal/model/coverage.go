package model

// CoverageMap maps a mutation id to the set of test names known to execute
// its code location at least once. It is written by the instrumentation
// during a traced baseline pass and consumed read-only here. A mutation id
// with no entry means unknown coverage, never "uncovered".
type CoverageMap struct {
	// Generation identifies the catalog the map was captured against. An
	// empty generation is accepted; a mismatched one marks the map stale.
	Generation string            `yaml:"generation,omitempty"`
	Tests      map[uint][]string `yaml:"tests"`
}

// TestsFor returns the covering test set for a mutation id. ok is false when
// the id has no entry, in which case the caller must fall back to running
// the full suite.
func (c CoverageMap) TestsFor(id uint) ([]string, bool) {
	tests, ok := c.Tests[id]
	return tests, ok
}

// TimeoutEntry is one (mutation id, test name) pair that previously hung.
type TimeoutEntry struct {
	MutationID uint   `yaml:"mutation_id"`
	Test       string `yaml:"test"`
}

// TimeoutLedger records combinations that timed out, so repeated runs of a
// known-infinite-loop mutation do not re-incur the full timeout wait. It is
// persisted as a versioned snapshot and removed at the start of every run.
type TimeoutLedger struct {
	Generation string         `yaml:"generation,omitempty"`
	Entries    []TimeoutEntry `yaml:"entries"`
}

// Has reports whether the pair is already recorded.
func (l TimeoutLedger) Has(id uint, test string) bool {
	for _, entry := range l.Entries {
		if entry.MutationID == id && entry.Test == test {
			return true
		}
	}

	return false
}

// Record adds the pair unless it is already present.
func (l *TimeoutLedger) Record(id uint, test string) {
	if l.Has(id, test) {
		return
	}

	l.Entries = append(l.Entries, TimeoutEntry{MutationID: id, Test: test})
}
