package model

// Outcome classifies a single execution of the instrumented test binary.
type Outcome int

const (
	// Passed indicates the process exited with status zero.
	Passed Outcome = iota
	// Failed indicates the process exited with a nonzero status.
	Failed
	// TimedOut indicates the process did not exit within the wall-clock
	// budget and was killed.
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed out"
	}

	return "unknown"
}

// ExecResult carries the outcome of one child invocation together with the
// captured combined output, which is purely diagnostic.
type ExecResult struct {
	Outcome Outcome
	Output  string
}

// Verdict is the per-mutation classification derived from outcomes.
type Verdict int

const (
	// Caught means at least one test failed or hung with the mutation
	// active, so the suite detects the change.
	Caught Verdict = iota
	// Survived means every executed test passed, a gap in the suite.
	Survived
)

func (v Verdict) String() string {
	if v == Survived {
		return "SURVIVED"
	}

	return "caught"
}

// VerdictFor maps an execution outcome to a mutation verdict. A hang counts
// as detection: the mutation observably broke termination.
func VerdictFor(o Outcome) Verdict {
	if o == Passed {
		return Survived
	}

	return Caught
}
