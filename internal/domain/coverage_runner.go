package domain

import (
	"context"
	"log/slog"

	"github.com/JiayiXu/mutagen/internal/adapter"
	m "github.com/JiayiXu/mutagen/internal/model"
)

// CoverageRunner restricts each mutation to the tests known to exercise its
// code location, falling back to the full suite whenever coverage data is
// absent, stale or empty. Restricting execution must never produce a
// "survived" verdict that full execution would have caught, so every data
// gap degrades to full-suite behavior.
type CoverageRunner struct {
	exec     adapter.TestExecAdapter
	coverage adapter.CoverageStore
	timeouts adapter.TimeoutStore

	cfg          RunnerConfig
	coveragePath m.Path
	ledgerPath   m.Path
	generation   string

	loaded       bool
	haveCoverage bool
	coverageMap  m.CoverageMap
	ledger       m.TimeoutLedger
}

// NewCoverageRunner constructs a CoverageRunner. generation identifies the
// current catalog; side files captured against a different generation are
// ignored.
func NewCoverageRunner(
	exec adapter.TestExecAdapter,
	coverage adapter.CoverageStore,
	timeouts adapter.TimeoutStore,
	cfg RunnerConfig,
	coveragePath m.Path,
	ledgerPath m.Path,
	generation string,
) *CoverageRunner {
	return &CoverageRunner{
		exec:         exec,
		coverage:     coverage,
		timeouts:     timeouts,
		cfg:          cfg,
		coveragePath: coveragePath,
		ledgerPath:   ledgerPath,
		generation:   generation,
	}
}

// Run executes the covering tests for the mutation, one invocation per test
// name, stopping at the first failure or hang. The baseline (id 0) always
// runs the full suite.
func (r *CoverageRunner) Run(ctx context.Context, mutationID uint) (m.ExecResult, error) {
	if mutationID == m.BaselineID {
		return r.runFullSuite(ctx, mutationID)
	}

	r.ensureLoaded()

	tests, ok := r.coveredTests(mutationID)
	if !ok {
		return r.runFullSuite(ctx, mutationID)
	}

	var lastPassed m.ExecResult

	for _, test := range tests {
		if r.ledger.Has(mutationID, test) {
			slog.Debug("skipping known-hanging combination", "mutation", mutationID, "test", test)
			return m.ExecResult{Outcome: m.TimedOut}, nil
		}

		result, err := r.exec.Run(ctx, r.cfg.Executable, mutationID, test, r.cfg.Timeout)
		if err != nil {
			return m.ExecResult{}, err
		}

		switch result.Outcome {
		case m.TimedOut:
			r.recordTimeout(mutationID, test)
			return result, nil
		case m.Failed:
			return result, nil
		case m.Passed:
			lastPassed = result
		}
	}

	lastPassed.Outcome = m.Passed

	return lastPassed, nil
}

func (r *CoverageRunner) runFullSuite(ctx context.Context, mutationID uint) (m.ExecResult, error) {
	return r.exec.Run(ctx, r.cfg.Executable, mutationID, "", r.cfg.timeoutFor(mutationID))
}

// ensureLoaded reads the side files once per runner. Errors are never fatal:
// missing or unreadable optimization data degrades to full-suite behavior.
func (r *CoverageRunner) ensureLoaded() {
	if r.loaded {
		return
	}

	r.loaded = true

	coverageMap, err := r.coverage.Load(r.coveragePath)

	switch {
	case err != nil:
		slog.Warn("coverage map unavailable, running full suite for every mutation", "path", r.coveragePath, "error", err)
	case coverageMap.Generation != "" && coverageMap.Generation != r.generation:
		slog.Warn("coverage map is stale, running full suite for every mutation", "path", r.coveragePath, "generation", coverageMap.Generation)
	default:
		r.coverageMap = coverageMap
		r.haveCoverage = true
	}

	ledger, err := r.timeouts.Load(r.ledgerPath)
	if err != nil {
		slog.Warn("timeout ledger unreadable, starting empty", "path", r.ledgerPath, "error", err)
		ledger = m.TimeoutLedger{}
	}

	if ledger.Generation != "" && ledger.Generation != r.generation {
		ledger = m.TimeoutLedger{}
	}

	ledger.Generation = r.generation
	r.ledger = ledger
}

// coveredTests returns the test subset for a mutation. ok is false for
// unknown ids and for empty covering sets: an empty known-set more likely
// means missing instrumentation than a genuinely uncovered mutation.
func (r *CoverageRunner) coveredTests(mutationID uint) ([]string, bool) {
	if !r.haveCoverage {
		return nil, false
	}

	tests, ok := r.coverageMap.TestsFor(mutationID)
	if !ok || len(tests) == 0 {
		return nil, false
	}

	return tests, true
}

func (r *CoverageRunner) recordTimeout(mutationID uint, test string) {
	r.ledger.Record(mutationID, test)

	if err := r.timeouts.Save(r.ledgerPath, r.ledger); err != nil {
		slog.Warn("failed to persist timeout ledger", "path", r.ledgerPath, "error", err)
	}
}
