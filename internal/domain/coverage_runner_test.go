package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/JiayiXu/mutagen/internal/model"
)

const (
	testCoveragePath = m.Path("target/mutagen/coverage.yaml")
	testLedgerPath   = m.Path("target/mutagen/timeouts.yaml")
	testGeneration   = "gen-1"
)

func newTestCoverageRunner(exec *fakeExec, coverage *fakeCoverageStore, timeouts *fakeTimeoutStore) *CoverageRunner {
	return NewCoverageRunner(exec, coverage, timeouts, testRunnerConfig(), testCoveragePath, testLedgerPath, testGeneration)
}

func TestCoverageRunner_RestrictsToCoveringTests(t *testing.T) {
	exec := &fakeExec{}
	coverage := &fakeCoverageStore{coverage: m.CoverageMap{
		Generation: testGeneration,
		Tests:      map[uint][]string{1: {"tests::adds", "tests::subtracts"}},
	}}
	runner := newTestCoverageRunner(exec, coverage, newFakeTimeoutStore())

	result, err := runner.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, m.Passed, result.Outcome)

	require.Len(t, exec.calls, 2)
	assert.Equal(t, "tests::adds", exec.calls[0].test)
	assert.Equal(t, "tests::subtracts", exec.calls[1].test)
}

func TestCoverageRunner_StopsAtFirstFailure(t *testing.T) {
	exec := &fakeExec{outcomes: map[string]m.Outcome{
		execKey(1, "tests::adds"): m.Failed,
	}}
	coverage := &fakeCoverageStore{coverage: m.CoverageMap{
		Generation: testGeneration,
		Tests:      map[uint][]string{1: {"tests::adds", "tests::subtracts"}},
	}}
	runner := newTestCoverageRunner(exec, coverage, newFakeTimeoutStore())

	result, err := runner.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, m.Failed, result.Outcome)
	assert.Len(t, exec.calls, 1)
}

func TestCoverageRunner_UnknownMutationRunsFullSuite(t *testing.T) {
	exec := &fakeExec{}
	coverage := &fakeCoverageStore{coverage: m.CoverageMap{
		Generation: testGeneration,
		Tests:      map[uint][]string{1: {"tests::adds"}},
	}}
	runner := newTestCoverageRunner(exec, coverage, newFakeTimeoutStore())

	_, err := runner.Run(context.Background(), 9)
	require.NoError(t, err)

	require.Len(t, exec.calls, 1)
	assert.Empty(t, exec.calls[0].test)
}

func TestCoverageRunner_EmptyCoveringSetRunsFullSuite(t *testing.T) {
	// An empty known-set more likely means missing instrumentation than a
	// genuinely uncovered mutation; treating it as caught or survived
	// outright would fabricate a verdict from a data gap.
	exec := &fakeExec{}
	coverage := &fakeCoverageStore{coverage: m.CoverageMap{
		Generation: testGeneration,
		Tests:      map[uint][]string{1: {}},
	}}
	runner := newTestCoverageRunner(exec, coverage, newFakeTimeoutStore())

	_, err := runner.Run(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, exec.calls, 1)
	assert.Empty(t, exec.calls[0].test)
}

func TestCoverageRunner_MissingCoverageDegradesToFullSuite(t *testing.T) {
	exec := &fakeExec{}
	coverage := &fakeCoverageStore{err: assert.AnError}
	runner := newTestCoverageRunner(exec, coverage, newFakeTimeoutStore())

	_, err := runner.Run(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, exec.calls, 1)
	assert.Empty(t, exec.calls[0].test)
}

func TestCoverageRunner_StaleCoverageDegradesToFullSuite(t *testing.T) {
	exec := &fakeExec{}
	coverage := &fakeCoverageStore{coverage: m.CoverageMap{
		Generation: "gen-0",
		Tests:      map[uint][]string{1: {"tests::adds"}},
	}}
	runner := newTestCoverageRunner(exec, coverage, newFakeTimeoutStore())

	_, err := runner.Run(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, exec.calls, 1)
	assert.Empty(t, exec.calls[0].test)
}

func TestCoverageRunner_BaselineAlwaysRunsFullSuite(t *testing.T) {
	exec := &fakeExec{}
	coverage := &fakeCoverageStore{coverage: m.CoverageMap{
		Generation: testGeneration,
		Tests:      map[uint][]string{1: {"tests::adds"}},
	}}
	runner := newTestCoverageRunner(exec, coverage, newFakeTimeoutStore())

	_, err := runner.Run(context.Background(), m.BaselineID)
	require.NoError(t, err)

	require.Len(t, exec.calls, 1)
	assert.Empty(t, exec.calls[0].test)
	assert.Equal(t, testRunnerConfig().BaselineTimeout, exec.calls[0].timeout)
}

func TestCoverageRunner_RecordsTimeoutInLedger(t *testing.T) {
	exec := &fakeExec{outcomes: map[string]m.Outcome{
		execKey(3, "tests::loops_forever"): m.TimedOut,
	}}
	coverage := &fakeCoverageStore{coverage: m.CoverageMap{
		Generation: testGeneration,
		Tests:      map[uint][]string{3: {"tests::loops_forever"}},
	}}
	timeouts := newFakeTimeoutStore()
	runner := newTestCoverageRunner(exec, coverage, timeouts)

	result, err := runner.Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, m.TimedOut, result.Outcome)

	saved := timeouts.ledgers[testLedgerPath]
	assert.Equal(t, testGeneration, saved.Generation)
	assert.True(t, saved.Has(3, "tests::loops_forever"))
}

func TestCoverageRunner_SkipsKnownHangingCombination(t *testing.T) {
	exec := &fakeExec{}
	coverage := &fakeCoverageStore{coverage: m.CoverageMap{
		Generation: testGeneration,
		Tests:      map[uint][]string{3: {"tests::loops_forever"}},
	}}

	timeouts := newFakeTimeoutStore()
	ledger := m.TimeoutLedger{Generation: testGeneration}
	ledger.Record(3, "tests::loops_forever")
	timeouts.ledgers[testLedgerPath] = ledger

	runner := newTestCoverageRunner(exec, coverage, timeouts)

	result, err := runner.Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, m.TimedOut, result.Outcome)

	// The known-infinite-loop combination is never re-invoked.
	assert.Empty(t, exec.calls)
}

func TestCoverageRunner_StaleLedgerIsDiscarded(t *testing.T) {
	exec := &fakeExec{}
	coverage := &fakeCoverageStore{coverage: m.CoverageMap{
		Generation: testGeneration,
		Tests:      map[uint][]string{3: {"tests::loops_forever"}},
	}}

	timeouts := newFakeTimeoutStore()
	ledger := m.TimeoutLedger{Generation: "gen-0"}
	ledger.Record(3, "tests::loops_forever")
	timeouts.ledgers[testLedgerPath] = ledger

	runner := newTestCoverageRunner(exec, coverage, timeouts)

	result, err := runner.Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, m.Passed, result.Outcome)

	// A ledger from another catalog generation must not suppress the run.
	require.Len(t, exec.calls, 1)
	assert.Equal(t, "tests::loops_forever", exec.calls[0].test)
}
