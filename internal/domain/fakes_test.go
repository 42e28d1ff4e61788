package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/JiayiXu/mutagen/internal/controller"
	m "github.com/JiayiXu/mutagen/internal/model"
	"github.com/JiayiXu/mutagen/pkg"
)

// Hand-rolled fakes for the adapter and controller interfaces, shared by the
// runner and engine tests.

func execKey(id uint, test string) string {
	return fmt.Sprintf("%d|%s", id, test)
}

type execCall struct {
	mutationID uint
	test       string
	timeout    time.Duration
}

// fakeExec scripts outcomes per (mutation, test) pair; unscripted pairs pass.
type fakeExec struct {
	outcomes  map[string]m.Outcome
	launchErr error
	calls     []execCall
}

func (f *fakeExec) Run(_ context.Context, _ m.Executable, mutationID uint, test string, timeout time.Duration) (m.ExecResult, error) {
	f.calls = append(f.calls, execCall{mutationID: mutationID, test: test, timeout: timeout})

	if f.launchErr != nil {
		return m.ExecResult{}, f.launchErr
	}

	if outcome, ok := f.outcomes[execKey(mutationID, test)]; ok {
		return m.ExecResult{Outcome: outcome, Output: "child output"}, nil
	}

	return m.ExecResult{Outcome: m.Passed}, nil
}

type fakeCoverageStore struct {
	coverage m.CoverageMap
	err      error
}

func (f *fakeCoverageStore) Load(_ m.Path) (m.CoverageMap, error) {
	return f.coverage, f.err
}

type fakeTimeoutStore struct {
	ledgers    map[m.Path]m.TimeoutLedger
	clearCalls int
	saveErr    error
}

func newFakeTimeoutStore() *fakeTimeoutStore {
	return &fakeTimeoutStore{ledgers: map[m.Path]m.TimeoutLedger{}}
}

func (f *fakeTimeoutStore) Load(path m.Path) (m.TimeoutLedger, error) {
	return f.ledgers[path], nil
}

func (f *fakeTimeoutStore) Save(path m.Path, ledger m.TimeoutLedger) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	f.ledgers[path] = ledger

	return nil
}

func (f *fakeTimeoutStore) Clear(path m.Path) error {
	f.clearCalls++
	delete(f.ledgers, path)

	return nil
}

type fakeCatalog struct {
	mutations []m.Mutation
	err       error
}

func (f *fakeCatalog) Load(_ m.Path) ([]m.Mutation, error) {
	return f.mutations, f.err
}

// fakeUI records everything displayed so tests can assert on the stream.
type fakeUI struct {
	executables []m.Executable
	baselines   []m.ExecResult
	verdicts    []m.Report
	summaries   []m.Summary
	survivors   []m.Mutation
}

func (f *fakeUI) Start(_ context.Context, _ ...controller.StartOption) error { return nil }

func (f *fakeUI) Close(_ context.Context) {}

func (f *fakeUI) Wait(_ context.Context) {}

func (f *fakeUI) DisplayCatalog(_ context.Context, _ []m.Mutation) error { return nil }

func (f *fakeUI) DisplayExecutableInfo(_ context.Context, exe m.Executable, _ int) {
	f.executables = append(f.executables, exe)
}

func (f *fakeUI) DisplayBaselineInfo(_ context.Context, result m.ExecResult) {
	f.baselines = append(f.baselines, result)
}

func (f *fakeUI) DisplayVerdict(_ context.Context, _, _ int, report m.Report) {
	f.verdicts = append(f.verdicts, report)
}

func (f *fakeUI) DisplaySummary(_ context.Context, summary m.Summary, reports pkg.FileSpill[m.Report]) error {
	f.summaries = append(f.summaries, summary)

	return reports.Range(func(_ uint64, report m.Report) error {
		if report.Verdict == m.Survived {
			f.survivors = append(f.survivors, report.Mutation)
		}

		return nil
	})
}
