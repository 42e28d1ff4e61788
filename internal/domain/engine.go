package domain

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JiayiXu/mutagen/internal/adapter"
	"github.com/JiayiXu/mutagen/internal/controller"
	m "github.com/JiayiXu/mutagen/internal/model"
	"github.com/JiayiXu/mutagen/pkg"
)

// Strategy selects how mutations are executed.
type Strategy int

const (
	// FullSuite re-runs the whole test binary for every mutation.
	FullSuite Strategy = iota
	// CoverageGuided restricts each mutation to its covering tests.
	CoverageGuided
)

// ErrBaselineFailed marks an unmutated test run that did not pass. Every
// caught/survived classification is meaningless after that, so the whole
// run aborts before any mutation is tried.
var ErrBaselineFailed = errors.New("baseline test run failed")

// Args holds everything one engine invocation needs.
type Args struct {
	Executables     []m.Executable
	Catalog         m.Path
	CoveragePath    m.Path
	LedgerPath      m.Path
	Strategy        Strategy
	Timeout         time.Duration
	BaselineTimeout time.Duration
}

// Engine drives the whole mutation run: catalog loading, baseline
// validation and the per-mutation loop, streaming verdicts into the UI.
type Engine interface {
	Run(ctx context.Context, args Args) (m.Summary, error)
}

type engine struct {
	catalog  adapter.CatalogAdapter
	exec     adapter.TestExecAdapter
	coverage adapter.CoverageStore
	timeouts adapter.TimeoutStore
	ui       controller.UI
}

// NewEngine constructs an Engine backed by the provided adapters.
func NewEngine(
	catalog adapter.CatalogAdapter,
	exec adapter.TestExecAdapter,
	coverage adapter.CoverageStore,
	timeouts adapter.TimeoutStore,
	ui controller.UI,
) Engine {
	return &engine{
		catalog:  catalog,
		exec:     exec,
		coverage: coverage,
		timeouts: timeouts,
		ui:       ui,
	}
}

// Run processes every executable sequentially: baseline first, then one
// trial per mutation in catalog order. Mutations are never run in parallel:
// the instrumented binary selects the active mutation through a single
// toggle, so invocations must be serialized.
func (e *engine) Run(ctx context.Context, args Args) (m.Summary, error) {
	mutations, err := e.catalog.Load(args.Catalog)
	if err != nil {
		return m.Summary{}, err
	}

	// Stale hang data must not suppress re-verification once the binary or
	// catalog changed.
	if err := e.timeouts.Clear(args.LedgerPath); err != nil {
		slog.Warn("failed to clear timeout ledger", "path", args.LedgerPath, "error", err)
	}

	reports, err := pkg.NewFileSpill[m.Report]()
	if err != nil {
		return m.Summary{}, err
	}

	defer func() {
		if err := reports.Close(); err != nil {
			slog.Warn("failed to close report spill", "error", err)
		}
	}()

	generation := catalogGeneration(mutations)

	var summary m.Summary

	for _, exe := range args.Executables {
		runner := e.newRunner(args, exe, generation)

		e.ui.DisplayExecutableInfo(ctx, exe, len(mutations))

		if err := e.runBaseline(ctx, runner, exe); err != nil {
			return m.Summary{}, err
		}

		if err := e.runMutations(ctx, runner, mutations, reports, &summary); err != nil {
			// Partial counts are discarded, never reported as final.
			return m.Summary{}, err
		}
	}

	if err := e.ui.DisplaySummary(ctx, summary, reports); err != nil {
		return m.Summary{}, err
	}

	return summary, nil
}

func (e *engine) newRunner(args Args, exe m.Executable, generation string) Runner {
	cfg := RunnerConfig{
		Executable:      exe,
		Timeout:         args.Timeout,
		BaselineTimeout: args.BaselineTimeout,
	}

	if args.Strategy == CoverageGuided {
		return NewCoverageRunner(e.exec, e.coverage, e.timeouts, cfg, args.CoveragePath, args.LedgerPath, generation)
	}

	return NewFullSuiteRunner(e.exec, cfg)
}

func (e *engine) runBaseline(ctx context.Context, runner Runner, exe m.Executable) error {
	result, err := runner.Run(ctx, m.BaselineID)
	if err != nil {
		return err
	}

	e.ui.DisplayBaselineInfo(ctx, result)

	if result.Outcome != m.Passed {
		return fmt.Errorf("%w: %s: %s\n%s", ErrBaselineFailed, exe.Bin, result.Outcome, result.Output)
	}

	return nil
}

// runMutations tries every mutation in catalog order, streaming each verdict
// as it completes so a long run gives continuous feedback.
func (e *engine) runMutations(
	ctx context.Context,
	runner Runner,
	mutations []m.Mutation,
	reports pkg.FileSpill[m.Report],
	summary *m.Summary,
) error {
	results := make(chan m.Report)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		done := 0

		for report := range results {
			done++
			summary.Add(report.Verdict)

			if err := reports.Append(report); err != nil {
				return err
			}

			e.ui.DisplayVerdict(groupCtx, done, len(mutations), report)
		}

		return nil
	})

	group.Go(func() error {
		defer close(results)

		for _, mutation := range mutations {
			result, err := runner.Run(groupCtx, mutation.ID)
			if err != nil {
				return err
			}

			report := m.Report{
				Mutation: mutation,
				Outcome:  result.Outcome,
				Verdict:  m.VerdictFor(result.Outcome),
			}

			select {
			case results <- report:
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}

		return nil
	})

	return group.Wait()
}

// catalogGeneration derives the marker that ties side-file snapshots to the
// catalog they were captured against.
func catalogGeneration(mutations []m.Mutation) string {
	h := sha256.New()

	for _, mutation := range mutations {
		fmt.Fprintf(h, "%d - %s @ %s\n", mutation.ID, mutation.Description, mutation.Span)
	}

	return fmt.Sprintf("%x", h.Sum(nil))
}
