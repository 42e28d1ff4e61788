package domain

import (
	"context"

	"github.com/JiayiXu/mutagen/internal/adapter"
	m "github.com/JiayiXu/mutagen/internal/model"
)

// FullSuiteRunner re-executes the entire test binary for every mutation. It
// makes no use of coverage data and is the correctness baseline for the
// coverage-guided optimization.
type FullSuiteRunner struct {
	exec adapter.TestExecAdapter
	cfg  RunnerConfig
}

// NewFullSuiteRunner constructs a FullSuiteRunner.
func NewFullSuiteRunner(exec adapter.TestExecAdapter, cfg RunnerConfig) *FullSuiteRunner {
	return &FullSuiteRunner{
		exec: exec,
		cfg:  cfg,
	}
}

// Run executes the whole suite with the given mutation active.
func (r *FullSuiteRunner) Run(ctx context.Context, mutationID uint) (m.ExecResult, error) {
	return r.exec.Run(ctx, r.cfg.Executable, mutationID, "", r.cfg.timeoutFor(mutationID))
}
