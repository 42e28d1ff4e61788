// Package domain implements the mutation engine: baseline validation, the
// mutation loop and the execution strategies.
package domain

import (
	"context"
	"time"

	m "github.com/JiayiXu/mutagen/internal/model"
)

// Runner executes the test suite with one mutation active and reports the
// combined outcome. mutationID 0 runs the unmutated baseline. The strategy
// (full-suite or coverage-guided) is chosen once at startup; both
// implementations share this single operation.
type Runner interface {
	Run(ctx context.Context, mutationID uint) (m.ExecResult, error)
}

// RunnerConfig carries the per-executable execution settings shared by both
// strategies. The active mutation id is always an explicit parameter, never
// ambient process state.
type RunnerConfig struct {
	Executable      m.Executable
	Timeout         time.Duration
	BaselineTimeout time.Duration
}

func (c RunnerConfig) timeoutFor(mutationID uint) time.Duration {
	if mutationID == m.BaselineID {
		return c.BaselineTimeout
	}

	return c.Timeout
}
