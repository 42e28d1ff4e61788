// Package controller provides output adapters for displaying run progress
// and results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "github.com/JiayiXu/mutagen/internal/model"
	"github.com/JiayiXu/mutagen/pkg"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeRun StartMode = iota
	ModeList
)

// StartOption is a functional option for the Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithRunMode sets the UI to mutation run mode.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

// WithListMode sets the UI to catalog listing mode.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// UI defines the interface for displaying run progress. Implementations can
// use different output methods (simple text, TUI).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for the UI to finish rendering
	DisplayCatalog(ctx context.Context, mutations []m.Mutation) error
	DisplayExecutableInfo(ctx context.Context, exe m.Executable, mutationCount int)
	DisplayBaselineInfo(ctx context.Context, result m.ExecResult)
	DisplayVerdict(ctx context.Context, index, total int, report m.Report)
	DisplaySummary(ctx context.Context, summary m.Summary, reports pkg.FileSpill[m.Report]) error
}

// NewUI picks the TUI on an interactive terminal and the plain streaming
// output everywhere else.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to an interactive terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
