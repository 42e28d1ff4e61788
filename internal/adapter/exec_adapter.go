package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	m "github.com/JiayiXu/mutagen/internal/model"
)

// MutationEnvVar is the environment variable the instrumented binary reads
// to decide which mutation is active. 0 selects none.
const MutationEnvVar = "MUTATION_COUNT"

// ErrLaunch marks a failure to spawn the test executable at all. It is fatal
// for the whole run, never a Failed outcome: it means the tooling is broken,
// not that a test caught a mutation.
var ErrLaunch = errors.New("cannot launch test executable")

// TestExecAdapter abstracts one execution of the instrumented test binary.
type TestExecAdapter interface {
	// Run executes the binary with the given mutation active. A non-empty
	// test restricts execution to exactly that test name. The child is
	// killed once timeout elapses; classification uses only the exit status
	// and the deadline, never the output.
	Run(ctx context.Context, exe m.Executable, mutationID uint, test string, timeout time.Duration) (m.ExecResult, error)
}

// LocalTestExecAdapter runs the binary as a child process via os/exec.
type LocalTestExecAdapter struct {
	passthrough io.Writer
}

// NewLocalTestExecAdapter constructs a LocalTestExecAdapter. When
// passthrough is non-nil, child output is streamed there in addition to
// being captured in the result.
func NewLocalTestExecAdapter(passthrough io.Writer) *LocalTestExecAdapter {
	return &LocalTestExecAdapter{passthrough: passthrough}
}

// Run executes the binary once and classifies the result.
func (a *LocalTestExecAdapter) Run(ctx context.Context, exe m.Executable, mutationID uint, test string, timeout time.Duration) (m.ExecResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append([]string(nil), exe.Args...)
	if test != "" {
		// Instrumented test binaries take a test name filter plus --exact,
		// so a subset run is one invocation per test name.
		args = append(args, test, "--exact")
	}

	cmd := exec.CommandContext(runCtx, string(exe.Bin), args...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("%s=%d", MutationEnvVar, mutationID))

	var buf bytes.Buffer

	out := io.Writer(&buf)
	if a.passthrough != nil {
		out = io.MultiWriter(&buf, a.passthrough)
	}

	cmd.Stdout = out
	cmd.Stderr = out

	slog.Debug("running test executable", "bin", exe.Bin, "mutation", mutationID, "test", test, "timeout", timeout)

	err := cmd.Run()
	result := m.ExecResult{Output: buf.String()}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		// CommandContext killed the child when the deadline elapsed.
		result.Outcome = m.TimedOut
	case errors.Is(runCtx.Err(), context.Canceled):
		return m.ExecResult{}, runCtx.Err()
	case err == nil:
		result.Outcome = m.Passed
	default:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			slog.Error("failed to launch test executable", "bin", exe.Bin, "error", err)
			return m.ExecResult{}, fmt.Errorf("%w: %s: %v", ErrLaunch, exe.Bin, err)
		}

		result.Outcome = m.Failed
	}

	slog.Debug("test executable finished", "bin", exe.Bin, "mutation", mutationID, "test", test, "outcome", result.Outcome)

	return result, nil
}
