package controller

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/JiayiXu/mutagen/internal/model"
	"github.com/JiayiXu/mutagen/pkg"
)

// SimpleUI implements UI with plain streaming output via the cobra command,
// so every verdict is visible the moment it completes.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is done (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayCatalog renders the parsed catalog as a table.
func (s *SimpleUI) DisplayCatalog(ctx context.Context, mutations []m.Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderCatalogTable(mutations))

	return nil
}

// DisplayExecutableInfo announces the executable and the upcoming trials.
func (s *SimpleUI) DisplayExecutableInfo(ctx context.Context, exe m.Executable, mutationCount int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("test executable at %s\n", exe.Bin)
	s.printf("Running %d mutations\n\n", mutationCount)
}

// DisplayBaselineInfo reports the unmutated run.
func (s *SimpleUI) DisplayBaselineInfo(ctx context.Context, result m.ExecResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("baseline (no mutation): %s\n", result.Outcome)
}

// DisplayVerdict prints one streamed per-mutation result line.
func (s *SimpleUI) DisplayVerdict(ctx context.Context, index, total int, report m.Report) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("[%d/%d] %s %s (%d) ... %s\n",
		index, total,
		report.Mutation.Description, report.Mutation.Span, report.Mutation.ID,
		report.Verdict,
	)
}

// DisplaySummary prints the aggregate result, a survivors table when any
// mutation went undetected, and the mutation score.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary, reports pkg.FileSpill[m.Report]) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	status := "ok"
	if !summary.Ok() {
		status = "FAILED"
	}

	s.printf("\nMutation results: %s. %d caught by existing tests; %d were undetected\n",
		status, summary.Caught, summary.Survived())

	if !summary.Ok() {
		table, err := renderSurvivorTable(reports)
		if err != nil {
			return err
		}

		s.printf("\n%s", table)
	}

	s.printf("Mutation score: %.1f%%\n", summary.Score()*100)

	return nil
}

func renderCatalogTable(mutations []m.Mutation) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"ID", "Description", "Span"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, mutation := range mutations {
		table.Append([]string{
			strconv.FormatUint(uint64(mutation.ID), 10),
			mutation.Description,
			mutation.Span,
		})
	}

	table.SetFooter([]string{"", "Total", strconv.Itoa(len(mutations))})
	table.Render()

	return buf.String()
}

func renderSurvivorTable(reports pkg.FileSpill[m.Report]) (string, error) {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"ID", "Description", "Span"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	err := reports.Range(func(_ uint64, report m.Report) error {
		if report.Verdict != m.Survived {
			return nil
		}

		table.Append([]string{
			strconv.FormatUint(uint64(report.Mutation.ID), 10),
			report.Mutation.Description,
			report.Mutation.Span,
		})

		return nil
	})
	if err != nil {
		return "", err
	}

	table.Render()

	return buf.String(), nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
