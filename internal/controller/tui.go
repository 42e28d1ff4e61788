package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/JiayiXu/mutagen/internal/model"
	"github.com/JiayiXu/mutagen/pkg"
)

// recentVerdicts is how many finished trials stay visible in the TUI.
const recentVerdicts = 10

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	caughtStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	survivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

// TUI implements UI with a Bubble Tea progress view for interactive
// terminals.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{
		output: output,
		done:   make(chan struct{}),
	}
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := StartConfig{}
	for _, option := range options {
		option(&cfg)
	}

	t.program = tea.NewProgram(newRunModel(), tea.WithOutput(t.output))

	go func() {
		defer close(t.done)

		if _, err := t.program.Run(); err != nil {
			fmt.Fprintf(t.output, "ui error: %v\n", err)
		}
	}()

	return nil
}

// Close asks the program to quit.
func (t *TUI) Close(_ context.Context) {
	if t.program != nil {
		t.program.Send(tea.Quit())
	}
}

// Wait blocks until the program has finished rendering.
func (t *TUI) Wait(_ context.Context) {
	if t.program != nil {
		<-t.done
	}
}

// DisplayCatalog renders the parsed catalog. Listing is static output, so
// the table is printed directly.
func (t *TUI) DisplayCatalog(ctx context.Context, mutations []m.Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprint(t.output, renderCatalogTable(mutations))

	return err
}

// DisplayExecutableInfo announces the executable under test.
func (t *TUI) DisplayExecutableInfo(ctx context.Context, exe m.Executable, mutationCount int) {
	if ctx.Err() != nil || t.program == nil {
		return
	}

	t.program.Send(executableMsg{bin: string(exe.Bin), count: mutationCount})
}

// DisplayBaselineInfo reports the unmutated run.
func (t *TUI) DisplayBaselineInfo(ctx context.Context, result m.ExecResult) {
	if ctx.Err() != nil || t.program == nil {
		return
	}

	t.program.Send(baselineMsg{outcome: result.Outcome})
}

// DisplayVerdict streams one finished trial into the view.
func (t *TUI) DisplayVerdict(ctx context.Context, index, total int, report m.Report) {
	if ctx.Err() != nil || t.program == nil {
		return
	}

	t.program.Send(verdictMsg{index: index, total: total, report: report})
}

// DisplaySummary shows the final counts and the surviving mutations.
func (t *TUI) DisplaySummary(ctx context.Context, summary m.Summary, reports pkg.FileSpill[m.Report]) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.program == nil {
		return nil
	}

	var survivors []m.Report

	err := reports.Range(func(_ uint64, report m.Report) error {
		if report.Verdict == m.Survived {
			survivors = append(survivors, report)
		}

		return nil
	})
	if err != nil {
		return err
	}

	t.program.Send(summaryMsg{summary: summary, survivors: survivors})

	return nil
}

type executableMsg struct {
	bin   string
	count int
}

type baselineMsg struct {
	outcome m.Outcome
}

type verdictMsg struct {
	index  int
	total  int
	report m.Report
}

type summaryMsg struct {
	summary   m.Summary
	survivors []m.Report
}

type runModel struct {
	spin     spinner.Model
	bar      progress.Model
	bin      string
	total    int
	done     int
	baseline string
	recent   []string
	summary  *summaryMsg
}

func newRunModel() runModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return runModel{
		spin: spin,
		bar:  progress.New(progress.WithDefaultGradient()),
	}
}

func (rm runModel) Init() tea.Cmd {
	return rm.spin.Tick
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return rm, tea.Quit
		}

	case executableMsg:
		rm.bin = msg.bin
		rm.total = msg.count
		rm.done = 0
		rm.baseline = ""

	case baselineMsg:
		rm.baseline = msg.outcome.String()

	case verdictMsg:
		rm.done = msg.index
		rm.total = msg.total
		rm.recent = append(rm.recent, formatVerdictLine(msg.report))

		if len(rm.recent) > recentVerdicts {
			rm.recent = rm.recent[len(rm.recent)-recentVerdicts:]
		}

	case summaryMsg:
		rm.summary = &msg
		return rm, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		rm.spin, cmd = rm.spin.Update(msg)

		return rm, cmd
	}

	return rm, nil
}

func (rm runModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mutagen") + "\n")

	if rm.bin != "" {
		b.WriteString(faintStyle.Render("test executable at "+rm.bin) + "\n")
	}

	if rm.baseline != "" {
		b.WriteString(faintStyle.Render("baseline: "+rm.baseline) + "\n")
	}

	if rm.total > 0 {
		b.WriteString(rm.bar.ViewAs(float64(rm.done)/float64(rm.total)) + "\n")
	}

	if rm.summary == nil {
		b.WriteString(fmt.Sprintf("%s running mutation %d of %d\n", rm.spin.View(), rm.done+1, rm.total))
	}

	for _, line := range rm.recent {
		b.WriteString(line + "\n")
	}

	if rm.summary != nil {
		b.WriteString(renderSummaryView(*rm.summary))
	}

	return b.String()
}

func formatVerdictLine(report m.Report) string {
	verdict := caughtStyle.Render(report.Verdict.String())
	if report.Verdict == m.Survived {
		verdict = survivedStyle.Render(report.Verdict.String())
	}

	return fmt.Sprintf("%s %s (%d) ... %s",
		report.Mutation.Description, report.Mutation.Span, report.Mutation.ID, verdict)
}

func renderSummaryView(msg summaryMsg) string {
	var b strings.Builder

	status := caughtStyle.Render("ok")
	if !msg.summary.Ok() {
		status = survivedStyle.Render("FAILED")
	}

	b.WriteString(fmt.Sprintf("\nMutation results: %s. %d caught by existing tests; %d were undetected\n",
		status, msg.summary.Caught, msg.summary.Survived()))

	for _, report := range msg.survivors {
		b.WriteString(fmt.Sprintf("  %s %s (%d)\n",
			report.Mutation.Description, report.Mutation.Span, report.Mutation.ID))
	}

	b.WriteString(fmt.Sprintf("Mutation score: %.1f%%\n", msg.summary.Score()*100))

	return b.String()
}
