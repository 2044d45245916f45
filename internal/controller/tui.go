package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	frozenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	notFrozenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	pathStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	faintStyle     = lipgloss.NewStyle().Faint(true)
)

// TUI buffers styled output and pages it with Bubble Tea when it does not
// fit on the terminal.
type TUI struct {
	output io.Writer
	lines  []string
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI.
func (t *TUI) Start(ctx context.Context) error {
	t.lines = t.lines[:0]
	return ctx.Err()
}

// DisplayFileReport buffers the styled outcome of one file.
func (t *TUI) DisplayFileReport(ctx context.Context, report m.FileReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	switch report.Status() {
	case m.StatusFrozen:
		t.add(frozenStyle.Render("✓ ") + titleStyle.Render(string(report.Path)) + faintStyle.Render(" deeply frozen"))
	case m.StatusError:
		t.add(errorStyle.Render("! ") + titleStyle.Render(string(report.Path)))
		t.add("  " + errorStyle.Render(report.Error))
	case m.StatusNotFrozen:
		t.add(notFrozenStyle.Render("✗ ") + titleStyle.Render(string(report.Path)) +
			faintStyle.Render(fmt.Sprintf(" %d violation(s)", len(report.Violations))))

		for _, v := range report.Violations {
			t.add("  " + pathStyle.Render(v.Path))

			for _, line := range strings.Split(v.Value, "\n") {
				t.add("      " + line)
			}
		}
	}
}

// DisplaySummary buffers the totals of a batch.
func (t *TUI) DisplaySummary(ctx context.Context, summary m.Summary) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.add("")
	t.add(titleStyle.Render("Summary: ") + fmt.Sprintf("%d file(s), ", summary.Files) +
		frozenStyle.Render(fmt.Sprintf("%d frozen", summary.Frozen)) + ", " +
		notFrozenStyle.Render(fmt.Sprintf("%d not frozen", summary.NotFrozen)) + ", " +
		errorStyle.Render(fmt.Sprintf("%d error(s)", summary.Errors)))
}

// DisplayMessage buffers an informational line.
func (t *TUI) DisplayMessage(ctx context.Context, format string, args ...any) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.add(faintStyle.Render(fmt.Sprintf(format, args...)))
}

// Close prints the buffered output, or opens a pager for long output.
func (t *TUI) Close(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content := strings.Join(t.lines, "\n")
	t.lines = nil

	width, height := t.terminalSize()
	if height == 0 || strings.Count(content, "\n")+1 <= height-1 {
		_, err := fmt.Fprintln(t.output, content)
		return err
	}

	program := tea.NewProgram(newPagerModel(content, width, height),
		tea.WithOutput(t.output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(t.output, content)

	return err
}

func (t *TUI) add(line string) {
	t.lines = append(t.lines, line)
}

func (t *TUI) terminalSize() (int, int) {
	f, ok := t.output.(*os.File)
	if !ok {
		return 0, 0
	}

	width, height, err := term.GetSize(f.Fd())
	if err != nil {
		return 0, 0
	}

	return width, height
}

// pagerModel is the Bubble Tea model scrolling a long report.
type pagerModel struct {
	viewport viewport.Model
}

func newPagerModel(content string, width, height int) pagerModel {
	vp := viewport.New(width, height-1)
	vp.SetContent(content)

	return pagerModel{viewport: vp}
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.viewport.Width = msg.Width
		pm.viewport.Height = msg.Height - 1

		return pm, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return pm, tea.Quit
		}
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	footer := faintStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll • q quit", pm.viewport.ScrollPercent()*100))
	return pm.viewport.View() + "\n" + footer
}
