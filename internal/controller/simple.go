package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

// SimpleUI implements UI using the cobra command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) error {
	return ctx.Err()
}

// DisplayFileReport prints the outcome of one file, with a violation table
// when the graph is not deeply frozen.
func (s *SimpleUI) DisplayFileReport(ctx context.Context, report m.FileReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s: %s\n", report.Path, report.Status())

	switch report.Status() {
	case m.StatusError:
		s.printf("  %s\n", report.Error)
	case m.StatusNotFrozen:
		s.printf("%s\n", renderViolationTable(report.Violations))
	case m.StatusFrozen:
	}
}

// DisplaySummary prints the totals of a batch.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Files: %d | Frozen: %d | Not frozen: %d | Errors: %d\n",
		summary.Files, summary.Frozen, summary.NotFrozen, summary.Errors)
}

// DisplayMessage prints an informational line.
func (s *SimpleUI) DisplayMessage(ctx context.Context, format string, args ...any) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf(format+"\n", args...)
}

func renderViolationTable(violations []m.ViolationRecord) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Property", "Value"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, v := range violations {
		table.Append([]string{v.Path, v.Value})
	}

	table.SetFooter([]string{fmt.Sprintf("Violations %d", len(violations)), ""})
	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
