// Package controller provides output adapters for displaying deep frozen check results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

// UI defines how check results reach the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context) error
	DisplayFileReport(ctx context.Context, report m.FileReport)
	DisplaySummary(ctx context.Context, summary m.Summary)
	DisplayMessage(ctx context.Context, format string, args ...any)
	// Close flushes buffered output; the TUI pages long reports here.
	Close(ctx context.Context) error
}

// NewUI returns a TUI when writing to a terminal, otherwise a SimpleUI.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
