package domain

import (
	"context"
	"fmt"
	"log/slog"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

// ViewArgs contains the arguments for viewing saved reports.
type ViewArgs struct {
	Reports m.Path
}

// ListArgs contains the arguments for listing snapshot files.
type ListArgs struct {
	Paths   []m.Path
	Exclude []string
}

// View displays the reports saved by a previous check.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	reports, err := w.LoadReports(args.Reports)
	if err != nil {
		slog.Error("Failed to load reports", "path", args.Reports, "error", err)
		return fmt.Errorf("load reports: %w", err)
	}

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}

	var summary m.Summary

	for _, report := range reports {
		summary.Add(report)
		w.DisplayFileReport(ctx, report)
	}

	w.DisplaySummary(ctx, summary)

	return w.Close(ctx)
}

// List prints the snapshot files matched by args.Paths with the number of
// heap values each one holds.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	paths, err := w.expandPaths(args.Paths, args.Exclude)
	if err != nil {
		return fmt.Errorf("collect snapshots: %w", err)
	}

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}

	total := 0

	for _, path := range paths {
		graph, err := w.Load(path)
		if err != nil {
			w.DisplayMessage(ctx, "%s: %v", path, err)
			continue
		}

		total += len(graph.IDs)
		w.DisplayMessage(ctx, "%s: %d values", path, len(graph.IDs))
	}

	w.DisplayMessage(ctx, "Files: %d | Values: %d", len(paths), total)

	return w.Close(ctx)
}
