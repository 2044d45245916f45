package domain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

// Freeze deep freezes the graph of args.Input, writes it to args.Output
// (defaulting to the input file), then loads the written file back and
// checks it.
func (w *workflow) Freeze(ctx context.Context, args FreezeArgs) error {
	output := args.Output
	if output == "" {
		output = args.Input
	}

	graph, err := w.Load(args.Input)
	if err != nil {
		slog.Error("Failed to load snapshot", "path", args.Input, "error", err)
		return fmt.Errorf("load snapshot: %w", err)
	}

	before, err := w.Encode(output, graph)
	if err != nil {
		return err
	}

	DeepFreeze(graph.Root)

	after, err := w.Encode(output, graph)
	if err != nil {
		return err
	}

	if err := w.Save(output, graph); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	written, err := w.Load(output)
	if err != nil {
		slog.Error("Failed to reload frozen snapshot", "path", output, "error", err)
		return fmt.Errorf("reload snapshot: %w", err)
	}

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}

	if args.Diff {
		diff, err := unifiedDiff(args.Input, output, before, after)
		if err != nil {
			return fmt.Errorf("diff snapshot: %w", err)
		}

		w.DisplayMessage(ctx, "%s", diff)
	}

	result := checkerFor(args.SealedBuffers).Check(written.Root)
	w.DisplayFileReport(ctx, m.NewFileReport(output, result))

	if err := w.Close(ctx); err != nil {
		return fmt.Errorf("close ui: %w", err)
	}

	if result.NotDeeplyFrozen() {
		return fmt.Errorf("%s: %w", output, ErrNotDeeplyFrozen)
	}

	return nil
}

func unifiedDiff(from, to m.Path, before, after []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: string(from),
		ToFile:   string(to),
		Context:  2,
	})
}
