package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"frostcheck.dev/pkg/frostcheck/internal/adapter"
	"frostcheck.dev/pkg/frostcheck/internal/controller"
	m "frostcheck.dev/pkg/frostcheck/internal/model"
	"frostcheck.dev/pkg/frostcheck/pkg"
)

// ErrSnapshotFailed is returned when at least one snapshot could not be checked.
var ErrSnapshotFailed = errors.New("snapshot could not be checked")

// CheckArgs contains the arguments for checking snapshot files.
type CheckArgs struct {
	Paths         []m.Path
	Exclude       []string
	Threads       int
	SealedBuffers bool
	Reports       m.Path
	SaveReports   bool
	SpillDir      string
}

// FreezeArgs contains the arguments for deep freezing a snapshot file.
type FreezeArgs struct {
	Input         m.Path
	Output        m.Path
	Diff          bool
	SealedBuffers bool
}

// Workflow runs the frostcheck commands.
type Workflow interface {
	Check(ctx context.Context, args CheckArgs) error
	Freeze(ctx context.Context, args FreezeArgs) error
	View(ctx context.Context, args ViewArgs) error
	List(ctx context.Context, args ListArgs) error
}

type workflow struct {
	adapter.SnapshotFSAdapter
	adapter.SnapshotStore
	adapter.ReportStore
	controller.UI
}

// NewWorkflow creates a Workflow with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SnapshotFSAdapter,
	snapshotStore adapter.SnapshotStore,
	reportStore adapter.ReportStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		SnapshotFSAdapter: fsAdapter,
		SnapshotStore:     snapshotStore,
		ReportStore:       reportStore,
		UI:                ui,
	}
}

func checkerFor(sealedBuffers bool) *Checker {
	if sealedBuffers {
		return NewChecker(WithSealedBuffers())
	}

	return NewChecker()
}

// Check checks every snapshot file matched by args.Paths in parallel and
// displays the reports in input order.
func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	paths, err := w.expandPaths(args.Paths, args.Exclude)
	if err != nil {
		slog.Error("Failed to collect snapshot files", "error", err)
		return fmt.Errorf("collect snapshots: %w", err)
	}

	reports, err := pkg.NewFileSpill[m.FileReport](args.SpillDir)
	if err != nil {
		return fmt.Errorf("create report spill: %w", err)
	}

	defer func() {
		if err := reports.Close(); err != nil {
			slog.Warn("Failed to close report spill", "error", err)
		}
	}()

	if err := w.checkAll(ctx, checkerFor(args.SealedBuffers), paths, args.Threads, reports); err != nil {
		slog.Error("Failed to check snapshots", "error", err)
		return fmt.Errorf("check snapshots: %w", err)
	}

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}

	var summary m.Summary

	err = reports.Range(func(_ uint64, report m.FileReport) error {
		summary.Add(report)
		w.DisplayFileReport(ctx, report)

		return nil
	})
	if err != nil {
		return fmt.Errorf("read reports: %w", err)
	}

	w.DisplaySummary(ctx, summary)

	if args.SaveReports {
		path, err := w.SaveReports(args.Reports, reports)
		if err != nil {
			return fmt.Errorf("save reports: %w", err)
		}

		w.DisplayMessage(ctx, "Reports written to %s", path)
	}

	if err := w.Close(ctx); err != nil {
		return fmt.Errorf("close ui: %w", err)
	}

	switch {
	case summary.NotFrozen > 0:
		return fmt.Errorf("%d of %d snapshot(s): %w", summary.NotFrozen, summary.Files, ErrNotDeeplyFrozen)
	case summary.Errors > 0:
		return fmt.Errorf("%d of %d snapshot(s): %w", summary.Errors, summary.Files, ErrSnapshotFailed)
	}

	return nil
}

type indexedReport struct {
	index  int
	report m.FileReport
}

// checkAll checks paths with at most threads workers. Reports arrive in
// completion order and are appended to out in input order.
func (w *workflow) checkAll(ctx context.Context, checker *Checker, paths []m.Path, threads int, out pkg.FileSpill[m.FileReport]) error {
	if threads < 1 {
		threads = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	results := make(chan indexedReport, threads)

	var waitErr error

	go func() {
		defer close(results)

		for i, path := range paths {
			if gctx.Err() != nil {
				break
			}

			g.Go(func() error {
				report := w.checkFile(checker, path)

				select {
				case results <- indexedReport{index: i, report: report}:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}

		waitErr = g.Wait()
	}()

	pending := make(map[int]m.FileReport)
	next := 0

	var appendErr error

	for res := range results {
		if appendErr != nil {
			continue
		}

		pending[res.index] = res.report

		var ready []m.FileReport

		for {
			report, ok := pending[next]
			if !ok {
				break
			}

			delete(pending, next)
			next++

			ready = append(ready, report)
		}

		if len(ready) == 0 {
			continue
		}

		if err := out.AppendBatch(ready); err != nil {
			appendErr = err
		}
	}

	if appendErr != nil {
		return appendErr
	}

	if waitErr != nil {
		return waitErr
	}

	return ctx.Err()
}

func (w *workflow) checkFile(checker *Checker, path m.Path) m.FileReport {
	graph, err := w.Load(path)
	if err != nil {
		slog.Warn("Failed to load snapshot", "path", path, "error", err)
		return m.FileReport{Path: path, Error: err.Error()}
	}

	result := checker.Check(graph.Root)
	slog.Debug("Checked snapshot", "path", path, "notDeeplyFrozen", result.NotDeeplyFrozen(), "violations", len(result.Violations()))

	return m.NewFileReport(path, result)
}

// expandPaths resolves Go-style path patterns into snapshot files:
// "dir/..." walks recursively, "dir" lists the directory, and files are
// taken as given. Files matching any exclude regex are dropped.
func (w *workflow) expandPaths(paths []m.Path, exclude []string) ([]m.Path, error) {
	patterns := make([]*regexp.Regexp, 0, len(exclude))

	for _, expr := range exclude {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}

		patterns = append(patterns, re)
	}

	if len(paths) == 0 {
		paths = []m.Path{"./..."}
	}

	seen := make(map[m.Path]bool)

	var files []m.Path

	addFile := func(path m.Path) {
		if seen[path] || excluded(string(path), patterns) {
			return
		}

		seen[path] = true
		files = append(files, path)
	}

	for _, p := range paths {
		root := string(p)
		recursive := false

		if trimmed, ok := strings.CutSuffix(root, "..."); ok {
			recursive = true
			root = strings.TrimSuffix(trimmed, "/")

			if root == "" {
				root = "."
			}
		}

		info, err := w.FileInfo(m.Path(root))
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", root, err)
		}

		if !info.IsDir() {
			addFile(m.Path(root))
			continue
		}

		err = w.Walk(m.Path(root), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.IsDir() && adapter.IsSnapshotFile(path) {
				addFile(m.Path(path))
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	return files, nil
}

func excluded(path string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
