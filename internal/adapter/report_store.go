package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
	"frostcheck.dev/pkg/frostcheck/pkg"
)

// ReportFileName is the name of the report file written into the reports directory.
const ReportFileName = "frostcheck-report.yaml"

// ReportStore persists file reports as a stream of YAML documents.
type ReportStore interface {
	SaveReports(dir m.Path, reports pkg.FileSpill[m.FileReport]) (m.Path, error)
	LoadReports(dir m.Path) ([]m.FileReport, error)
}

type reportStore struct {
	fs SnapshotFSAdapter
}

// NewReportStore creates a ReportStore writing through fs.
func NewReportStore(fs SnapshotFSAdapter) ReportStore {
	return &reportStore{fs: fs}
}

func (r *reportStore) SaveReports(dir m.Path, reports pkg.FileSpill[m.FileReport]) (m.Path, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	err := reports.Range(func(_ uint64, report m.FileReport) error {
		return enc.Encode(report)
	})
	if err != nil {
		return "", fmt.Errorf("encode reports: %w", err)
	}

	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode reports: %w", err)
	}

	path := r.fs.JoinPath(string(dir), ReportFileName)
	if err := r.fs.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		slog.Error("failed to write reports", "path", path, "error", err)
		return "", fmt.Errorf("write reports: %w", err)
	}

	slog.Info("saved reports", "path", path, "count", reports.Len())

	return path, nil
}

func (r *reportStore) LoadReports(dir m.Path) ([]m.FileReport, error) {
	path := r.fs.JoinPath(string(dir), ReportFileName)

	content, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reports: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))

	var reports []m.FileReport

	for {
		var report m.FileReport

		err := dec.Decode(&report)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("decode reports: %w", err)
		}

		reports = append(reports, report)
	}

	return reports, nil
}
