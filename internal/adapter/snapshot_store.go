package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	m "frostcheck.dev/pkg/frostcheck/internal/model"
)

var (
	// ErrInvalidSnapshot is returned when a snapshot document is malformed.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrUnsupportedVersion is returned for documents newer than this tool.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

// SnapshotStore loads and saves heap graphs as snapshot documents.
type SnapshotStore interface {
	Load(path m.Path) (*m.Graph, error)
	Save(path m.Path, graph *m.Graph) error
	// Encode serialises graph in the format implied by path.
	Encode(path m.Path, graph *m.Graph) ([]byte, error)
}

type snapshotStore struct {
	fs SnapshotFSAdapter
}

// NewSnapshotStore creates a SnapshotStore reading and writing through fs.
func NewSnapshotStore(fs SnapshotFSAdapter) SnapshotStore {
	return &snapshotStore{fs: fs}
}

func (s *snapshotStore) Load(path m.Path) (*m.Graph, error) {
	content, err := s.fs.ReadFile(path)
	if err != nil {
		slog.Error("failed to read snapshot", "path", path, "error", err)
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	doc, err := DecodeDocument(path, content)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	graph, err := BuildGraph(doc)
	if err != nil {
		return nil, fmt.Errorf("build snapshot %s: %w", path, err)
	}

	slog.Debug("loaded snapshot", "path", path, "values", len(graph.IDs))

	return graph, nil
}

func (s *snapshotStore) Save(path m.Path, graph *m.Graph) error {
	content, err := s.Encode(path, graph)
	if err != nil {
		return err
	}

	if err := s.fs.WriteFile(path, content, 0o600); err != nil {
		slog.Error("failed to write snapshot", "path", path, "error", err)
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}

	return nil
}

func (s *snapshotStore) Encode(path m.Path, graph *m.Graph) ([]byte, error) {
	doc, err := ExportGraph(graph)
	if err != nil {
		return nil, fmt.Errorf("export snapshot %s: %w", path, err)
	}

	content, err := EncodeDocument(path, doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", path, err)
	}

	return content, nil
}

func isJSONPath(path m.Path) bool {
	return strings.EqualFold(filepath.Ext(string(path)), ".json")
}

// DecodeDocument parses content as JSON or YAML depending on the extension of path.
func DecodeDocument(path m.Path, content []byte) (*m.Document, error) {
	var doc m.Document

	if isJSONPath(path) {
		dec := json.NewDecoder(bytes.NewReader(content))
		dec.DisallowUnknownFields()

		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}

		return &doc, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// EncodeDocument serialises doc as JSON or YAML depending on the extension of path.
func EncodeDocument(path m.Path, doc *m.Document) ([]byte, error) {
	if isJSONPath(path) {
		return json.MarshalIndent(doc, "", "  ")
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
