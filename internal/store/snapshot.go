package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// writeSnapshotJS regenerates the static build-time snapshot (data.js).
//
// The public page loads this file when the API is unreachable; it exposes
// window.officialData with the same shape the API serves.
func (s *Store) writeSnapshotJS() error {
	if s.snapshotPath == "" {
		return nil
	}

	snap := s.Snapshot()
	payload := map[string]any{
		"profile":  snap.Profile,
		"songs":    snap.Songs,
		"genres":   snap.Genres,
		"settings": snap.Settings,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("// Generated file, refreshed after every data write.\n")
	buf.WriteString("window.officialData = ")
	buf.Write(data)
	buf.WriteString(";\n")

	tmp, err := os.CreateTemp(filepath.Dir(s.snapshotPath), "data.js.tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot temp file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.snapshotPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// ParseSnapshotJS extracts the embedded snapshot payload from a data.js file.
//
// Used by display clients as the second source in the load precedence chain.
func ParseSnapshotJS(data []byte) (map[string]json.RawMessage, error) {
	start := bytes.IndexByte(data, '{')
	end := bytes.LastIndexByte(data, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("no snapshot object found")
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data[start:end+1], &payload); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return payload, nil
}
