// Package reportstore persists the latest analytics report artifact.
package reportstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/craftwatch/craftwatch/internal/model"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755
)

// Store writes the latest report to a well-known location. The artifact is
// replaced wholesale on each successful run and left untouched otherwise,
// which the tmp-write/fsync/rename sequence guarantees.
type Store struct {
	path string
}

// NewStore creates a report store writing to path.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("reportstore: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, fmt.Errorf("reportstore: mkdir: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the latest-report location.
func (s *Store) Path() string {
	return s.path
}

// Write atomically replaces the latest report artifact.
func (s *Store) Write(report *model.Report) error {
	if report == nil {
		return errors.New("reportstore: nil report")
	}
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("reportstore: marshal report: %w", err)
	}
	payload = append(payload, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, defaultFileMode); err != nil {
		return fmt.Errorf("reportstore: write tmp: %w", err)
	}

	f, err := os.OpenFile(tmp, os.O_RDWR, defaultFileMode)
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("reportstore: open tmp: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("reportstore: sync tmp: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("reportstore: close tmp: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("reportstore: rename: %w", err)
	}
	return nil
}

// Read loads the latest report artifact. A missing artifact returns nil
// without error.
func (s *Store) Read() (*model.Report, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reportstore: read: %w", err)
	}
	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("reportstore: parse: %w", err)
	}
	return &report, nil
}
