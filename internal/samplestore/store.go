package samplestore

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/craftwatch/craftwatch/internal/model"
)

// Store reads the per-category JSONL sample streams written by the external
// collector. The collector may still be appending while we read, so a torn or
// otherwise malformed line is skipped, never fatal.
type Store struct {
	dir string
}

// NewStore creates a reader rooted at dir. The directory does not need to
// exist yet; missing streams read as empty series.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("samplestore: data directory is empty")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory this store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// ReadWindow returns all valid samples for category whose timestamp falls in
// [now - hours*3600, now], sorted by timestamp ascending, along with the
// number of lines skipped because they failed to parse.
func (s *Store) ReadWindow(category model.Category, hours int, now int64) ([]model.MetricSample, int, error) {
	if hours <= 0 {
		return nil, 0, fmt.Errorf("samplestore: non-positive window %d", hours)
	}

	path := filepath.Join(s.dir, string(category)+".jsonl")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("samplestore: open %s: %w", path, err)
	}
	defer f.Close()

	cutoff := now - int64(hours)*3600
	var samples []model.MetricSample
	skipped := 0

	reader := bufio.NewReader(f)
	for {
		line, rerr := reader.ReadBytes('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return nil, skipped, fmt.Errorf("samplestore: read %s: %w", path, rerr)
		}
		trimmed := strings.TrimSpace(string(line))
		if trimmed != "" {
			var sample model.MetricSample
			if uerr := json.Unmarshal([]byte(trimmed), &sample); uerr != nil {
				// Likely a line the collector is still writing.
				skipped++
			} else if sample.Timestamp >= cutoff && sample.Timestamp <= now {
				samples = append(samples, sample)
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
	}

	// The collector timestamps monotonically, but tolerate out-of-order
	// arrival anyway.
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp < samples[j].Timestamp
	})

	return samples, skipped, nil
}
