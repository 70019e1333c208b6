// Package csvio implements the tabular interchange format shared by the
// collector and the ranker. Files are UTF-8 CSV with a header row; fields
// with embedded delimiters, quotes or newlines round-trip via standard CSV
// quoting.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const timestampLayout = "20060102_150405"

// ArtifactPath builds the timestamped file name for one run, e.g.
// commits_20240131_120000.csv
func ArtifactPath(dir, prefix string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.csv", prefix, t.Format(timestampLayout)))
}

// Write writes the header and rows to path, replacing any existing file
func Write(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return file.Close()
}

// Read reads an interchange file, returning the header row and data rows
func Read(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1 // validated against the schema by the caller

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: missing header row", path)
	}
	return records[0], records[1:], nil
}

// Latest returns the most recently modified file in dir matching
// <prefix>_*.csv
func Latest(dir, prefix string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"_*.csv"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s_*.csv files found in %s", prefix, dir)
	}

	var latest string
	var latestMod time.Time
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = path
			latestMod = info.ModTime()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no readable %s_*.csv files found in %s", prefix, dir)
	}
	return latest, nil
}
