package classify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// recordTimeLayout stamps record filenames down to the minute
const recordTimeLayout = "2006_01_02_15_04"

// WriteRecords persists results for a term into dir, merging with any
// results already present in the file for the same term and minute.
//
// The merge is read-modify-rewrite without a lock. Two writers hitting the
// same file in the same minute can lose each other's updates. Runs are
// single-process so this stays acceptable.
func WriteRecords(dir, term string, results TermResults, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create records directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("classifications_%s_%s.json", term, now.Format(recordTimeLayout)))

	existing := make(TermResults)
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &existing); err != nil {
			return "", fmt.Errorf("existing records file %s is not valid JSON: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read existing records: %w", err)
	}

	for uri, scores := range results {
		existing[uri] = scores
	}

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write records file: %w", err)
	}

	return path, nil
}
