package classify

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnnotator struct {
	labels map[string][]Label
	errs   map[string]error
}

func (a *fakeAnnotator) Labels(_ context.Context, uri string) ([]Label, error) {
	if err, ok := a.errs[uri]; ok {
		return nil, err
	}
	return a.labels[uri], nil
}

func TestClassifyBatchCollectsScoresByURI(t *testing.T) {
	ann := &fakeAnnotator{labels: map[string][]Label{
		"img://a": {{Description: "dog", Score: 0.97}, {Description: "animal", Score: 0.91}},
		"img://b": {{Description: "cat", Score: 0.88}},
	}}

	results := ClassifyBatch(context.Background(), ann, []string{"img://a", "img://b"}, nil)

	require.Len(t, results, 2)
	assert.Equal(t, 0.97, results["img://a"]["dog"])
	assert.Equal(t, 0.91, results["img://a"]["animal"])
	assert.Equal(t, 0.88, results["img://b"]["cat"])
}

func TestClassifyBatchIsolatesFailures(t *testing.T) {
	ann := &fakeAnnotator{
		labels: map[string][]Label{
			"img://good": {{Description: "tree", Score: 0.8}},
		},
		errs: map[string]error{
			"img://bad": errors.New("quota exceeded"),
		},
	}

	results := ClassifyBatch(context.Background(), ann, []string{"img://bad", "img://good"}, nil)

	require.Len(t, results, 1)
	assert.Contains(t, results, "img://good")
	assert.NotContains(t, results, "img://bad")
}

func TestWriteRecordsCreatesFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	results := TermResults{
		"img://a": {"dog": 0.97},
	}

	path, err := WriteRecords(dir, "dog", results, now)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "classifications_dog_2024_03_15_10_30.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded TermResults
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, results, decoded)
}

func TestWriteRecordsMergesIntoExistingFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	_, err := WriteRecords(dir, "dog", TermResults{
		"img://a": {"dog": 0.97},
	}, now)
	require.NoError(t, err)

	path, err := WriteRecords(dir, "dog", TermResults{
		"img://b": {"puppy": 0.92},
	}, now)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded TermResults
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 0.97, decoded["img://a"]["dog"])
	assert.Equal(t, 0.92, decoded["img://b"]["puppy"])
}

func TestWriteRecordsRejectsCorruptExistingFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	path := filepath.Join(dir, "classifications_dog_2024_03_15_10_30.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := WriteRecords(dir, "dog", TermResults{"img://a": {"dog": 1}}, now)
	require.Error(t, err)
}
