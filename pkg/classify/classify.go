// Package classify labels harvested images with a pluggable annotator and
// persists the results as per-term JSON record files.
package classify

import (
	"context"

	"imageharvest/pkg/logger"
)

// Label is a single annotation for an image
type Label struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// Annotator produces labels for an image addressed by URI. Implementations
// wrap whichever vision backend is available.
type Annotator interface {
	Labels(ctx context.Context, imageURI string) ([]Label, error)
}

// TermResults maps image URIs to their label scores for one search term
type TermResults map[string]map[string]float64

// ClassifyBatch annotates every URI and returns the scores keyed by URI.
// A URI whose annotation fails is logged and omitted, never fatal.
func ClassifyBatch(ctx context.Context, ann Annotator, uris []string, log logger.Logger) TermResults {
	if log == nil {
		log = logger.GetLogger()
	}

	results := make(TermResults)
	for _, uri := range uris {
		labels, err := ann.Labels(ctx, uri)
		if err != nil {
			log.WithError(err).WarnWithFields("annotation failed", map[string]interface{}{
				"uri": uri,
			})
			continue
		}

		scores := make(map[string]float64, len(labels))
		for _, l := range labels {
			scores[l.Description] = l.Score
		}
		results[uri] = scores
	}

	return results
}
