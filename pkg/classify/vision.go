package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultVisionEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// VisionAnnotator implements Annotator against the Vision REST API using
// an API key.
type VisionAnnotator struct {
	endpoint   string
	apiKey     string
	maxResults int
	client     *http.Client
}

// NewVisionAnnotator creates an annotator authenticating with the given key
func NewVisionAnnotator(apiKey string) *VisionAnnotator {
	return &VisionAnnotator{
		endpoint:   defaultVisionEndpoint,
		apiKey:     apiKey,
		maxResults: 10,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type visionImageSource struct {
	ImageURI string `json:"imageUri"`
}

type visionImage struct {
	Source visionImageSource `json:"source"`
}

type visionFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type visionAnnotateRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionRequest struct {
	Requests []visionAnnotateRequest `json:"requests"`
}

type visionLabelAnnotation struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

type visionAnnotateResponse struct {
	LabelAnnotations []visionLabelAnnotation `json:"labelAnnotations"`
	Error            *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type visionResponse struct {
	Responses []visionAnnotateResponse `json:"responses"`
}

// Labels requests label detection for a single image URI
func (v *VisionAnnotator) Labels(ctx context.Context, imageURI string) ([]Label, error) {
	reqBody := visionRequest{
		Requests: []visionAnnotateRequest{{
			Image:    visionImage{Source: visionImageSource{ImageURI: imageURI}},
			Features: []visionFeature{{Type: "LABEL_DETECTION", MaxResults: v.maxResults}},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint+"?key="+v.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build annotation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("annotation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("annotation endpoint returned status %d", resp.StatusCode)
	}

	var decoded visionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode annotation response: %w", err)
	}
	if len(decoded.Responses) == 0 {
		return nil, fmt.Errorf("annotation response is empty")
	}
	if decoded.Responses[0].Error != nil {
		return nil, fmt.Errorf("annotation failed: %s", decoded.Responses[0].Error.Message)
	}

	labels := make([]Label, 0, len(decoded.Responses[0].LabelAnnotations))
	for _, ann := range decoded.Responses[0].LabelAnnotations {
		labels = append(labels, Label{Description: ann.Description, Score: ann.Score})
	}
	return labels, nil
}
