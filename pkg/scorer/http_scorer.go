package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HTTPScorer struct {
	BaseURL string
	Client  *http.Client
}

// Ensure HTTPScorer implements Scorer
var _ Scorer = &HTTPScorer{}

func NewHTTPScorer(baseURL string, timeout time.Duration) *HTTPScorer {
	return &HTTPScorer{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPScorer) Score(ctx context.Context, features Features) (json.RawMessage, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal features: %w", err)
	}

	url := fmt.Sprintf("%s/score", s.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create scorer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scorer request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read scorer response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	// The verdict is republished as-is inside our own JSON events, so it
	// must at least be valid JSON.
	if !json.Valid(respBody) {
		return nil, fmt.Errorf("scorer returned invalid JSON body")
	}

	return json.RawMessage(respBody), nil
}
