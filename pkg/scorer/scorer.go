package scorer

import (
	"context"
	"encoding/json"
)

// Features is the flat aggregate sent to the inference service. Field
// names are the wire contract; the scorer owns the response schema.
type Features struct {
	AvgPauseMs     int `json:"avg_pause_duration_ms"`
	AvgScrollDepth int `json:"avg_scroll_depth_pct"`
	AvgTypingSpeed int `json:"avg_typing_speed"`
	AvgResponseMs  int `json:"avg_response_time_ms"`
	SampleCount    int `json:"sample_count"`
}

// Scorer converts aggregate behavioral features into an engagement
// verdict. The verdict payload is opaque to the caller.
type Scorer interface {
	Score(ctx context.Context, features Features) (json.RawMessage, error)
}
