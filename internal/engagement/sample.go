package engagement

// BehaviorSample is the canonical shape of one client-reported
// interaction measurement. Clients are loose about field names, so
// everything is normalized into this struct at the ingestion boundary
// and never re-interpreted downstream.
type BehaviorSample struct {
	PauseMs     float64
	ScrollDepth float64
	TypingSpeed float64
	ResponseMs  float64
}

// Accepted alias field names per canonical field. Absent fields read as zero.
var sampleFieldAliases = map[string][]string{
	"pause":    {"pause_duration_ms", "pause_ms"},
	"scroll":   {"scroll_depth_pct", "scroll_depth"},
	"typing":   {"typing_speed", "typing_speed_chars_per_min"},
	"response": {"response_time_ms", "response_latency_ms"},
}

// NormalizeSamples converts a raw, loosely-typed client batch into
// canonical samples. Non-numeric values are treated as absent.
func NormalizeSamples(raw []map[string]interface{}) []BehaviorSample {
	samples := make([]BehaviorSample, 0, len(raw))
	for _, entry := range raw {
		if entry == nil {
			continue
		}
		samples = append(samples, BehaviorSample{
			PauseMs:     numberField(entry, sampleFieldAliases["pause"]),
			ScrollDepth: numberField(entry, sampleFieldAliases["scroll"]),
			TypingSpeed: numberField(entry, sampleFieldAliases["typing"]),
			ResponseMs:  numberField(entry, sampleFieldAliases["response"]),
		})
	}
	return samples
}

func numberField(entry map[string]interface{}, keys []string) float64 {
	for _, key := range keys {
		v, ok := entry[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return 0
}
