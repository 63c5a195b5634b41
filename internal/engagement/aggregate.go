package engagement

import (
	"math"

	"pulse-chat-be/pkg/scorer"
)

// Aggregate computes the arithmetic mean of each field over the
// concatenation of all connections' samples, rounded to the nearest
// integer. SampleCount is the total number of samples, not connections.
func Aggregate(drained map[string][]BehaviorSample) scorer.Features {
	var (
		count    int
		pause    float64
		scroll   float64
		typing   float64
		response float64
	)

	for _, window := range drained {
		for _, s := range window {
			pause += s.PauseMs
			scroll += s.ScrollDepth
			typing += s.TypingSpeed
			response += s.ResponseMs
			count++
		}
	}

	if count == 0 {
		return scorer.Features{}
	}

	n := float64(count)
	return scorer.Features{
		AvgPauseMs:     int(math.Round(pause / n)),
		AvgScrollDepth: int(math.Round(scroll / n)),
		AvgTypingSpeed: int(math.Round(typing / n)),
		AvgResponseMs:  int(math.Round(response / n)),
		SampleCount:    count,
	}
}
