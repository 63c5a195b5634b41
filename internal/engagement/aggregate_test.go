package engagement

import (
	"testing"

	"pulse-chat-be/pkg/scorer"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	t.Run("means over all connections pooled", func(t *testing.T) {
		drained := map[string][]BehaviorSample{
			"conn-a": {
				{PauseMs: 100, ScrollDepth: 40, TypingSpeed: 200, ResponseMs: 800},
				{PauseMs: 200, ScrollDepth: 60, TypingSpeed: 220, ResponseMs: 1000},
			},
			"conn-b": {
				{PauseMs: 300, ScrollDepth: 80, TypingSpeed: 240, ResponseMs: 1200},
			},
		}

		features := Aggregate(drained)
		assert.Equal(t, scorer.Features{
			AvgPauseMs:     200,
			AvgScrollDepth: 60,
			AvgTypingSpeed: 220,
			AvgResponseMs:  1000,
			SampleCount:    3,
		}, features)
	})

	t.Run("rounds to nearest integer", func(t *testing.T) {
		drained := map[string][]BehaviorSample{
			"conn": {{PauseMs: 1}, {PauseMs: 2}},
		}
		assert.Equal(t, 2, Aggregate(drained).AvgPauseMs)
	})

	t.Run("empty input yields zero features", func(t *testing.T) {
		assert.Equal(t, scorer.Features{}, Aggregate(map[string][]BehaviorSample{}))
		assert.Equal(t, scorer.Features{}, Aggregate(nil))
	})
}
