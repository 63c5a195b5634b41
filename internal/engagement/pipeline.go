package engagement

import (
	"context"
	"encoding/json"
	"time"

	"pulse-chat-be/internal/pkg/logger"
	"pulse-chat-be/pkg/scorer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// TopicCycles carries completed scoring cycles from the forward goroutine
// back into the room-broadcast path.
const TopicCycles = "engagement_cycles"

// CycleResult is the outcome of one drain-compute-forward pass.
type CycleResult struct {
	RoomId   string          `json:"room_id"`
	Features scorer.Features `json:"features"`
	Verdict  json.RawMessage `json:"verdict,omitempty"`
	Failed   bool            `json:"failed"`
	At       time.Time       `json:"at"`
}

// Pipeline runs aggregation cycles. Each cycle drains the room buffer
// synchronously (bounding memory before any network I/O) and forwards the
// aggregate to the scorer from a goroutine, so the triggering connection
// handler never blocks on the call. A failed forward loses that cycle's
// samples; the next batch starts fresh.
type Pipeline struct {
	buffers   *BufferManager
	scorer    scorer.Scorer
	publisher message.Publisher
	timeout   time.Duration
	logger    logger.ILogger
}

func NewPipeline(
	buffers *BufferManager,
	sc scorer.Scorer,
	publisher message.Publisher,
	timeout time.Duration,
	log logger.ILogger,
) *Pipeline {
	return &Pipeline{
		buffers:   buffers,
		scorer:    sc,
		publisher: publisher,
		timeout:   timeout,
		logger:    log,
	}
}

// Process runs one cycle for the room. Zero buffered samples is a no-op:
// no scorer call, no published result.
func (p *Pipeline) Process(roomId string) {
	drained := p.buffers.DrainAll(roomId)
	features := Aggregate(drained)
	if features.SampleCount == 0 {
		return
	}

	go p.forward(roomId, features)
}

func (p *Pipeline) forward(roomId string, features scorer.Features) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	result := CycleResult{
		RoomId:   roomId,
		Features: features,
		At:       time.Now(),
	}

	verdict, err := p.scorer.Score(ctx, features)
	if err != nil {
		p.logger.Warn("EngagementPipeline", "Scorer call failed", map[string]interface{}{
			"room_id":      roomId,
			"sample_count": features.SampleCount,
			"error":        err.Error(),
		})
		result.Failed = true
	} else {
		result.Verdict = verdict
	}

	payload, err := json.Marshal(result)
	if err != nil {
		p.logger.Error("EngagementPipeline", "Failed to marshal cycle result", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.publisher.Publish(TopicCycles, msg); err != nil {
		p.logger.Error("EngagementPipeline", "Failed to publish cycle result", map[string]interface{}{
			"room_id": roomId,
			"error":   err.Error(),
		})
	}
}
