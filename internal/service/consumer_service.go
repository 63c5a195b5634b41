package service

import (
	"context"
	"encoding/json"
	"time"

	"pulse-chat-be/internal/engagement"
	"pulse-chat-be/internal/model"
	"pulse-chat-be/internal/pkg/logger"
	"pulse-chat-be/internal/realtime"
	"pulse-chat-be/internal/repository/contract"
	"pulse-chat-be/pkg/events"
	pktNats "pulse-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RoomDelivery defines how to push realtime updates into a room.
// Implemented by the websocket hub.
type RoomDelivery interface {
	BroadcastRoom(roomId string, event string, data interface{})
}

// IConsumerService completes the fire-and-forget half of an aggregation
// cycle: it receives cycle results from the in-process bus and turns them
// into room broadcasts, stored reports, and downstream events.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	reports    contract.EngagementReportRepository
	delivery   RoomDelivery
	natsPub    *pktNats.Publisher
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	reports contract.EngagementReportRepository,
	delivery RoomDelivery,
	natsPub *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		reports:    reports,
		delivery:   delivery,
		natsPub:    natsPub,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, engagement.TopicCycles)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var result engagement.CycleResult
	if err := json.Unmarshal(msg.Payload, &result); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal cycle result", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if result.Failed {
		// Failed cycles are not retried; their samples are gone.
		cs.delivery.BroadcastRoom(result.RoomId, realtime.EventMLError, map[string]interface{}{
			"room_id": result.RoomId,
			"message": "engagement analysis failed",
		})
		msg.Ack()
		return
	}

	report := &model.EngagementReport{
		Id:             uuid.New(),
		RoomId:         result.RoomId,
		AvgPauseMs:     result.Features.AvgPauseMs,
		AvgScrollDepth: result.Features.AvgScrollDepth,
		AvgTypingSpeed: result.Features.AvgTypingSpeed,
		AvgResponseMs:  result.Features.AvgResponseMs,
		SampleCount:    result.Features.SampleCount,
		Verdict:        datatypes.JSON(result.Verdict),
		CreatedAt:      result.At,
	}
	if err := cs.reports.Create(ctx, report); err != nil {
		// Report storage is best-effort; the broadcast still goes out.
		cs.logger.Error("ConsumerService", "Failed to store engagement report", map[string]interface{}{
			"room_id": result.RoomId,
			"error":   err.Error(),
		})
	}

	cs.delivery.BroadcastRoom(result.RoomId, realtime.EventMLAnalysis, map[string]interface{}{
		"room_id":  result.RoomId,
		"features": result.Features,
		"result":   result.Verdict,
		"ts":       result.At,
	})

	if cs.natsPub != nil {
		evt := events.BaseEvent{
			Type: "ENGAGEMENT_SCORED",
			Data: map[string]interface{}{
				"room_id":      result.RoomId,
				"sample_count": result.Features.SampleCount,
				"verdict":      json.RawMessage(result.Verdict),
			},
			OccurredAt: time.Now(),
		}
		if err := cs.natsPub.Publish(ctx, evt); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to publish engagement event", map[string]interface{}{"error": err.Error()})
		}
	}

	msg.Ack()
}
