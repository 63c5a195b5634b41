package contract

import (
	"context"

	"pulse-chat-be/internal/model"
)

type EngagementReportRepository interface {
	Create(ctx context.Context, report *model.EngagementReport) error
	// FindByRoom returns the most recent reports for the room, newest first.
	FindByRoom(ctx context.Context, roomId string, limit int) ([]*model.EngagementReport, error)
}
