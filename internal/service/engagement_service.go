package service

import (
	"context"

	"pulse-chat-be/internal/model"
	"pulse-chat-be/internal/repository/contract"
)

// DefaultReportLimit caps engagement report reads.
const DefaultReportLimit = 50

type IEngagementService interface {
	Reports(ctx context.Context, roomId string, limit int) ([]*model.EngagementReport, error)
}

type engagementService struct {
	reports contract.EngagementReportRepository
}

func NewEngagementService(reports contract.EngagementReportRepository) IEngagementService {
	return &engagementService{reports: reports}
}

func (s *engagementService) Reports(ctx context.Context, roomId string, limit int) ([]*model.EngagementReport, error) {
	if limit <= 0 || limit > DefaultReportLimit {
		limit = DefaultReportLimit
	}
	return s.reports.FindByRoom(ctx, roomId, limit)
}
