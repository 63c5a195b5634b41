package implementation

import (
	"context"

	"pulse-chat-be/internal/model"
	"pulse-chat-be/internal/repository/contract"

	"gorm.io/gorm"
)

type EngagementReportRepositoryImpl struct {
	db *gorm.DB
}

func NewEngagementReportRepository(db *gorm.DB) contract.EngagementReportRepository {
	return &EngagementReportRepositoryImpl{db: db}
}

func (r *EngagementReportRepositoryImpl) Create(ctx context.Context, report *model.EngagementReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *EngagementReportRepositoryImpl) FindByRoom(ctx context.Context, roomId string, limit int) ([]*model.EngagementReport, error) {
	var models []*model.EngagementReport
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomId).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return models, nil
}
