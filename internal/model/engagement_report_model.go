package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EngagementReport stores one completed scoring cycle: the aggregate
// features sent to the scorer plus the verdict it returned. The verdict
// is kept opaque (whatever JSON the scorer produced).
type EngagementReport struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoomId          string         `gorm:"type:varchar(128);not null;index:idx_engagement_reports_room_created,priority:1" json:"room_id"`
	AvgPauseMs      int            `gorm:"not null" json:"avg_pause_duration_ms"`
	AvgScrollDepth  int            `gorm:"not null" json:"avg_scroll_depth_pct"`
	AvgTypingSpeed  int            `gorm:"not null" json:"avg_typing_speed"`
	AvgResponseMs   int            `gorm:"not null" json:"avg_response_time_ms"`
	SampleCount     int            `gorm:"not null" json:"sample_count"`
	Verdict         datatypes.JSON `gorm:"type:jsonb" json:"verdict"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index:idx_engagement_reports_room_created,priority:2" json:"created_at"`
}

func (EngagementReport) TableName() string {
	return "engagement_reports"
}
