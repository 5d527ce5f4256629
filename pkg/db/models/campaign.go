package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
)

// Campaign is a crowdfunding drive for a project (album, video, tour).
// PledgedCents and BackerCount are maintained atomically alongside pledge rows.
type Campaign struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID    uuid.UUID            `gorm:"column:creator_id;type:uuid;not null;index"`
	Title        string               `gorm:"column:title;not null"`
	Description  string               `gorm:"column:description;not null"`
	GoalCents    int                  `gorm:"column:goal_cents;not null"`
	PledgedCents int                  `gorm:"column:pledged_cents;not null;default:0"`
	BackerCount  int                  `gorm:"column:backer_count;not null;default:0"`
	Status       enums.CampaignStatus `gorm:"column:status;type:campaign_status;not null;default:'draft'"`
	Deadline     time.Time            `gorm:"column:deadline;not null"`

	Pledges []CampaignPledge `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
