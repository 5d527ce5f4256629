package models

import (
	"time"

	"github.com/google/uuid"
)

// CampaignPledge is a single backer contribution to a campaign.
type CampaignPledge struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID  uuid.UUID `gorm:"column:campaign_id;type:uuid;not null;index"`
	BackerID    uuid.UUID `gorm:"column:backer_id;type:uuid;not null;index"`
	AmountCents int       `gorm:"column:amount_cents;not null"`
	RewardTier  *string   `gorm:"column:reward_tier"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
