package campaigns

import (
	"time"

	"github.com/google/uuid"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
)

// CreateInput holds the validated payload to create a draft campaign.
type CreateInput struct {
	CreatorID   uuid.UUID
	Title       string
	Description string
	GoalCents   int
	Deadline    time.Time
}

// PledgeInput is a backer contribution to an active campaign.
type PledgeInput struct {
	CampaignID  uuid.UUID
	BackerID    uuid.UUID
	AmountCents int
	RewardTier  *string
}

// ListFilters narrows a campaign browse query.
type ListFilters struct {
	Status    *enums.CampaignStatus
	CreatorID *uuid.UUID
}

// ListInput carries pagination plus filters for a browse request.
type ListInput struct {
	Limit   int
	Cursor  string
	Filters ListFilters
}

// CampaignDTO is the API shape of a campaign with its funding progress.
type CampaignDTO struct {
	ID              uuid.UUID            `json:"id"`
	CreatorID       uuid.UUID            `json:"creator_id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	GoalCents       int                  `json:"goal_cents"`
	PledgedCents    int                  `json:"pledged_cents"`
	BackerCount     int                  `json:"backer_count"`
	ProgressPercent float64              `json:"progress_percent"`
	Status          enums.CampaignStatus `json:"status"`
	Deadline        time.Time            `json:"deadline"`
	CreatedAt       time.Time            `json:"created_at"`
}

// CampaignList is a cursor page of campaigns.
type CampaignList struct {
	Campaigns  []CampaignDTO `json:"campaigns"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// PledgeDTO is the API shape of a recorded pledge.
type PledgeDTO struct {
	ID          uuid.UUID `json:"id"`
	CampaignID  uuid.UUID `json:"campaign_id"`
	BackerID    uuid.UUID `json:"backer_id"`
	AmountCents int       `json:"amount_cents"`
	RewardTier  *string   `json:"reward_tier,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCampaignDTO maps a campaign row into the API shape.
func NewCampaignDTO(campaign *models.Campaign) *CampaignDTO {
	progress := 0.0
	if campaign.GoalCents > 0 {
		progress = float64(campaign.PledgedCents) / float64(campaign.GoalCents) * 100
	}
	return &CampaignDTO{
		ID:              campaign.ID,
		CreatorID:       campaign.CreatorID,
		Title:           campaign.Title,
		Description:     campaign.Description,
		GoalCents:       campaign.GoalCents,
		PledgedCents:    campaign.PledgedCents,
		BackerCount:     campaign.BackerCount,
		ProgressPercent: progress,
		Status:          campaign.Status,
		Deadline:        campaign.Deadline,
		CreatedAt:       campaign.CreatedAt,
	}
}

// NewPledgeDTO maps a pledge row into the API shape.
func NewPledgeDTO(pledge *models.CampaignPledge) *PledgeDTO {
	return &PledgeDTO{
		ID:          pledge.ID,
		CampaignID:  pledge.CampaignID,
		BackerID:    pledge.BackerID,
		AmountCents: pledge.AmountCents,
		RewardTier:  pledge.RewardTier,
		CreatedAt:   pledge.CreatedAt,
	}
}
