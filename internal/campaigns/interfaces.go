package campaigns

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
)

// Repository is the persistence surface for campaigns and pledges.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCampaign(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error)
	SaveCampaign(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, campaignID uuid.UUID) (*models.Campaign, error)
	ListCampaigns(ctx context.Context, params pagination.Params, filters ListFilters) (*CampaignList, error)

	// AccumulatePledge adds the amount to an active campaign in a single
	// conditional UPDATE, flipping the status to funded when the goal is
	// crossed. Returns false when the campaign is not accepting pledges.
	AccumulatePledge(ctx context.Context, campaignID uuid.UUID, amountCents int) (bool, error)
	CreatePledge(ctx context.Context, pledge *models.CampaignPledge) (*models.CampaignPledge, error)
}
