package campaigns

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a campaigns repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCampaign(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	if err := r.db.WithContext(ctx).Create(campaign).Error; err != nil {
		return nil, err
	}
	return campaign, nil
}

func (r *repository) SaveCampaign(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).
		Omit("Pledges").
		Save(campaign).Error
}

func (r *repository) FindByID(ctx context.Context, campaignID uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).Where("id = ?", campaignID).First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *repository) ListCampaigns(ctx context.Context, params pagination.Params, filters ListFilters) (*CampaignList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Campaign{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CreatorID != nil {
		query = query.Where("creator_id = ?", *filters.CreatorID)
	} else {
		query = query.Where("status <> ?", enums.CampaignStatusDraft)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Campaign
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > limit {
		last := rows[limit-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:limit]
	}

	out := make([]CampaignDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewCampaignDTO(&rows[i]))
	}
	return &CampaignList{Campaigns: out, NextCursor: nextCursor}, nil
}

// AccumulatePledge is the guard for concurrent pledges: the amount, the
// backer count, and the funded flip ride a single conditional UPDATE so no
// window exists where two pledges both read the pre-update total.
func (r *repository) AccumulatePledge(ctx context.Context, campaignID uuid.UUID, amountCents int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE campaigns
		SET pledged_cents = pledged_cents + ?,
			backer_count = backer_count + 1,
			status = CASE WHEN pledged_cents + ? >= goal_cents THEN ? ELSE status END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, amountCents, amountCents, enums.CampaignStatusFunded, campaignID, enums.CampaignStatusActive)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CreatePledge(ctx context.Context, pledge *models.CampaignPledge) (*models.CampaignPledge, error) {
	if err := r.db.WithContext(ctx).Create(pledge).Error; err != nil {
		return nil, err
	}
	return pledge, nil
}
