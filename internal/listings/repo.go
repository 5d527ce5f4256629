package listings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a listings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateListing(ctx context.Context, listing *models.ServiceListing) (*models.ServiceListing, error) {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *repository) SaveListing(ctx context.Context, listing *models.ServiceListing) error {
	return r.db.WithContext(ctx).
		Omit("Extras").
		Save(listing).Error
}

func (r *repository) CreateExtras(ctx context.Context, extras []models.ServiceExtra) error {
	if len(extras) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&extras).Error
}

func (r *repository) FindByID(ctx context.Context, listingID uuid.UUID) (*models.ServiceListing, error) {
	var listing models.ServiceListing
	err := r.db.WithContext(ctx).
		Preload("Extras").
		Where("id = ?", listingID).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *repository) CountActiveBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ServiceListing{}).
		Where("seller_id = ? AND is_active = ?", sellerID, true).
		Count(&count).Error
	return count, err
}

func (r *repository) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) ListListings(ctx context.Context, params pagination.Params, filters ListFilters) (*ListingList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.ServiceListing{}).
		Preload("Extras")

	if filters.SellerID != nil {
		query = query.Where("seller_id = ?", *filters.SellerID)
	} else {
		query = query.Where("is_active = ?", true)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Genre != nil {
		query = query.Where("? = ANY(genres)", *filters.Genre)
	}
	if filters.Query != nil {
		pattern := "%" + *filters.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
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

	var rows []models.ServiceListing
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

	out := make([]ListingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewListingDTO(&rows[i]))
	}
	return &ListingList{Listings: out, NextCursor: nextCursor}, nil
}
