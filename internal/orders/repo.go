package orders

import (
	"context"
	"time"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderExtras(ctx context.Context, extras []models.OrderExtra) error {
	if len(extras) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&extras).Error
}

func (r *repository) CreateRevision(ctx context.Context, revision *models.OrderRevision) error {
	return r.db.WithContext(ctx).Create(revision).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Extras").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindListingWithExtras(ctx context.Context, listingID uuid.UUID) (*models.ServiceListing, error) {
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

func (r *repository) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

// ConsumeRevision burns one revision and flips the order to in_revision in a
// single conditional UPDATE so two concurrent requests can never both pass the
// budget check.
func (r *repository) ConsumeRevision(ctx context.Context, orderID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE orders
		SET revisions_used = revisions_used + 1,
			status = ?,
			last_activity_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ? AND revisions_used < max_revisions
	`, enums.OrderStatusInRevision, orderID, enums.OrderStatusDelivered)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CompleteOpenRevision(ctx context.Context, orderID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderRevision{}).
		Where("order_id = ? AND completed_at IS NULL", orderID).
		Update("completed_at", at).Error
}

func (r *repository) ListOrders(ctx context.Context, userID uuid.UUID, party Party, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.*, service_listings.title AS listing_title").
		Joins("JOIN service_listings ON service_listings.id = orders.listing_id")

	switch party {
	case PartySeller:
		query = query.Where("orders.seller_id = ?", userID)
	default:
		query = query.Where("orders.buyer_id = ?", userID)
	}

	if filters.Status != nil {
		query = query.Where("orders.status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("orders.created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("orders.created_at <= ?", *filters.DateTo)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(orders.created_at < ?) OR (orders.created_at = ? AND orders.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	type orderRow struct {
		models.Order
		ListingTitle string
	}

	var rows []orderRow
	err = query.
		Order("orders.created_at DESC, orders.id DESC").
		Limit(limit + 1).
		Scan(&rows).Error
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

	summaries := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, OrderSummary{
			ID:                  row.ID,
			ListingID:           row.ListingID,
			ListingTitle:        row.ListingTitle,
			BuyerID:             row.BuyerID,
			SellerID:            row.SellerID,
			Status:              row.Status,
			SubtotalCents:       row.SubtotalCents,
			PlatformFeeCents:    row.PlatformFeeCents,
			SellerEarningsCents: row.SellerEarningsCents,
			RushRequested:       row.RushRequested,
			DeliveryDays:        row.DeliveryDays,
			DueAt:               row.DueAt,
			RevisionsUsed:       row.RevisionsUsed,
			MaxRevisions:        row.MaxRevisions,
			CreatedAt:           row.CreatedAt,
		})
	}

	return &OrderList{Orders: summaries, NextCursor: nextCursor}, nil
}
