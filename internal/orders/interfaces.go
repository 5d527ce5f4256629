package orders

import (
	"context"
	"time"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderExtras(ctx context.Context, extras []models.OrderExtra) error
	CreateRevision(ctx context.Context, revision *models.OrderRevision) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindListingWithExtras(ctx context.Context, listingID uuid.UUID) (*models.ServiceListing, error)
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	ConsumeRevision(ctx context.Context, orderID uuid.UUID) (bool, error)
	CompleteOpenRevision(ctx context.Context, orderID uuid.UUID, at time.Time) error
	ListOrders(ctx context.Context, userID uuid.UUID, party Party, params pagination.Params, filters OrderFilters) (*OrderList, error)
}
