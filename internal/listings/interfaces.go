package listings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
)

// Repository is the persistence surface for listings and their extras.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateListing(ctx context.Context, listing *models.ServiceListing) (*models.ServiceListing, error)
	SaveListing(ctx context.Context, listing *models.ServiceListing) error
	CreateExtras(ctx context.Context, extras []models.ServiceExtra) error
	FindByID(ctx context.Context, listingID uuid.UUID) (*models.ServiceListing, error)
	CountActiveBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ListListings(ctx context.Context, params pagination.Params, filters ListFilters) (*ListingList, error)
}
