package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ServiceListing is a seller's published service offer (mixing, mastering,
// custom beats, feature verses and the like).
type ServiceListing struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID    uuid.UUID      `gorm:"column:seller_id;type:uuid;not null;index"`
	Title       string         `gorm:"column:title;not null"`
	Description string         `gorm:"column:description;not null"`
	Category    string         `gorm:"column:category;not null;index"`
	Genres      pq.StringArray `gorm:"column:genres;type:text[];default:ARRAY[]::text[]"`
	PriceCents  int            `gorm:"column:price_cents;not null"`

	// DeliveryDays is the promised turnaround; rush shortens it when offered.
	DeliveryDays     int  `gorm:"column:delivery_days;not null"`
	RushAvailable    bool `gorm:"column:rush_available;not null;default:false"`
	RushPriceCents   int  `gorm:"column:rush_price_cents;not null;default:0"`
	RushDeliveryDays int  `gorm:"column:rush_delivery_days;not null;default:0"`

	MaxRevisions int  `gorm:"column:max_revisions;not null;default:2"`
	IsActive     bool `gorm:"column:is_active;not null;default:true"`

	Extras []ServiceExtra `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
