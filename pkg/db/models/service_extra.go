package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceExtra is an optional add-on attached to a listing, priced separately
// and allowed to extend the delivery window.
type ServiceExtra struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ListingID  uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index"`
	Title      string    `gorm:"column:title;not null"`
	PriceCents int       `gorm:"column:price_cents;not null"`
	AddedDays  int       `gorm:"column:added_days;not null;default:0"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
