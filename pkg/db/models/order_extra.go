package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderExtra snapshots a purchased add-on at order time.
type OrderExtra struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ExtraID    uuid.UUID `gorm:"column:extra_id;type:uuid;not null"`
	Title      string    `gorm:"column:title;not null"`
	PriceCents int       `gorm:"column:price_cents;not null"`
	AddedDays  int       `gorm:"column:added_days;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
