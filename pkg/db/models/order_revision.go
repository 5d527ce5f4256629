package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderRevision records a buyer's revision request against a delivery. The
// delivered file URLs are snapshotted so later deliveries don't rewrite what
// the buyer was reacting to.
type OrderRevision struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID      `gorm:"column:order_id;type:uuid;not null;index"`
	RequestedBy       uuid.UUID      `gorm:"column:requested_by;type:uuid;not null"`
	Note              string         `gorm:"column:note;not null"`
	DeliveredFileURLs pq.StringArray `gorm:"column:delivered_file_urls;type:text[];default:ARRAY[]::text[]"`
	CompletedAt       *time.Time     `gorm:"column:completed_at"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
}
