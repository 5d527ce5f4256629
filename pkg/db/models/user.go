package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
)

// User represents the canonical identity entity. Sellers and buyers share the
// same table; the role tells them apart.
type User struct {
	ID                   uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email                string                 `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash         string                 `gorm:"column:password_hash;not null"`
	DisplayName          string                 `gorm:"column:display_name;not null"`
	Role                 enums.UserRole         `gorm:"column:role;type:user_role;not null;default:'artist'"`
	Plan                 enums.SubscriptionPlan `gorm:"column:plan;type:subscription_plan;not null;default:'free'"`
	Bio                  *string                `gorm:"column:bio"`
	Location             *string                `gorm:"column:location"`
	AvatarURL            *string                `gorm:"column:avatar_url"`
	Genres               pq.StringArray         `gorm:"column:genres;type:text[];default:ARRAY[]::text[]"`
	SquareCustomerID     *string                `gorm:"column:square_customer_id;uniqueIndex"`
	SquareSubscriptionID *string                `gorm:"column:square_subscription_id"`
	IsActive             bool                   `gorm:"column:is_active;not null;default:true"`
	LastLoginAt          *time.Time             `gorm:"column:last_login_at"`
	CreatedAt            time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
