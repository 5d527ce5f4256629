package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a two-party message thread, optionally anchored to an order.
type Conversation struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      *uuid.UUID `gorm:"column:order_id;type:uuid;index"`
	ParticipantA uuid.UUID  `gorm:"column:participant_a;type:uuid;not null;index"`
	ParticipantB uuid.UUID  `gorm:"column:participant_b;type:uuid;not null;index"`

	// LastMessageAt orders the inbox; nil until the first message lands.
	LastMessageAt *time.Time `gorm:"column:last_message_at"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
