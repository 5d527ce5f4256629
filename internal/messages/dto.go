package messages

import (
	"time"

	"github.com/google/uuid"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
)

// OpenInput asks for the conversation with a peer, creating it when none
// exists. An order-scoped thread is kept separate from the general one.
type OpenInput struct {
	UserID  uuid.UUID
	PeerID  uuid.UUID
	OrderID *uuid.UUID
}

// SendInput is a new message in an existing conversation.
type SendInput struct {
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Body           string
	AttachmentURL  *string
}

// ListMessagesInput pages through a conversation's history.
type ListMessagesInput struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	Limit          int
	Cursor         string
}

// ConversationDTO is the inbox row for a thread.
type ConversationDTO struct {
	ID            uuid.UUID  `json:"id"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	PeerID        uuid.UUID  `json:"peer_id"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int        `json:"unread_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ConversationList is a cursor page of the inbox.
type ConversationList struct {
	Conversations []ConversationDTO `json:"conversations"`
	NextCursor    string            `json:"next_cursor,omitempty"`
}

// MessageDTO is the API shape of a single chat entry.
type MessageDTO struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	Body           string     `json:"body"`
	AttachmentURL  *string    `json:"attachment_url,omitempty"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// MessageList is a cursor page of a conversation's history, newest first.
type MessageList struct {
	Messages   []MessageDTO `json:"messages"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// NewConversationDTO maps a thread row into the inbox shape for viewer.
func NewConversationDTO(conversation *models.Conversation, viewerID uuid.UUID, unread int) ConversationDTO {
	peer := conversation.ParticipantA
	if peer == viewerID {
		peer = conversation.ParticipantB
	}
	return ConversationDTO{
		ID:            conversation.ID,
		OrderID:       conversation.OrderID,
		PeerID:        peer,
		LastMessageAt: conversation.LastMessageAt,
		UnreadCount:   unread,
		CreatedAt:     conversation.CreatedAt,
	}
}

// NewMessageDTO maps a message row into the API shape.
func NewMessageDTO(message *models.Message) MessageDTO {
	return MessageDTO{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Body:           message.Body,
		AttachmentURL:  message.AttachmentURL,
		ReadAt:         message.ReadAt,
		CreatedAt:      message.CreatedAt,
	}
}
