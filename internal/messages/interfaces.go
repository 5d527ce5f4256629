package messages

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
)

// Repository is the persistence surface for conversations and messages.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindConversation(ctx context.Context, conversationID uuid.UUID) (*models.Conversation, error)
	FindConversationByPair(ctx context.Context, a, b uuid.UUID, orderID *uuid.UUID) (*models.Conversation, error)
	CreateConversation(ctx context.Context, conversation *models.Conversation) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Conversation, string, error)
	UnreadCounts(ctx context.Context, userID uuid.UUID, conversationIDs []uuid.UUID) (map[uuid.UUID]int, error)

	CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error)
	TouchConversation(ctx context.Context, conversationID uuid.UUID, at time.Time) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, params pagination.Params) (*MessageList, error)
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID, at time.Time) (int64, error)

	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
}
