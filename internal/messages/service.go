package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	pkgerrors "github.com/bpmconnect/bpmconnect-backend/pkg/errors"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
)

const maxBodyLength = 5000

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes two-party messaging.
type Service interface {
	Open(ctx context.Context, input OpenInput) (*ConversationDTO, error)
	ListConversations(ctx context.Context, userID uuid.UUID, limit int, cursor string) (*ConversationList, error)
	Send(ctx context.Context, input SendInput) (*MessageDTO, error)
	ListMessages(ctx context.Context, input ListMessagesInput) (*MessageList, error)
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService constructs a messages service instance.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("messages repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Open returns the existing thread with the peer, or creates one.
func (s *service) Open(ctx context.Context, input OpenInput) (*ConversationDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.PeerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "peer id required")
	}
	if input.PeerID == input.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot open a conversation with yourself")
	}

	existing, err := s.repo.FindConversationByPair(ctx, input.UserID, input.PeerID, input.OrderID)
	if err == nil {
		dto := NewConversationDTO(existing, input.UserID, 0)
		return &dto, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find conversation")
	}

	exists, err := s.repo.UserExists(ctx, input.PeerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check peer")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "peer not found")
	}

	conversation := &models.Conversation{
		OrderID:      input.OrderID,
		ParticipantA: input.UserID,
		ParticipantB: input.PeerID,
	}
	if _, err := s.repo.CreateConversation(ctx, conversation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create conversation")
	}
	dto := NewConversationDTO(conversation, input.UserID, 0)
	return &dto, nil
}

func (s *service) ListConversations(ctx context.Context, userID uuid.UUID, limit int, cursor string) (*ConversationList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	rows, nextCursor, err := s.repo.ListConversations(ctx, userID, pagination.Params{Limit: limit, Cursor: cursor})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversations")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	unread, err := s.repo.UnreadCounts(ctx, userID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread")
	}

	out := make([]ConversationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewConversationDTO(&rows[i], userID, unread[rows[i].ID]))
	}
	return &ConversationList{Conversations: out, NextCursor: nextCursor}, nil
}

func (s *service) Send(ctx context.Context, input SendInput) (*MessageDTO, error) {
	if input.SenderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	if len(body) > maxBodyLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body too long").
			WithDetails(map[string]any{"max_length": maxBodyLength})
	}

	var created *models.Message
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		conversation, err := s.loadMemberConversation(ctx, repo, input.ConversationID, input.SenderID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		message := &models.Message{
			ConversationID: conversation.ID,
			SenderID:       input.SenderID,
			Body:           body,
			AttachmentURL:  input.AttachmentURL,
			CreatedAt:      now,
		}
		if _, err := repo.CreateMessage(ctx, message); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
		}
		if err := repo.TouchConversation(ctx, conversation.ID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch conversation")
		}

		created = message
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := NewMessageDTO(created)
	return &dto, nil
}

func (s *service) ListMessages(ctx context.Context, input ListMessagesInput) (*MessageList, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if _, err := s.loadMemberConversation(ctx, s.repo, input.ConversationID, input.UserID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListMessages(ctx, input.ConversationID, pagination.Params{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	return list, nil
}

// MarkRead stamps every unread message from the peer and returns how many
// were affected.
func (s *service) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	if readerID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if _, err := s.loadMemberConversation(ctx, s.repo, conversationID, readerID); err != nil {
		return 0, err
	}

	count, err := s.repo.MarkRead(ctx, conversationID, readerID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark read")
	}
	return count, nil
}

func (s *service) loadMemberConversation(ctx context.Context, repo Repository, conversationID, userID uuid.UUID) (*models.Conversation, error) {
	if conversationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation id required")
	}
	conversation, err := repo.FindConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load conversation")
	}
	if conversation.ParticipantA != userID && conversation.ParticipantB != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "conversation does not include user")
	}
	return conversation, nil
}
