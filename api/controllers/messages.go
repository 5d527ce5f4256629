package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bpmconnect/bpmconnect-backend/api/responses"
	"github.com/bpmconnect/bpmconnect-backend/api/validators"
	"github.com/bpmconnect/bpmconnect-backend/internal/messages"
	pkgerrors "github.com/bpmconnect/bpmconnect-backend/pkg/errors"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
)

type openConversationRequest struct {
	PeerID  string  `json:"peer_id" validate:"required,uuid4"`
	OrderID *string `json:"order_id,omitempty"`
}

type sendMessageRequest struct {
	Body          string  `json:"body" validate:"required,max=5000"`
	AttachmentURL *string `json:"attachment_url,omitempty" validate:"omitempty,url"`
}

// OpenConversation finds or creates the thread between the caller and a
// peer, optionally scoped to an order.
func OpenConversation(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "messages service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body openConversationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		peerID, err := uuid.Parse(body.PeerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid peer id"))
			return
		}

		var orderID *uuid.UUID
		if body.OrderID != nil && strings.TrimSpace(*body.OrderID) != "" {
			parsed, err := uuid.Parse(strings.TrimSpace(*body.OrderID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
				return
			}
			orderID = &parsed
		}

		conversation, err := svc.Open(r.Context(), messages.OpenInput{
			UserID:  actorID,
			PeerID:  peerID,
			OrderID: orderID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, conversation)
	}
}

// ListConversations returns the caller's inbox with unread counts.
func ListConversations(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "messages service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListConversations(r.Context(), actorID, limit, strings.TrimSpace(r.URL.Query().Get("cursor")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// SendMessage appends a message to a conversation the caller belongs to.
func SendMessage(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "messages service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversationID, err := parsePathID(r, "conversationId", "conversation id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sendMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Send(r.Context(), messages.SendInput{
			ConversationID: conversationID,
			SenderID:       actorID,
			Body:           body.Body,
			AttachmentURL:  body.AttachmentURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// ListMessages pages through a conversation's history, newest first.
func ListMessages(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "messages service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversationID, err := parsePathID(r, "conversationId", "conversation id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListMessages(r.Context(), messages.ListMessagesInput{
			ConversationID: conversationID,
			UserID:         actorID,
			Limit:          limit,
			Cursor:         strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// MarkConversationRead marks every unread peer message as read.
func MarkConversationRead(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "messages service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversationID, err := parsePathID(r, "conversationId", "conversation id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		marked, err := svc.MarkRead(r.Context(), conversationID, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"marked_read": marked})
	}
}
