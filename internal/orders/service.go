package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	pkgerrors "github.com/bpmconnect/bpmconnect-backend/pkg/errors"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox/payloads"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pagination"
	"github.com/bpmconnect/bpmconnect-backend/pkg/plans"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pricing"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines order-level operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, orderID, actorID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, input ListInput) (*OrderList, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
	RequestRevision(ctx context.Context, input RevisionInput) (*models.Order, error)
	Deliver(ctx context.Context, input DeliverInput) (*models.Order, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, outbox outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outbox}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ListingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		listing, err := repo.FindListingWithExtras(ctx, input.ListingID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
		}
		if listing.SellerID == input.BuyerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "sellers cannot order their own listing")
		}

		seller, err := repo.FindUser(ctx, listing.SellerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
		}

		breakdown, err := pricing.Quote(listing, input.ExtraIDs, input.Rush, seller.Plan)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		dueAt := now.AddDate(0, 0, breakdown.DeliveryDays)
		order := &models.Order{
			ListingID:           listing.ID,
			BuyerID:             input.BuyerID,
			SellerID:            listing.SellerID,
			Status:              enums.OrderStatusPending,
			Requirements:        input.Requirements,
			ServicePriceCents:   breakdown.ServicePriceCents,
			ExtrasPriceCents:    breakdown.ExtrasPriceCents,
			RushPriceCents:      breakdown.RushPriceCents,
			SubtotalCents:       breakdown.SubtotalCents,
			CommissionRate:      breakdown.CommissionRate,
			PlatformFeeCents:    breakdown.PlatformFeeCents,
			SellerEarningsCents: breakdown.SellerEarningsCents,
			RushRequested:       breakdown.RushApplied,
			DeliveryDays:        breakdown.DeliveryDays,
			DueAt:               &dueAt,
			MaxRevisions:        listing.MaxRevisions,
			LastActivityAt:      now,
		}

		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		extras := make([]models.OrderExtra, 0, len(breakdown.Extras))
		for _, line := range breakdown.Extras {
			extras = append(extras, models.OrderExtra{
				OrderID:    order.ID,
				ExtraID:    line.ExtraID,
				Title:      line.Title,
				PriceCents: line.PriceCents,
				AddedDays:  line.AddedDays,
			})
		}
		if err := repo.CreateOrderExtras(ctx, extras); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order extras")
		}
		order.Extras = extras

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.BuyerID, input.ActorRole),
			Data: payloads.OrderCreatedEvent{
				OrderID:             order.ID,
				ListingID:           order.ListingID,
				BuyerID:             order.BuyerID,
				SellerID:            order.SellerID,
				SubtotalCents:       order.SubtotalCents,
				PlatformFeeCents:    order.PlatformFeeCents,
				SellerEarningsCents: order.SellerEarningsCents,
				RushRequested:       order.RushRequested,
				DeliveryDays:        order.DeliveryDays,
				DueAt:               dueAt,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, orderID, actorID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if _, err := orderParty(order, actorID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*OrderList, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	party := input.Party
	if party == "" {
		party = PartyBuyer
	}
	if !party.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be buyer or seller")
	}

	list, err := s.repo.ListOrders(ctx, input.UserID, party, pagination.Params{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	}, input.Filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status")
	}

	if input.Target == enums.OrderStatusInRevision {
		return s.requestRevision(ctx, RevisionInput{
			OrderID:   input.OrderID,
			ActorID:   input.ActorID,
			Note:      input.Reason,
			ActorRole: input.ActorRole,
		})
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		party, err := orderParty(order, input.ActorID)
		if err != nil {
			return err
		}
		if order.Status == input.Target {
			updated = order
			return nil
		}
		if !TransitionExists(order.Status, input.Target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Target))
		}
		if !CanTransition(order.Status, input.Target, party) {
			return pkgerrors.New(pkgerrors.CodeForbidden,
				fmt.Sprintf("%s may not move order from %s to %s", party, order.Status, input.Target))
		}

		now := time.Now().UTC()
		updates := map[string]any{
			"status":           input.Target,
			"last_activity_at": now,
		}
		if column := timestampColumn(input.Target); column != "" {
			updates[column] = now
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		from := order.Status
		order.Status = input.Target
		order.LastActivityAt = now
		stampOrder(order, input.Target, now)

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.ActorID, input.ActorRole),
			Data: payloads.OrderStatusChangedEvent{
				OrderID:   order.ID,
				BuyerID:   order.BuyerID,
				SellerID:  order.SellerID,
				From:      from,
				To:        input.Target,
				ActorID:   input.ActorID,
				ActorRole: enums.UserRole(input.ActorRole),
				Reason:    input.Reason,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) RequestRevision(ctx context.Context, input RevisionInput) (*models.Order, error) {
	if input.Note == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "revision note required")
	}
	return s.requestRevision(ctx, input)
}

func (s *service) requestRevision(ctx context.Context, input RevisionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.BuyerID != input.ActorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the buyer can request a revision")
		}

		consumed, err := repo.ConsumeRevision(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume revision")
		}
		if !consumed {
			if order.Status != enums.OrderStatusDelivered {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "revision requires a delivered order")
			}
			return pkgerrors.New(pkgerrors.CodeRevisionLimit, "revision budget exhausted").
				WithDetails(map[string]any{
					"revisions_used": order.RevisionsUsed,
					"max_revisions":  order.MaxRevisions,
				})
		}

		revision := &models.OrderRevision{
			OrderID:           order.ID,
			RequestedBy:       input.ActorID,
			Note:              input.Note,
			DeliveredFileURLs: order.DeliveredFileURLs,
		}
		if err := repo.CreateRevision(ctx, revision); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create revision")
		}

		order.Status = enums.OrderStatusInRevision
		order.RevisionsUsed++
		order.LastActivityAt = time.Now().UTC()

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderRevisionRequested,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.ActorID, input.ActorRole),
			Data: payloads.OrderRevisionRequestedEvent{
				OrderID:       order.ID,
				BuyerID:       order.BuyerID,
				SellerID:      order.SellerID,
				RevisionsUsed: order.RevisionsUsed,
				MaxRevisions:  order.MaxRevisions,
				Note:          input.Note,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Deliver(ctx context.Context, input DeliverInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.FileURLs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one delivery file required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.SellerID != input.ActorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the seller can deliver")
		}
		if order.Status != enums.OrderStatusInProgress && order.Status != enums.OrderStatusInRevision {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery requires an in-progress or in-revision order")
		}

		seller, err := repo.FindUser(ctx, order.SellerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
		}
		plan := plans.ForTier(seller.Plan)
		if len(input.FileURLs) > plan.MaxFilesPerSend {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("plan allows at most %d files per delivery", plan.MaxFilesPerSend)).
				WithDetails(map[string]any{"max_files": plan.MaxFilesPerSend})
		}

		now := time.Now().UTC()
		updates := map[string]any{
			"status":              enums.OrderStatusDelivered,
			"delivered_file_urls": pq.StringArray(input.FileURLs),
			"delivery_note":       input.Note,
			"delivered_at":        now,
			"last_activity_at":    now,
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order delivery")
		}
		if err := repo.CompleteOpenRevision(ctx, order.ID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete open revision")
		}

		order.Status = enums.OrderStatusDelivered
		order.DeliveredFileURLs = pq.StringArray(input.FileURLs)
		order.DeliveryNote = input.Note
		order.DeliveredAt = &now
		order.LastActivityAt = now

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderDelivered,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.ActorID, input.ActorRole),
			Data: payloads.OrderDeliveredEvent{
				OrderID:     order.ID,
				BuyerID:     order.BuyerID,
				SellerID:    order.SellerID,
				FileCount:   len(input.FileURLs),
				DeliveredAt: now,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func orderParty(order *models.Order, actorID uuid.UUID) (Party, error) {
	switch actorID {
	case order.BuyerID:
		return PartyBuyer, nil
	case order.SellerID:
		return PartySeller, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
}

func timestampColumn(to enums.OrderStatus) string {
	switch to {
	case enums.OrderStatusAccepted:
		return "accepted_at"
	case enums.OrderStatusDelivered:
		return "delivered_at"
	case enums.OrderStatusCompleted:
		return "completed_at"
	case enums.OrderStatusCancelled:
		return "cancelled_at"
	case enums.OrderStatusDisputed:
		return "disputed_at"
	}
	return ""
}

func stampOrder(order *models.Order, to enums.OrderStatus, at time.Time) {
	switch to {
	case enums.OrderStatusAccepted:
		order.AcceptedAt = &at
	case enums.OrderStatusDelivered:
		order.DeliveredAt = &at
	case enums.OrderStatusCompleted:
		order.CompletedAt = &at
	case enums.OrderStatusCancelled:
		order.CancelledAt = &at
	case enums.OrderStatusDisputed:
		order.DisputedAt = &at
	}
}

func buildActor(userID uuid.UUID, role string) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID: userID,
		Role:   role,
	}
}
