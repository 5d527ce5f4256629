package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	sq "github.com/square/square-go-sdk"
	"gorm.io/gorm"

	"github.com/bpmconnect/bpmconnect-backend/internal/users"
	"github.com/bpmconnect/bpmconnect-backend/pkg/config"
	"github.com/bpmconnect/bpmconnect-backend/pkg/db/models"
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	pkgerrors "github.com/bpmconnect/bpmconnect-backend/pkg/errors"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox/payloads"
	"github.com/bpmconnect/bpmconnect-backend/pkg/plans"
	"github.com/bpmconnect/bpmconnect-backend/pkg/square"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type billingGateway interface {
	EnsureCustomer(ctx context.Context, params square.CustomerCreateParams) (*sq.Customer, error)
	CreateSubscription(ctx context.Context, params square.SubscriptionCreateParams) (*sq.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*sq.Subscription, error)
	LocationID() string
}

// Service exposes the plan catalog and plan changes. A plan change never
// touches existing orders: the commission snapshot lives on the order row.
type Service interface {
	Plans(ctx context.Context) []PlanDTO
	Current(ctx context.Context, userID uuid.UUID) (*SubscriptionDTO, error)
	Change(ctx context.Context, input ChangeInput) (*SubscriptionDTO, error)
}

type service struct {
	users     users.Repository
	billing   billingGateway
	tx        txRunner
	outbox    outboxPublisher
	squareCfg config.SquareConfig
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	UserRepo     users.Repository
	Billing      billingGateway
	TxRunner     txRunner
	Outbox       outboxPublisher
	SquareConfig config.SquareConfig
}

// NewService constructs a subscriptions service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Billing == nil {
		return nil, fmt.Errorf("billing gateway required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		users:     params.UserRepo,
		billing:   params.Billing,
		tx:        params.TxRunner,
		outbox:    params.Outbox,
		squareCfg: params.SquareConfig,
	}, nil
}

func (s *service) Plans(ctx context.Context) []PlanDTO {
	catalog := plans.All()
	out := make([]PlanDTO, 0, len(catalog))
	for _, plan := range catalog {
		out = append(out, NewPlanDTO(plan))
	}
	return out
}

func (s *service) Current(ctx context.Context, userID uuid.UUID) (*SubscriptionDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SubscriptionDTO{
		Plan:                 user.Plan,
		CommissionRate:       plans.CommissionRate(user.Plan),
		SquareSubscriptionID: user.SquareSubscriptionID,
	}, nil
}

func (s *service) Change(ctx context.Context, input ChangeInput) (*SubscriptionDTO, error) {
	target, err := enums.ParseSubscriptionPlan(strings.ToLower(strings.TrimSpace(input.Plan)))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan must be free, pro, or boss")
	}

	user, err := s.loadUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user.Plan == target {
		return &SubscriptionDTO{
			Plan:                 user.Plan,
			CommissionRate:       plans.CommissionRate(user.Plan),
			SquareSubscriptionID: user.SquareSubscriptionID,
		}, nil
	}

	from := user.Plan
	squareID := ""

	if target == enums.SubscriptionPlanFree {
		if user.SquareSubscriptionID != nil {
			if _, err := s.billing.CancelSubscription(ctx, *user.SquareSubscriptionID); err != nil {
				return nil, err
			}
		}
		user.SquareSubscriptionID = nil
	} else {
		customerID, err := s.ensureCustomer(ctx, user)
		if err != nil {
			return nil, err
		}
		variationID, err := s.planVariationID(target)
		if err != nil {
			return nil, err
		}

		// A pro<->boss move replaces the old subscription.
		if user.SquareSubscriptionID != nil {
			if _, err := s.billing.CancelSubscription(ctx, *user.SquareSubscriptionID); err != nil {
				return nil, err
			}
		}

		params := square.SubscriptionCreateParams{
			LocationID:      s.billing.LocationID(),
			PlanVariationID: variationID,
			CustomerID:      customerID,
		}
		if input.CardID != nil {
			params.CardID = *input.CardID
		}
		subscription, err := s.billing.CreateSubscription(ctx, params)
		if err != nil {
			return nil, err
		}
		if id := subscription.GetID(); id != nil && *id != "" {
			squareID = *id
			user.SquareSubscriptionID = id
		}
	}

	user.Plan = target
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).SaveProfile(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save plan change")
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventPlanChanged,
			AggregateType: enums.AggregateUser,
			AggregateID:   user.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: user.ID},
			Data: payloads.PlanChangedEvent{
				UserID:   user.ID,
				From:     from,
				To:       target,
				SquareID: squareID,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	return &SubscriptionDTO{
		Plan:                 user.Plan,
		CommissionRate:       plans.CommissionRate(user.Plan),
		SquareSubscriptionID: user.SquareSubscriptionID,
	}, nil
}

func (s *service) ensureCustomer(ctx context.Context, user *models.User) (string, error) {
	if user.SquareCustomerID != nil && *user.SquareCustomerID != "" {
		return *user.SquareCustomerID, nil
	}
	customer, err := s.billing.EnsureCustomer(ctx, square.CustomerCreateParams{
		Email:       user.Email,
		GivenName:   user.DisplayName,
		ReferenceID: user.ID.String(),
	})
	if err != nil {
		return "", err
	}
	id := customer.GetID()
	if id == nil || *id == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "square returned no customer id")
	}
	user.SquareCustomerID = id
	return *id, nil
}

func (s *service) planVariationID(plan enums.SubscriptionPlan) (string, error) {
	var id string
	switch plan {
	case enums.SubscriptionPlanPro:
		id = s.squareCfg.ProPlanID
	case enums.SubscriptionPlanBoss:
		id = s.squareCfg.BossPlanID
	}
	if strings.TrimSpace(id) == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("no square plan variation configured for %s", plan))
	}
	return id, nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
