package subscriptions

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
	"github.com/bpmconnect/bpmconnect-backend/pkg/plans"
)

// PlanDTO is one row of the public plan catalog.
type PlanDTO struct {
	Tier            enums.SubscriptionPlan `json:"tier"`
	CommissionRate  decimal.Decimal        `json:"commission_rate"`
	MaxServices     int                    `json:"max_services"`
	MaxFilesPerSend int                    `json:"max_files_per_send"`
	PayoutDelayDays int                    `json:"payout_delay_days"`
}

// SubscriptionDTO is the caller's current plan state.
type SubscriptionDTO struct {
	Plan                 enums.SubscriptionPlan `json:"plan"`
	CommissionRate       decimal.Decimal        `json:"commission_rate"`
	SquareSubscriptionID *string                `json:"square_subscription_id,omitempty"`
}

// ChangeInput asks to move the caller to a different plan.
type ChangeInput struct {
	UserID uuid.UUID
	Plan   string
	CardID *string
}

// NewPlanDTO maps a static plan entry into the catalog shape.
func NewPlanDTO(plan plans.Plan) PlanDTO {
	return PlanDTO{
		Tier:            plan.Tier,
		CommissionRate:  plan.CommissionRate,
		MaxServices:     plan.MaxServices,
		MaxFilesPerSend: plan.MaxFilesPerSend,
		PayoutDelayDays: plan.PayoutDelayDays,
	}
}
