package plans

import (
	"github.com/shopspring/decimal"

	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
)

// Plan bundles the commission rate and limits attached to a subscription tier.
type Plan struct {
	Tier            enums.SubscriptionPlan
	CommissionRate  decimal.Decimal
	MaxServices     int // 0 means unlimited
	MaxFilesPerSend int
	PayoutDelayDays int
}

var byTier = map[enums.SubscriptionPlan]Plan{
	enums.SubscriptionPlanFree: {
		Tier:            enums.SubscriptionPlanFree,
		CommissionRate:  decimal.NewFromFloat(0.08),
		MaxServices:     3,
		MaxFilesPerSend: 5,
		PayoutDelayDays: 14,
	},
	enums.SubscriptionPlanPro: {
		Tier:            enums.SubscriptionPlanPro,
		CommissionRate:  decimal.NewFromFloat(0.05),
		MaxServices:     15,
		MaxFilesPerSend: 20,
		PayoutDelayDays: 7,
	},
	enums.SubscriptionPlanBoss: {
		Tier:            enums.SubscriptionPlanBoss,
		CommissionRate:  decimal.NewFromFloat(0.03),
		MaxServices:     0,
		MaxFilesPerSend: 50,
		PayoutDelayDays: 3,
	},
}

// All returns the plan catalog in ascending tier order.
func All() []Plan {
	return []Plan{
		byTier[enums.SubscriptionPlanFree],
		byTier[enums.SubscriptionPlanPro],
		byTier[enums.SubscriptionPlanBoss],
	}
}

// ForTier returns the plan for the given tier, falling back to free when the
// tier is unknown.
func ForTier(tier enums.SubscriptionPlan) Plan {
	if plan, ok := byTier[tier]; ok {
		return plan
	}
	return byTier[enums.SubscriptionPlanFree]
}

// CommissionRate is a convenience accessor for the tier's platform rate.
func CommissionRate(tier enums.SubscriptionPlan) decimal.Decimal {
	return ForTier(tier).CommissionRate
}

// AllowsNewService reports whether the tier permits another active listing.
func (p Plan) AllowsNewService(activeCount int) bool {
	if p.MaxServices == 0 {
		return true
	}
	return activeCount < p.MaxServices
}
