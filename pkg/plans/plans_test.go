package plans

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
)

func TestCommissionRatesByTier(t *testing.T) {
	tests := []struct {
		tier enums.SubscriptionPlan
		rate string
	}{
		{enums.SubscriptionPlanFree, "0.08"},
		{enums.SubscriptionPlanPro, "0.05"},
		{enums.SubscriptionPlanBoss, "0.03"},
	}

	for _, tt := range tests {
		want, err := decimal.NewFromString(tt.rate)
		if err != nil {
			t.Fatalf("bad fixture rate %q: %v", tt.rate, err)
		}
		if got := CommissionRate(tt.tier); !got.Equal(want) {
			t.Fatalf("tier %s expected rate %s got %s", tt.tier, want, got)
		}
	}
}

func TestHigherTiersPayLess(t *testing.T) {
	free := CommissionRate(enums.SubscriptionPlanFree)
	pro := CommissionRate(enums.SubscriptionPlanPro)
	boss := CommissionRate(enums.SubscriptionPlanBoss)

	if !pro.LessThan(free) {
		t.Fatalf("pro rate %s should be below free rate %s", pro, free)
	}
	if !boss.LessThan(pro) {
		t.Fatalf("boss rate %s should be below pro rate %s", boss, pro)
	}
}

func TestForTierFallsBackToFree(t *testing.T) {
	plan := ForTier("enterprise")
	if plan.Tier != enums.SubscriptionPlanFree {
		t.Fatalf("unknown tier should fall back to free, got %s", plan.Tier)
	}
}

func TestAllowsNewService(t *testing.T) {
	free := ForTier(enums.SubscriptionPlanFree)
	if !free.AllowsNewService(2) {
		t.Fatal("free tier should allow a third listing")
	}
	if free.AllowsNewService(3) {
		t.Fatal("free tier should cap at three listings")
	}

	boss := ForTier(enums.SubscriptionPlanBoss)
	if !boss.AllowsNewService(500) {
		t.Fatal("boss tier should be unlimited")
	}
}
