package router

import (
	"context"

	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/types"
)

type fakeWriter struct {
	marketplace []types.MarketplaceEventRow
	campaigns   []types.CampaignEventRow
}

func (f *fakeWriter) InsertMarketplace(_ context.Context, row types.MarketplaceEventRow) error {
	f.marketplace = append(f.marketplace, row)
	return nil
}

func (f *fakeWriter) InsertCampaign(_ context.Context, row types.CampaignEventRow) error {
	f.campaigns = append(f.campaigns, row)
	return nil
}
