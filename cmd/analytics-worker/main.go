package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/router"
	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/worker"
	"github.com/bpmconnect/bpmconnect-backend/internal/analytics/writer"
	"github.com/bpmconnect/bpmconnect-backend/pkg/bigquery"
	"github.com/bpmconnect/bpmconnect-backend/pkg/config"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
	"github.com/bpmconnect/bpmconnect-backend/pkg/outbox/idempotency"
	"github.com/bpmconnect/bpmconnect-backend/pkg/pubsub"
	"github.com/bpmconnect/bpmconnect-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "analytics-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "analytics-worker"

	logg = logger.New(logger.Options{
		ServiceName: "analytics-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "failed to close redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "failed to close pubsub client", err)
		}
	}()

	bqClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
	requireResource(ctx, logg, "bigquery client", err)
	defer func() {
		if err := bqClient.Close(); err != nil {
			logg.Error(ctx, "failed to close bigquery client", err)
		}
	}()

	manager, err := idempotency.NewManager(redisClient, cfg.Eventing.OutboxIdempotencyTTL)
	requireResource(ctx, logg, "idempotency manager", err)

	writerConfig := writer.Config{
		MarketplaceTable: cfg.BigQuery.MarketplaceEventsTable,
		CampaignTable:    cfg.BigQuery.CampaignEventsTable,
	}
	analyticsWriter, err := writer.New(bqClient, writerConfig)
	requireResource(ctx, logg, "analytics bigquery writer", err)

	routingHandler, err := router.NewRouter(analyticsWriter, logg, nil)
	requireResource(ctx, logg, "analytics router", err)

	// One worker per subscription so order, campaign, and plan events all
	// land in BigQuery regardless of which topic carried them.
	subscriptions := map[string]*gcppubsub.Subscriber{
		"orders":    pubsubClient.OrdersSubscription(),
		"campaigns": pubsubClient.CampaignsSubscription(),
		"analytics": pubsubClient.AnalyticsSubscription(),
	}

	workers := make(map[string]*worker.Service, len(subscriptions))
	for name, subscription := range subscriptions {
		if subscription == nil {
			requireResource(ctx, logg, name+" subscription", errors.New("subscription not configured"))
		}
		service, err := worker.NewService(subscription, routingHandler, manager, logg)
		requireResource(ctx, logg, name+" worker service", err)
		workers[name] = service
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(runCtx, "analytics worker ready")

	group, groupCtx := errgroup.WithContext(runCtx)
	for name, service := range workers {
		group.Go(func() error {
			if err := service.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("%s worker: %w", name, err)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		logg.Error(runCtx, "analytics worker failed", err)
		os.Exit(1)
	}
	logg.Info(runCtx, "analytics worker shutting down gracefully")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
