package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bpmconnect/bpmconnect-backend/api/controllers"
	"github.com/bpmconnect/bpmconnect-backend/api/middleware"
	"github.com/bpmconnect/bpmconnect-backend/internal/auth"
	"github.com/bpmconnect/bpmconnect-backend/internal/campaigns"
	"github.com/bpmconnect/bpmconnect-backend/internal/listings"
	"github.com/bpmconnect/bpmconnect-backend/internal/messages"
	"github.com/bpmconnect/bpmconnect-backend/internal/orders"
	"github.com/bpmconnect/bpmconnect-backend/internal/subscriptions"
	"github.com/bpmconnect/bpmconnect-backend/internal/users"
	"github.com/bpmconnect/bpmconnect-backend/pkg/auth/session"
	"github.com/bpmconnect/bpmconnect-backend/pkg/config"
	"github.com/bpmconnect/bpmconnect-backend/pkg/logger"
	"github.com/bpmconnect/bpmconnect-backend/pkg/metrics"
	pkgredis "github.com/bpmconnect/bpmconnect-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Health pingers are keyed
// by the name reported in the readiness payload.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    *pkgredis.Client
	Sessions session.AccessSessionChecker
	Pingers  map[string]controllers.Pinger

	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Auth          auth.Service
	Users         users.Service
	Listings      listings.Service
	Orders        orders.Service
	Messages      messages.Service
	Campaigns     campaigns.Service
	Subscriptions subscriptions.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
		})

		// Browse surfaces stay public so the storefront works logged out.
		r.Group(func(r chi.Router) {
			r.Get("/services", controllers.ListServices(deps.Listings, logg))
			r.Get("/services/{serviceId}", controllers.ServiceDetail(deps.Listings, logg))
			r.Get("/creators", controllers.ListCreators(deps.Users, logg))
			r.Get("/campaigns", controllers.ListCampaigns(deps.Campaigns, logg))
			r.Get("/campaigns/{campaignId}", controllers.CampaignDetail(deps.Campaigns, logg))
			r.Get("/plans", controllers.ListPlans(deps.Subscriptions, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Get("/me", controllers.Me(deps.Users, logg))
			r.Patch("/me", controllers.UpdateMe(deps.Users, logg))

			r.Post("/services", controllers.CreateService(deps.Listings, logg))
			r.Patch("/services/{serviceId}", controllers.UpdateService(deps.Listings, logg))
			r.Delete("/services/{serviceId}", controllers.DeactivateService(deps.Listings, logg))
			r.Post("/services/{serviceId}/extras", controllers.AddServiceExtra(deps.Listings, logg))

			r.Post("/orders", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/orders", controllers.ListOrders(deps.Orders, logg))
			r.Get("/orders/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.Post("/orders/{orderId}/status", controllers.OrderStatus(deps.Orders, logg))
			r.Post("/orders/{orderId}/revisions", controllers.RequestRevision(deps.Orders, logg))
			r.Post("/orders/{orderId}/deliver", controllers.DeliverOrder(deps.Orders, logg))

			r.Post("/conversations", controllers.OpenConversation(deps.Messages, logg))
			r.Get("/conversations", controllers.ListConversations(deps.Messages, logg))
			r.Get("/conversations/{conversationId}/messages", controllers.ListMessages(deps.Messages, logg))
			r.Post("/conversations/{conversationId}/messages", controllers.SendMessage(deps.Messages, logg))
			r.Post("/conversations/{conversationId}/read", controllers.MarkConversationRead(deps.Messages, logg))

			r.Post("/campaigns", controllers.CreateCampaign(deps.Campaigns, logg))
			r.Post("/campaigns/{campaignId}/publish", controllers.PublishCampaign(deps.Campaigns, logg))
			r.Post("/campaigns/{campaignId}/pledges", controllers.PledgeToCampaign(deps.Campaigns, logg))
			r.Post("/campaigns/{campaignId}/close", controllers.CloseCampaign(deps.Campaigns, logg))

			r.Get("/subscription", controllers.CurrentSubscription(deps.Subscriptions, logg))
			r.Post("/subscription", controllers.ChangeSubscription(deps.Subscriptions, logg))
		})
	})

	return r
}
