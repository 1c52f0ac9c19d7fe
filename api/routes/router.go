package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osfornecedores/fornecedores-backend/api/controllers"
	webhookcontrollers "github.com/osfornecedores/fornecedores-backend/api/controllers/webhooks"
	"github.com/osfornecedores/fornecedores-backend/api/middleware"
	"github.com/osfornecedores/fornecedores-backend/internal/access"
	"github.com/osfornecedores/fornecedores-backend/internal/billing"
	"github.com/osfornecedores/fornecedores-backend/internal/favorites"
	"github.com/osfornecedores/fornecedores-backend/internal/registration"
	"github.com/osfornecedores/fornecedores-backend/internal/suppliers"
	stripewebhook "github.com/osfornecedores/fornecedores-backend/internal/webhooks/stripe"
	"github.com/osfornecedores/fornecedores-backend/pkg/config"
	"github.com/osfornecedores/fornecedores-backend/pkg/db"
	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
	"github.com/osfornecedores/fornecedores-backend/pkg/metrics"
	"github.com/osfornecedores/fornecedores-backend/pkg/redis"
	"github.com/osfornecedores/fornecedores-backend/pkg/stripe"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config              *config.Config
	Logger              *logger.Logger
	DB                  db.Pinger
	Redis               *redis.Client
	AccessService       *access.Service
	SupplierService     *suppliers.Service
	FavoritesService    *favorites.Service
	RegistrationService *registration.Service
	BillingService      *billing.Service
	StripeClient        *stripe.Client
	WebhookService      *stripewebhook.Service
	WebhookGuard        *stripewebhook.IdempotencyGuard
	WebhookMetrics      *metrics.WebhookMetrics
	MetricsGatherer     prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

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
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(p.WebhookService, p.StripeClient, p.WebhookGuard, p.WebhookMetrics, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.RegistrationService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.RegistrationService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", controllers.BillingPlans(p.BillingService, logg))

		// Anonymous callers get the non-subscriber rules; a bearer token
		// upgrades the decision.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Get("/access/{featureKey}", controllers.FeatureAccess(p.AccessService, logg))
			r.Get("/suppliers", controllers.SupplierList(p.SupplierService, logg))
			r.Get("/suppliers/{slug}", controllers.SupplierDetail(p.SupplierService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/trial/status", controllers.TrialStatus(p.AccessService, logg))
			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.FavoritesList(p.FavoritesService, logg))
				r.Post("/", controllers.FavoritesAdd(p.FavoritesService, logg))
				r.Delete("/{supplierId}", controllers.FavoritesRemove(p.FavoritesService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Route("/rules", func(r chi.Router) {
			r.Get("/", controllers.AdminRulesList(p.AccessService, logg))
			r.Post("/", controllers.AdminRuleCreate(p.AccessService, logg))
			r.Get("/{ruleId}", controllers.AdminRuleDetail(p.AccessService, logg))
			r.Put("/{ruleId}", controllers.AdminRuleUpdate(p.AccessService, logg))
			r.Delete("/{ruleId}", controllers.AdminRuleDelete(p.AccessService, logg))
		})
	})

	return r
}
