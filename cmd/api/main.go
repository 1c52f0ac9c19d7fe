package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/osfornecedores/fornecedores-backend/api/routes"
	"github.com/osfornecedores/fornecedores-backend/internal/access"
	"github.com/osfornecedores/fornecedores-backend/internal/billing"
	"github.com/osfornecedores/fornecedores-backend/internal/favorites"
	"github.com/osfornecedores/fornecedores-backend/internal/profiles"
	"github.com/osfornecedores/fornecedores-backend/internal/registration"
	"github.com/osfornecedores/fornecedores-backend/internal/subscriptions"
	"github.com/osfornecedores/fornecedores-backend/internal/suppliers"
	stripewebhook "github.com/osfornecedores/fornecedores-backend/internal/webhooks/stripe"
	"github.com/osfornecedores/fornecedores-backend/pkg/config"
	"github.com/osfornecedores/fornecedores-backend/pkg/db"
	"github.com/osfornecedores/fornecedores-backend/pkg/logger"
	"github.com/osfornecedores/fornecedores-backend/pkg/metrics"
	"github.com/osfornecedores/fornecedores-backend/pkg/migrate"
	"github.com/osfornecedores/fornecedores-backend/pkg/redis"
	pkgstripe "github.com/osfornecedores/fornecedores-backend/pkg/stripe"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	profileRepo := profiles.NewRepository(dbClient.DB())
	ruleRepo := access.NewRepository(dbClient.DB())
	supplierRepo := suppliers.NewRepository(dbClient.DB())
	favoriteRepo := favorites.NewRepository(dbClient.DB())
	billingRepo := billing.NewRepository(dbClient.DB())

	accessService, err := access.NewService(access.ServiceParams{
		Rules:         ruleRepo,
		Profiles:      profileRepo,
		Suppliers:     supplierRepo,
		Cache:         access.NewRuleCache(cfg.Trial.RuleCacheTTL),
		Logger:        logg,
		LookupTimeout: cfg.Trial.LookupTimeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create access service", err)
		os.Exit(1)
	}
	defer accessService.Close()

	supplierService, err := suppliers.NewService(suppliers.ServiceParams{
		Repo:   supplierRepo,
		Access: accessService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create supplier service", err)
		os.Exit(1)
	}

	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		Repo:      favoriteRepo,
		Suppliers: supplierRepo,
		Access:    accessService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	registrationService, err := registration.NewService(registration.ServiceParams{
		Profiles: profileRepo,
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Trial:    cfg.Trial,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create registration service", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(billing.ServiceParams{Repo: billingRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Profiles:     profileRepo,
		StripeClient: subscriptions.NewStripeClient(stripeClient),
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Stripe.EventGuardTTL, "stripe-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:              cfg,
			Logger:              logg,
			DB:                  dbClient,
			Redis:               redisClient,
			AccessService:       accessService,
			SupplierService:     supplierService,
			FavoritesService:    favoritesService,
			RegistrationService: registrationService,
			BillingService:      billingService,
			StripeClient:        stripeClient,
			WebhookService:      webhookService,
			WebhookGuard:        webhookGuard,
			WebhookMetrics:      webhookMetrics,
			MetricsGatherer:     registry,
		}),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := shutdown(shutdownCtx, server, dbClient, redisClient); err != nil {
			logg.Error(ctx, "shutdown finished with errors", err)
			os.Exit(1)
		}
	}
}

func shutdown(ctx context.Context, server *http.Server, dbClient *db.Client, redisClient *redis.Client) error {
	var err error
	err = multierr.Append(err, server.Shutdown(ctx))
	err = multierr.Append(err, dbClient.Close())
	err = multierr.Append(err, redisClient.Close())
	return err
}
