package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	approvalsmemory "github.com/onlineshop/backend/internal/domains/approvals/adapters/memory"
	approvalspostgres "github.com/onlineshop/backend/internal/domains/approvals/adapters/persistence/postgres"
	approvalworkflows "github.com/onlineshop/backend/internal/domains/approvals/adapters/workflows"
	approvalsapp "github.com/onlineshop/backend/internal/domains/approvals/application"
	approvalports "github.com/onlineshop/backend/internal/domains/approvals/ports"
	catalogcache "github.com/onlineshop/backend/internal/domains/catalog/adapters/cache"
	catalogmemory "github.com/onlineshop/backend/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/onlineshop/backend/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/onlineshop/backend/internal/domains/catalog/application"
	catalogports "github.com/onlineshop/backend/internal/domains/catalog/ports"
	ordersmemory "github.com/onlineshop/backend/internal/domains/orders/adapters/memory"
	ordersobs "github.com/onlineshop/backend/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/onlineshop/backend/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/onlineshop/backend/internal/domains/orders/application"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
	"github.com/onlineshop/backend/internal/notifications/lognotify"
	"github.com/onlineshop/backend/internal/notifications/webhook"
	"github.com/onlineshop/backend/internal/platform/migrations"
	platformobservability "github.com/onlineshop/backend/internal/platform/observability"
	platformpostgres "github.com/onlineshop/backend/internal/platform/postgres"
	platformtemporal "github.com/onlineshop/backend/internal/platform/temporal"
)

// Run boots the shop HTTP API with observability, repositories, and the
// approval saga wiring.
func Run(ctx context.Context) error {
	const serviceName = "onlineshop-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	cfg := LoadConfig()

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	var orderRepo ordersports.Repository = ordersmemory.NewRepository()
	var tokenStore approvalports.TokenStore = approvalsmemory.NewTokenStore()
	var catalogRepo catalogports.Repository = catalogmemory.NewRepository()
	if db != nil {
		orderRepo = orderspostgres.NewRepository(db)
		tokenStore = approvalspostgres.NewTokenStore(db)
		catalogRepo = catalogpostgres.NewRepository(db)
	}

	var cache catalogports.Cache
	if cfg.RedisAddr != "" {
		cache = catalogcache.NewRedisCache(cfg.RedisAddr, serviceName)
		logger.Info("product cache enabled", slog.String("addr", cfg.RedisAddr))
	}
	catalogService := catalogapp.NewService(catalogRepo, cache)

	var notifier approvalports.NotificationGateway
	var orderNotifier ordersports.Notifier
	if cfg.NotifyEndpoint != "" {
		client, err := webhook.NewClient(cfg.NotifyEndpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to configure notification client: %w", err)
		}
		notifier, orderNotifier = client, client
	} else {
		logger.Warn("NOTIFY_ENDPOINT not set, notifications are logged only")
		gateway := lognotify.New(logger)
		notifier, orderNotifier = gateway, gateway
	}

	var saga ordersports.ShipmentApproval
	var dispatcher approvalports.DecisionDispatcher
	if temporalClient, err := platformtemporal.Dial(instruments); err != nil {
		logger.Warn("Temporal unavailable, running the approval saga inline", slog.String("error", err.Error()))
		saga = approvalworkflows.NewInlineApprovalSaga(tokenStore, notifier, cfg.ApprovalBaseURL)
		dispatcher = approvalworkflows.NewInlineDecisionDispatcher(tokenStore, orderRepo, notifier)
	} else {
		defer temporalClient.Close()
		saga = approvalworkflows.NewTemporalApprovalSaga(temporalClient)
		dispatcher = approvalworkflows.NewTemporalDecisionDispatcher(temporalClient)
		logger.Info("Temporal approval saga enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo, catalogService, orderNotifier, saga),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	decisionService := approvalsapp.NewService(tokenStore, orderRepo, dispatcher)

	responder := newResponder()
	router := NewRouter(Handlers{
		ShipmentAPI: NewShipmentAPI(decisionService, responder),
		OrderAPI:    NewOrderAPI(orderService, responder),
		CatalogAPI:  NewCatalogAPI(catalogService, responder),
	}, otelgin.Middleware(serviceName))

	addr := ":" + cfg.Port
	logger.Info("shop API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("shop API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
