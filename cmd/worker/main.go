package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	approvalsmemory "github.com/onlineshop/backend/internal/domains/approvals/adapters/memory"
	approvalspostgres "github.com/onlineshop/backend/internal/domains/approvals/adapters/persistence/postgres"
	approvalports "github.com/onlineshop/backend/internal/domains/approvals/ports"
	ordersmemory "github.com/onlineshop/backend/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/onlineshop/backend/internal/domains/orders/adapters/persistence/postgres"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
	approvalactivities "github.com/onlineshop/backend/internal/durable/temporal/activities/approvals"
	approvalworkflows "github.com/onlineshop/backend/internal/durable/temporal/workflows/approvals"
	"github.com/onlineshop/backend/internal/notifications/lognotify"
	"github.com/onlineshop/backend/internal/notifications/webhook"
	"github.com/onlineshop/backend/internal/platform/migrations"
	platformobservability "github.com/onlineshop/backend/internal/platform/observability"
	platformpostgres "github.com/onlineshop/backend/internal/platform/postgres"
	platformtemporal "github.com/onlineshop/backend/internal/platform/temporal"
)

func main() {
	ctx := context.Background()
	const serviceName = "onlineshop-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	var orderRepo ordersports.Repository = ordersmemory.NewRepository()
	var tokenStore approvalports.TokenStore = approvalsmemory.NewTokenStore()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		orderRepo = orderspostgres.NewRepository(db)
		tokenStore = approvalspostgres.NewTokenStore(db)
	} else {
		logger.Warn("worker running on in-memory stores; executions will not survive a restart")
	}

	notifier := buildNotifier(logger)
	decisionBaseURL := envOrDefault("APPROVAL_BASE_URL", "http://localhost:8080/v2/shipment/decision")
	activities := approvalactivities.NewActivities(tokenStore, orderRepo, notifier, decisionBaseURL)

	temporalClient, err := platformtemporal.Dial(instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, approvalworkflows.OrderApprovalTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(approvalworkflows.OrderApprovalWorkflow, workflow.RegisterOptions{Name: approvalworkflows.OrderApprovalWorkflowName})
	w.RegisterActivityWithOptions(activities.RegisterExecution, activity.RegisterOptions{Name: approvalactivities.RegisterExecutionActivityName})
	w.RegisterActivityWithOptions(activities.SendApprovalRequest, activity.RegisterOptions{Name: approvalactivities.SendApprovalRequestActivityName})
	w.RegisterActivityWithOptions(activities.ResolveToken, activity.RegisterOptions{Name: approvalactivities.ResolveTokenActivityName})
	w.RegisterActivityWithOptions(activities.ConfirmShipment, activity.RegisterOptions{Name: approvalactivities.ConfirmShipmentActivityName})
	w.RegisterActivityWithOptions(activities.RequestFeedback, activity.RegisterOptions{Name: approvalactivities.RequestFeedbackActivityName})
	w.RegisterActivityWithOptions(activities.RejectOrder, activity.RegisterOptions{Name: approvalactivities.RejectOrderActivityName})
	w.RegisterActivityWithOptions(activities.CompleteExecution, activity.RegisterOptions{Name: approvalactivities.CompleteExecutionActivityName})
	w.RegisterActivityWithOptions(activities.PublishOperatorAlert, activity.RegisterOptions{Name: approvalactivities.PublishOperatorAlertActivityName})

	logger.Info("worker listening", slog.String("taskQueue", approvalworkflows.OrderApprovalTaskQueue))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildNotifier(logger *slog.Logger) approvalports.NotificationGateway {
	endpoint := strings.TrimSpace(os.Getenv("NOTIFY_ENDPOINT"))
	if endpoint == "" {
		logger.Warn("NOTIFY_ENDPOINT not set, notifications are logged only")
		return lognotify.New(logger)
	}
	client, err := webhook.NewClient(endpoint, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		logger.Warn("failed to configure notification client, notifications are logged only", slog.String("error", err.Error()))
		return lognotify.New(logger)
	}
	return client
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
