package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	catalogpostgres "github.com/onlineshop/backend/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/onlineshop/backend/internal/domains/catalog/application"
	orderspostgres "github.com/onlineshop/backend/internal/domains/orders/adapters/persistence/postgres"
	"github.com/onlineshop/backend/internal/notifications/webhook"
	platformpostgres "github.com/onlineshop/backend/internal/platform/postgres"
	"github.com/onlineshop/backend/internal/reports"
)

// One-shot generator for the daily order report, meant to run from cron.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot generate report")
	}

	baseURL := strings.TrimSpace(os.Getenv("REPORT_BASE_URL"))
	if baseURL == "" {
		log.Fatal("REPORT_BASE_URL is required (an afs-compatible location, e.g. file:///var/reports or s3://bucket/reports)")
	}

	var notifier reports.Notifier
	if endpoint := strings.TrimSpace(os.Getenv("NOTIFY_ENDPOINT")); endpoint != "" {
		client, err := webhook.NewClient(endpoint, &http.Client{Timeout: 10 * time.Second})
		if err != nil {
			log.Fatalf("failed to configure notification client: %v", err)
		}
		notifier = client
	}

	orderRepo := orderspostgres.NewRepository(db)
	catalog := catalogapp.NewService(catalogpostgres.NewRepository(db), nil)
	generator, err := reports.NewGenerator(orderRepo, catalog, baseURL, notifier)
	if err != nil {
		log.Fatalf("failed to configure report generator: %v", err)
	}

	summary, err := generator.Generate(ctx, reportDayFromEnv())
	if err != nil {
		log.Fatalf("failed to generate report: %v", err)
	}
	if summary == nil {
		log.Printf("no orders for the requested day, no report generated")
		return
	}
	log.Printf("report generated: %s (%d orders, total %.2f)", summary.ReportURL, summary.TotalOrders, summary.GrandTotal)
}

// reportDayFromEnv reads REPORT_DATE (YYYY-MM-DD) and defaults to yesterday,
// matching the cron schedule that runs shortly after midnight.
func reportDayFromEnv() time.Time {
	raw := strings.TrimSpace(os.Getenv("REPORT_DATE"))
	if raw == "" {
		return time.Now().UTC().AddDate(0, 0, -1)
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		log.Fatalf("REPORT_DATE must be formatted as YYYY-MM-DD: %v", err)
	}
	return day
}
