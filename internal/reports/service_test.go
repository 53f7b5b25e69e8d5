package reports

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ordersmemory "github.com/onlineshop/backend/internal/domains/orders/adapters/memory"
	ordersdomain "github.com/onlineshop/backend/internal/domains/orders/domain"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
)

type stubCatalog struct {
	products map[string]ordersports.ProductInfo
}

func (c *stubCatalog) GetProductsByIDs(_ context.Context, ids []string) (map[string]ordersports.ProductInfo, error) {
	result := map[string]ordersports.ProductInfo{}
	for _, id := range ids {
		if product, ok := c.products[id]; ok {
			result[id] = product
		}
	}
	return result, nil
}

type stubNotifier struct {
	reportDate  string
	totalOrders int
	grandTotal  float64
	reportURL   string
	calls       int
}

func (n *stubNotifier) PublishReportNotice(_ context.Context, reportDate string, totalOrders int, grandTotal float64, reportURL string) error {
	n.reportDate = reportDate
	n.totalOrders = totalOrders
	n.grandTotal = grandTotal
	n.reportURL = reportURL
	n.calls++
	return nil
}

func seedOrder(t *testing.T, repo *ordersmemory.Repository, id string, day time.Time, items []ordersdomain.LineItem) {
	t.Helper()
	order, err := ordersdomain.NewOrder(id, "C1", "Ada", "ada@example.com",
		ordersdomain.Address{Country: "RO", City: "Cluj", Street: "Main 1"},
		items, day)
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), order)
	require.NoError(t, err)
}

func TestGenerate_WritesReportAndPublishesNotice(t *testing.T) {
	repo := ordersmemory.NewRepository()
	day := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	seedOrder(t, repo, "O1", day, []ordersdomain.LineItem{{ProductID: "P1", Quantity: 2}})
	seedOrder(t, repo, "O2", day.Add(2*time.Hour), []ordersdomain.LineItem{{ProductID: "P2", Quantity: 1}})

	catalog := &stubCatalog{products: map[string]ordersports.ProductInfo{
		"P1": {ID: "P1", Name: "Keyboard", Price: 50},
		"P2": {ID: "P2", Name: "Mouse", Price: 20},
	}}
	notifier := &stubNotifier{}
	dir := t.TempDir()

	generator, err := NewGenerator(repo, catalog, "file://"+dir, notifier)
	require.NoError(t, err)

	summary, err := generator.Generate(context.Background(), day)
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.Equal(t, "2024-05-10", summary.ReportDate)
	require.Equal(t, 2, summary.TotalOrders)
	require.InDelta(t, 120.0, summary.GrandTotal, 0.001)

	raw, err := os.ReadFile(filepath.Join(dir, "daily-order-report-2024-05-10.html"))
	require.NoError(t, err)
	content := string(raw)
	require.Contains(t, content, "O1")
	require.Contains(t, content, "Keyboard")
	require.Contains(t, content, "120.00")

	require.Equal(t, 1, notifier.calls)
	require.Equal(t, "2024-05-10", notifier.reportDate)
	require.True(t, strings.HasSuffix(notifier.reportURL, "daily-order-report-2024-05-10.html"))
}

func TestGenerate_NoOrdersNoReport(t *testing.T) {
	notifier := &stubNotifier{}
	generator, err := NewGenerator(ordersmemory.NewRepository(), nil, "file://"+t.TempDir(), notifier)
	require.NoError(t, err)

	summary, err := generator.Generate(context.Background(), time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Nil(t, summary)
	require.Equal(t, 0, notifier.calls)
}

func TestGenerate_FallsBackToProductIDWhenCatalogMisses(t *testing.T) {
	repo := ordersmemory.NewRepository()
	day := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	seedOrder(t, repo, "O1", day, []ordersdomain.LineItem{{ProductID: "P9", Quantity: 1}})

	generator, err := NewGenerator(repo, &stubCatalog{}, "file://"+t.TempDir(), nil)
	require.NoError(t, err)

	summary, err := generator.Generate(context.Background(), day)
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.Equal(t, 1, summary.TotalOrders)
	require.Equal(t, 0.0, summary.GrandTotal)
}
