// Package reports generates the daily order report, stores it in object
// storage, and announces it on the report channel.
package reports

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	ordersdomain "github.com/onlineshop/backend/internal/domains/orders/domain"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
)

//go:embed templates/daily-order-report.html.tmpl
var templateFS embed.FS

var reportTemplate = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/daily-order-report.html.tmpl"))

// Notifier announces a generated report.
type Notifier interface {
	PublishReportNotice(ctx context.Context, reportDate string, totalOrders int, grandTotal float64, reportURL string) error
}

// Generator builds and publishes the daily order report.
type Generator struct {
	orders   ordersports.Repository
	catalog  ordersports.CatalogReader
	fs       afs.Service
	baseURL  string
	notifier Notifier
}

// NewGenerator wires the report generator. baseURL is an afs-compatible
// location (file://, s3://, ...). notifier may be nil to skip announcements.
func NewGenerator(orders ordersports.Repository, catalog ordersports.CatalogReader, baseURL string, notifier Notifier) (*Generator, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("report base URL is required")
	}
	return &Generator{
		orders:   orders,
		catalog:  catalog,
		fs:       afs.New(),
		baseURL:  baseURL,
		notifier: notifier,
	}, nil
}

// Summary captures the totals of one generated report.
type Summary struct {
	ReportDate  string
	TotalOrders int
	GrandTotal  float64
	ReportURL   string
}

type reportRow struct {
	OrderID         string
	CustomerEmail   string
	ShippingAddress string
	ProductName     string
	Quantity        int32
	PricePerItem    float64
	TotalPrice      float64
}

// Generate builds the report for the given day, uploads it, and publishes
// the notice. Days without orders produce no report.
func (g *Generator) Generate(ctx context.Context, day time.Time) (*Summary, error) {
	if g == nil || g.orders == nil {
		return nil, errors.New("report generator not configured")
	}
	orders, err := g.orders.ListByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	rows, grandTotal, err := g.buildRows(ctx, orders)
	if err != nil {
		return nil, err
	}

	reportDate := day.UTC().Format("2006-01-02")
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, map[string]any{
		"ReportDate":  reportDate,
		"Rows":        rows,
		"TotalOrders": len(orders),
		"GrandTotal":  grandTotal,
	}); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	reportURL := url.Join(g.baseURL, fmt.Sprintf("daily-order-report-%s.html", reportDate))
	if err := g.fs.Upload(ctx, reportURL, file.DefaultFileOsMode, bytes.NewReader(buf.Bytes())); err != nil {
		return nil, fmt.Errorf("upload report to %s: %w", reportURL, err)
	}

	summary := &Summary{
		ReportDate:  reportDate,
		TotalOrders: len(orders),
		GrandTotal:  grandTotal,
		ReportURL:   reportURL,
	}
	if g.notifier != nil {
		if err := g.notifier.PublishReportNotice(ctx, summary.ReportDate, summary.TotalOrders, summary.GrandTotal, summary.ReportURL); err != nil {
			return summary, fmt.Errorf("publish report notice: %w", err)
		}
	}
	return summary, nil
}

func (g *Generator) buildRows(ctx context.Context, orders []*ordersdomain.Order) ([]reportRow, float64, error) {
	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}

	products := map[string]ordersports.ProductInfo{}
	if g.catalog != nil && len(ids) > 0 {
		var err error
		products, err = g.catalog.GetProductsByIDs(ctx, ids)
		if err != nil {
			return nil, 0, fmt.Errorf("resolve products: %w", err)
		}
	}

	var rows []reportRow
	var grandTotal float64
	for _, order := range orders {
		for _, item := range order.Items {
			product := products[item.ProductID]
			name := product.Name
			if name == "" {
				name = item.ProductID
			}
			total := product.Price * float64(item.Quantity)
			grandTotal += total
			rows = append(rows, reportRow{
				OrderID:         order.ID,
				CustomerEmail:   order.CustomerEmail,
				ShippingAddress: order.ShippingAddress(),
				ProductName:     name,
				Quantity:        item.Quantity,
				PricePerItem:    product.Price,
				TotalPrice:      total,
			})
		}
	}
	return rows, grandTotal, nil
}
