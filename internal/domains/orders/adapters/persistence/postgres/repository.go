package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/onlineshop/backend/internal/domains/orders/domain"
	"github.com/onlineshop/backend/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderItemRecord{})
	}
	return repo
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID             string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	CustomerID     string    `gorm:"column:customer_id;type:varchar(64);index"`
	CustomerName   string    `gorm:"column:customer_name;type:varchar(255)"`
	CustomerEmail  string    `gorm:"column:customer_email;type:varchar(255)"`
	AddressCountry string    `gorm:"column:address_country;type:varchar(128)"`
	AddressCity    string    `gorm:"column:address_city;type:varchar(128)"`
	AddressCounty  string    `gorm:"column:address_county;type:varchar(128)"`
	AddressStreet  string    `gorm:"column:address_street;type:varchar(255)"`
	CreatedAt      time.Time `gorm:"column:created_at;index:idx_orders_created_at"`
	Items          []orderItemRecord `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID   string `gorm:"column:order_id;type:varchar(64);index"`
	ProductID string `gorm:"column:product_id;type:varchar(64)"`
	Quantity  int32  `gorm:"column:quantity"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Save inserts or updates an order together with its line items.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"customer_id":     record.CustomerID,
				"customer_name":   record.CustomerName,
				"customer_email":  record.CustomerEmail,
				"address_country": record.AddressCountry,
				"address_city":    record.AddressCity,
				"address_county":  record.AddressCounty,
				"address_street":  record.AddressStreet,
			}),
		}).Omit("Items").Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", record.ID).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		if len(record.Items) == 0 {
			return nil
		}
		return tx.Create(&record.Items).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier, including line items.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes an order and its line items.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&orderRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

// ListByDate returns orders created within the given UTC day.
func (r *Repository) ListByDate(ctx context.Context, day time.Time) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	var records []orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at").
		Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		ID:             order.ID,
		CustomerID:     order.CustomerID,
		CustomerName:   order.CustomerName,
		CustomerEmail:  order.CustomerEmail,
		AddressCountry: order.Address.Country,
		AddressCity:    order.Address.City,
		AddressCounty:  order.Address.County,
		AddressStreet:  order.Address.Street,
		CreatedAt:      order.CreatedAt,
	}
	for _, item := range order.Items {
		record.Items = append(record.Items, orderItemRecord{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Address: domain.Address{
			Country: r.AddressCountry,
			City:    r.AddressCity,
			County:  r.AddressCounty,
			Street:  r.AddressStreet,
		},
		CreatedAt: r.CreatedAt,
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.LineItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return order
}
