package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&orderItemRecord{},
		&executionRecord{},
		&productRecord{},
		&categoryRecord{},
		&supplierRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
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
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID   string `gorm:"column:order_id;type:varchar(64);index"`
	ProductID string `gorm:"column:product_id;type:varchar(64)"`
	Quantity  int32  `gorm:"column:quantity"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Approval execution schema mirrors the approvals Postgres token store,
// including the partial unique index that caps each order at one
// non-terminal execution.
type executionRecord struct {
	Token     string    `gorm:"primaryKey;column:token;type:varchar(64)"`
	OrderID   string    `gorm:"column:order_id;type:varchar(64);uniqueIndex:idx_active_execution_per_order,where:status IN ('WAITING','RESOLVING')"`
	Status    string    `gorm:"column:status;type:varchar(16);index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	Deadline  time.Time `gorm:"column:deadline;index"`
}

func (executionRecord) TableName() string { return "approval_executions" }

// Catalog schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          string  `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name        string  `gorm:"column:name;type:varchar(255)"`
	Description string  `gorm:"column:description;type:text"`
	Price       float64 `gorm:"column:price"`
	CategoryID  string  `gorm:"column:category_id;type:varchar(64);index"`
	SupplierID  string  `gorm:"column:supplier_id;type:varchar(64);index"`
}

func (productRecord) TableName() string { return "products" }

type categoryRecord struct {
	ID          string `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name        string `gorm:"column:name;type:varchar(255)"`
	Description string `gorm:"column:description;type:text"`
}

func (categoryRecord) TableName() string { return "categories" }

type supplierRecord struct {
	ID    string `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name  string `gorm:"column:name;type:varchar(255)"`
	Email string `gorm:"column:email;type:varchar(255)"`
	Phone string `gorm:"column:phone;type:varchar(64)"`
}

func (supplierRecord) TableName() string { return "suppliers" }
