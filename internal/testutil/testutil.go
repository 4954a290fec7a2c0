package testutil

import (
	"testing"
	"time"

	"backend/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an isolated in-memory database and migrates the full
// schema. Each call gets its own database, so tests never share state.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.Customer{},
		&model.Item{},
		&model.Sale{},
		&model.Wholesaler{},
		&model.WholesalerTransaction{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SeedCustomer creates a customer row
func SeedCustomer(t *testing.T, db *gorm.DB, name, phone string) *model.Customer {
	t.Helper()
	customer := &model.Customer{
		ID:    uuid.New(),
		Name:  name,
		Phone: phone,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	return customer
}

// SeedItem creates an item row with the given received stock
func SeedItem(t *testing.T, db *gorm.DB, name, unit string, salePrice string, stock float64) *model.Item {
	t.Helper()
	price, err := decimal.NewFromString(salePrice)
	if err != nil {
		t.Fatalf("Invalid sale price %q: %v", salePrice, err)
	}
	item := &model.Item{
		ID:            uuid.New(),
		Name:          name,
		Unit:          unit,
		PurchasePrice: price,
		SalePrice:     price,
		StockQuantity: stock,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed item: %v", err)
	}
	return item
}

// SeedWholesaler creates a wholesaler row
func SeedWholesaler(t *testing.T, db *gorm.DB, name, phone string) *model.Wholesaler {
	t.Helper()
	wholesaler := &model.Wholesaler{
		ID:    uuid.New(),
		Name:  name,
		Phone: phone,
	}
	if err := db.Create(wholesaler).Error; err != nil {
		t.Fatalf("Failed to seed wholesaler: %v", err)
	}
	return wholesaler
}

// SeedSale creates a sale row dated at the given time
func SeedSale(t *testing.T, db *gorm.DB, customerID *uuid.UUID, itemID uuid.UUID, qty float64, total, paid string, date time.Time) *model.Sale {
	t.Helper()
	totalDec, err := decimal.NewFromString(total)
	if err != nil {
		t.Fatalf("Invalid total %q: %v", total, err)
	}
	paidDec, err := decimal.NewFromString(paid)
	if err != nil {
		t.Fatalf("Invalid paid %q: %v", paid, err)
	}

	sale := &model.Sale{
		ID:         uuid.New(),
		CustomerID: customerID,
		ItemID:     itemID,
		Quantity:   qty,
		UnitPrice:  totalDec.Div(decimal.NewFromFloat(qty)),
		TotalPrice: totalDec,
		PaidAmount: paidDec,
		Date:       date,
	}
	if err := db.Create(sale).Error; err != nil {
		t.Fatalf("Failed to seed sale: %v", err)
	}
	return sale
}
