package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item represents a stocked good.
//
// StockQuantity is the cumulative quantity ever received from wholesalers,
// not the current on-hand amount. Availability is always derived as
// StockQuantity minus the sum of recorded sale quantities for the item.
type Item struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(100);not null;index" json:"name"`
	Category      string          `gorm:"type:varchar(50)" json:"category"`
	Unit          string          `gorm:"type:varchar(20)" json:"unit"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"sale_price"`
	StockQuantity float64         `gorm:"not null;default:0" json:"stock_quantity"`
	Sales         []Sale          `gorm:"foreignKey:ItemID" json:"sales,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
