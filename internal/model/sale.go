package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleType enum constants
const (
	SaleTypeCash   = "cash"
	SaleTypeCredit = "credit"
)

// Sale records a single sale event. A nil CustomerID marks a cash sale,
// which is always fully paid; a credit sale carries the customer reference
// and may be partially paid. UnitPrice is a snapshot taken at sale time and
// does not track later changes to Item.SalePrice.
type Sale struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item       Item            `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Quantity   float64         `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_price"`
	PaidAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"paid_amount"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Date.IsZero() {
		s.Date = time.Now().UTC()
	}
	return nil
}

// IsCash reports whether the sale was settled in cash at the counter.
func (s *Sale) IsCash() bool {
	return s.CustomerID == nil
}
