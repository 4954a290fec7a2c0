package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wholesaler represents a supplier. Phone is the dedup key, checked at the
// application level. Deleting a wholesaler hard-deletes its transactions.
type Wholesaler struct {
	ID           uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string                  `gorm:"type:varchar(100);not null" json:"name"`
	Phone        string                  `gorm:"type:varchar(20);index" json:"phone"`
	Address      string                  `gorm:"type:varchar(200)" json:"address"`
	Transactions []WholesalerTransaction `gorm:"foreignKey:WholesalerID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

func (w *Wholesaler) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WholesalerTransaction records a purchase event from a supplier.
//
// ItemName is free text, matched case-insensitively against Item.Name. It is
// intentionally not a foreign key so purchases can be entered before an Item
// record exists; every create/edit/delete carries a matching adjustment to
// the linked item's cumulative StockQuantity.
type WholesalerTransaction struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	WholesalerID uuid.UUID       `gorm:"type:uuid;not null;index" json:"wholesaler_id"`
	Wholesaler   Wholesaler      `gorm:"foreignKey:WholesalerID" json:"-"`
	ItemName     string          `gorm:"type:varchar(100);not null" json:"item_name"`
	Quantity     float64         `gorm:"not null" json:"quantity"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price_per_unit"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_price"`
	PaidAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"paid_amount"`
	Date         time.Time       `gorm:"not null;index" json:"date"`
	Notes        string          `gorm:"type:varchar(500)" json:"notes"`
}

func (t *WholesalerTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	return nil
}
