package model

import (
	"github.com/shopspring/decimal"
)

// SaleTotals aggregates billed and paid amounts over a set of sales.
type SaleTotals struct {
	Total decimal.Decimal `gorm:"column:total" json:"total"`
	Paid  decimal.Decimal `gorm:"column:paid" json:"paid"`
}

// Unpaid returns the outstanding portion of the aggregated sales.
func (t SaleTotals) Unpaid() decimal.Decimal {
	return t.Total.Sub(t.Paid)
}

// StockLevel represents one row of the stock report: cumulative purchased
// quantity, cumulative sold quantity and the derived remainder.
type StockLevel struct {
	ItemID    string  `gorm:"column:item_id" json:"item_id"`
	Name      string  `gorm:"column:name" json:"name"`
	Unit      string  `gorm:"column:unit" json:"unit"`
	Purchased float64 `gorm:"column:purchased" json:"purchased"`
	Sold      float64 `gorm:"column:sold" json:"sold"`
	Remaining float64 `gorm:"-" json:"remaining"`
}
