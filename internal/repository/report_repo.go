package repository

import (
	"context"
	"fmt"

	"backend/internal/model"

	"gorm.io/gorm"
)

type ReportRepository interface {
	StockLevels(ctx context.Context) ([]model.StockLevel, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// StockLevels aggregates cumulative purchased and sold quantities per item.
// The derived Remaining column is filled in by the service, floored at zero.
func (r *reportRepository) StockLevels(ctx context.Context) ([]model.StockLevel, error) {
	var levels []model.StockLevel
	if err := GetDB(ctx, r.db).Table("items").
		Select("items.id as item_id, items.name as name, items.unit as unit, items.stock_quantity as purchased, COALESCE(SUM(sales.quantity), 0) as sold").
		Joins("LEFT JOIN sales ON sales.item_id = items.id").
		Group("items.id, items.name, items.unit, items.stock_quantity").
		Order("items.name asc").
		Scan(&levels).Error; err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	return levels, nil
}
