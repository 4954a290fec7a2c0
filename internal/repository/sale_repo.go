package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, limit, offset int) ([]model.Sale, int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Sale, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]model.Sale, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	SumQuantityByItem(ctx context.Context, itemID uuid.UUID) (float64, error)
	SumTotalsByCustomer(ctx context.Context, customerID uuid.UUID, start, end *time.Time) (model.SaleTotals, error)
	SumTotalsBetween(ctx context.Context, start, end time.Time) (model.SaleTotals, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return GetDB(ctx, r.db).Create(sale).Error
}

func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Sale{}).Error
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := GetDB(ctx, r.db).Preload("Customer").Preload("Item").First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, limit, offset int) ([]model.Sale, int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []model.Sale
	if err := GetDB(ctx, r.db).Preload("Customer").Preload("Item").
		Order("date desc").
		Limit(limit).Offset(offset).
		Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

func (r *saleRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).Preload("Item").
		Where("customer_id = ?", customerID).
		Order("date desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) ListBetween(ctx context.Context, start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).Preload("Customer").Preload("Item").
		Where("date >= ? AND date < ?", start, end).
		Order("date desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Where("customer_id = ?", customerID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SumQuantityByItem returns the cumulative quantity ever sold for an item.
// Subtracting it from Item.StockQuantity yields the derived availability.
func (r *saleRepository) SumQuantityByItem(ctx context.Context, itemID uuid.UUID) (float64, error) {
	var sold float64
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sold).Error; err != nil {
		return 0, err
	}
	return sold, nil
}

func (r *saleRepository) SumTotalsByCustomer(ctx context.Context, customerID uuid.UUID, start, end *time.Time) (model.SaleTotals, error) {
	var totals model.SaleTotals
	query := GetDB(ctx, r.db).Model(&model.Sale{}).
		Where("customer_id = ?", customerID).
		Select("COALESCE(SUM(total_price), 0) as total, COALESCE(SUM(paid_amount), 0) as paid")
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date < ?", *end)
	}
	if err := query.Scan(&totals).Error; err != nil {
		return model.SaleTotals{}, err
	}
	return totals, nil
}

func (r *saleRepository) SumTotalsBetween(ctx context.Context, start, end time.Time) (model.SaleTotals, error) {
	var totals model.SaleTotals
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Where("date >= ? AND date < ?", start, end).
		Select("COALESCE(SUM(total_price), 0) as total, COALESCE(SUM(paid_amount), 0) as paid").
		Scan(&totals).Error; err != nil {
		return model.SaleTotals{}, err
	}
	return totals, nil
}
