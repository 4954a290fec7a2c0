package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WholesalerTransactionRepository interface {
	Create(ctx context.Context, transaction *model.WholesalerTransaction) error
	Update(ctx context.Context, transaction *model.WholesalerTransaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByWholesaler(ctx context.Context, wholesalerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WholesalerTransaction, error)
	ListByWholesaler(ctx context.Context, wholesalerID uuid.UUID) ([]model.WholesalerTransaction, error)
	SumTotalsByWholesaler(ctx context.Context, wholesalerID uuid.UUID) (model.SaleTotals, error)
}

type wholesalerTransactionRepository struct {
	db *gorm.DB
}

func NewWholesalerTransactionRepository(db *gorm.DB) WholesalerTransactionRepository {
	return &wholesalerTransactionRepository{db: db}
}

func (r *wholesalerTransactionRepository) Create(ctx context.Context, transaction *model.WholesalerTransaction) error {
	return GetDB(ctx, r.db).Create(transaction).Error
}

func (r *wholesalerTransactionRepository) Update(ctx context.Context, transaction *model.WholesalerTransaction) error {
	return GetDB(ctx, r.db).Save(transaction).Error
}

func (r *wholesalerTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.WholesalerTransaction{}).Error
}

// DeleteByWholesaler hard-deletes every transaction of a wholesaler. Used
// when the wholesaler itself is removed.
func (r *wholesalerTransactionRepository) DeleteByWholesaler(ctx context.Context, wholesalerID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("wholesaler_id = ?", wholesalerID).Delete(&model.WholesalerTransaction{}).Error
}

func (r *wholesalerTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WholesalerTransaction, error) {
	var transaction model.WholesalerTransaction
	if err := GetDB(ctx, r.db).First(&transaction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *wholesalerTransactionRepository) ListByWholesaler(ctx context.Context, wholesalerID uuid.UUID) ([]model.WholesalerTransaction, error) {
	var transactions []model.WholesalerTransaction
	if err := GetDB(ctx, r.db).
		Where("wholesaler_id = ?", wholesalerID).
		Order("date desc").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *wholesalerTransactionRepository) SumTotalsByWholesaler(ctx context.Context, wholesalerID uuid.UUID) (model.SaleTotals, error) {
	var totals model.SaleTotals
	if err := GetDB(ctx, r.db).Model(&model.WholesalerTransaction{}).
		Where("wholesaler_id = ?", wholesalerID).
		Select("COALESCE(SUM(total_price), 0) as total, COALESCE(SUM(paid_amount), 0) as paid").
		Scan(&totals).Error; err != nil {
		return model.SaleTotals{}, err
	}
	return totals, nil
}
