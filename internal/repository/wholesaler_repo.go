package repository

import (
	"context"
	"strings"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WholesalerRepository interface {
	Create(ctx context.Context, wholesaler *model.Wholesaler) error
	Update(ctx context.Context, wholesaler *model.Wholesaler) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Wholesaler, error)
	FindByPhone(ctx context.Context, phone string) (*model.Wholesaler, error)
	List(ctx context.Context) ([]model.Wholesaler, error)
	Search(ctx context.Context, query string, limit int) ([]model.Wholesaler, error)
}

type wholesalerRepository struct {
	db *gorm.DB
}

func NewWholesalerRepository(db *gorm.DB) WholesalerRepository {
	return &wholesalerRepository{db: db}
}

func (r *wholesalerRepository) Create(ctx context.Context, wholesaler *model.Wholesaler) error {
	return GetDB(ctx, r.db).Create(wholesaler).Error
}

func (r *wholesalerRepository) Update(ctx context.Context, wholesaler *model.Wholesaler) error {
	return GetDB(ctx, r.db).Save(wholesaler).Error
}

func (r *wholesalerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Wholesaler{}).Error
}

func (r *wholesalerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Wholesaler, error) {
	var wholesaler model.Wholesaler
	if err := GetDB(ctx, r.db).First(&wholesaler, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wholesaler, nil
}

func (r *wholesalerRepository) FindByPhone(ctx context.Context, phone string) (*model.Wholesaler, error) {
	var wholesaler model.Wholesaler
	if err := GetDB(ctx, r.db).Where("phone = ?", phone).First(&wholesaler).Error; err != nil {
		return nil, err
	}
	return &wholesaler, nil
}

func (r *wholesalerRepository) List(ctx context.Context) ([]model.Wholesaler, error) {
	var wholesalers []model.Wholesaler
	if err := GetDB(ctx, r.db).Order("name asc").Find(&wholesalers).Error; err != nil {
		return nil, err
	}
	return wholesalers, nil
}

func (r *wholesalerRepository) Search(ctx context.Context, query string, limit int) ([]model.Wholesaler, error) {
	var wholesalers []model.Wholesaler
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	if err := GetDB(ctx, r.db).
		Where("LOWER(name) LIKE ? OR phone LIKE ?", pattern, "%"+strings.TrimSpace(query)+"%").
		Limit(limit).Find(&wholesalers).Error; err != nil {
		return nil, err
	}
	return wholesalers, nil
}
