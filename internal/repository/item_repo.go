package repository

import (
	"context"
	"strings"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NormalizeItemName folds an item name for matching wholesaler transaction
// item names against Item rows. All name comparisons go through this one
// function so collation differences in the storage engine cannot cause the
// stock ledger to drift.
func NormalizeItemName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindByName(ctx context.Context, name string) (*model.Item, error)
	List(ctx context.Context) ([]model.Item, error)
	Count(ctx context.Context) (int64, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Item{}).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByName resolves an item by case-insensitive exact match on the trimmed
// name. Returns gorm.ErrRecordNotFound when no item matches.
func (r *itemRepository) FindByName(ctx context.Context, name string) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).Where("LOWER(name) = ?", NormalizeItemName(name)).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := GetDB(ctx, r.db).Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.Item{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
