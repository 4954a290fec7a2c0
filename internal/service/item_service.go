package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type CreateItemRequest struct {
	Name          string `json:"name" binding:"required"`
	Category      string `json:"category"`
	Unit          string `json:"unit"`
	PurchasePrice string `json:"purchase_price"`
	SalePrice     string `json:"sale_price"`
	StockQuantity string `json:"stock_quantity"`
}

type ItemResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Unit          string  `json:"unit"`
	PurchasePrice string  `json:"purchase_price"`
	SalePrice     string  `json:"sale_price"`
	StockQuantity float64 `json:"stock_quantity"`
}

type ItemService interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error)
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context) ([]ItemResponse, error)
}

type itemService struct {
	itemRepo repository.ItemRepository
}

func NewItemService(itemRepo repository.ItemRepository) ItemService {
	return &itemService{itemRepo: itemRepo}
}

// CreateItem adds an item to the catalogue. Numeric fields must parse;
// unparsable input is rejected with a field-level error rather than silently
// coerced to zero, since a swallowed typo here corrupts financial figures.
func (s *itemService) CreateItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error) {
	purchasePrice := decimal.Zero
	if req.PurchasePrice != "" {
		var err error
		purchasePrice, err = decimal.NewFromString(req.PurchasePrice)
		if err != nil {
			return ItemResponse{}, apperror.NewFieldError("purchase_price", "invalid purchase price value")
		}
	}

	salePrice := decimal.Zero
	if req.SalePrice != "" {
		var err error
		salePrice, err = decimal.NewFromString(req.SalePrice)
		if err != nil {
			return ItemResponse{}, apperror.NewFieldError("sale_price", "invalid sale price value")
		}
	}

	stockQuantity := 0.0
	if req.StockQuantity != "" {
		var err error
		stockQuantity, err = strconv.ParseFloat(req.StockQuantity, 64)
		if err != nil || math.IsNaN(stockQuantity) || math.IsInf(stockQuantity, 0) {
			return ItemResponse{}, apperror.NewFieldError("stock_quantity", "invalid stock quantity value")
		}
		if stockQuantity < 0 {
			return ItemResponse{}, apperror.NewFieldError("stock_quantity", "stock quantity cannot be negative")
		}
	}

	item := model.Item{
		Name:          req.Name,
		Category:      req.Category,
		Unit:          req.Unit,
		PurchasePrice: purchasePrice,
		SalePrice:     salePrice,
		StockQuantity: stockQuantity,
	}
	if err := s.itemRepo.Create(ctx, &item); err != nil {
		return ItemResponse{}, fmt.Errorf("failed to create item: %w", err)
	}
	return toItemResponse(&item), nil
}

func (s *itemService) DeleteItem(ctx context.Context, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewFieldError("id", "invalid item id")
	}

	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFoundError("item")
		}
		return fmt.Errorf("failed to find item: %w", err)
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (s *itemService) ListItems(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	res := make([]ItemResponse, 0, len(items))
	for i := range items {
		res = append(res, toItemResponse(&items[i]))
	}
	return res, nil
}

func toItemResponse(item *model.Item) ItemResponse {
	return ItemResponse{
		ID:            item.ID.String(),
		Name:          item.Name,
		Category:      item.Category,
		Unit:          item.Unit,
		PurchasePrice: item.PurchasePrice.String(),
		SalePrice:     item.SalePrice.String(),
		StockQuantity: item.StockQuantity,
	}
}
