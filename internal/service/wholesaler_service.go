package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type CreateWholesalerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UpdateWholesalerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type CreateTransactionRequest struct {
	WholesalerID string `json:"wholesaler_id" binding:"required"`
	ItemName     string `json:"item_name" binding:"required"`
	Quantity     string `json:"quantity" binding:"required"`
	PricePerUnit string `json:"price_per_unit" binding:"required"`
	PaidAmount   string `json:"paid_amount"`
	Notes        string `json:"notes"`
}

type EditTransactionRequest struct {
	ItemName     string `json:"item_name" binding:"required"`
	Quantity     string `json:"quantity" binding:"required"`
	PricePerUnit string `json:"price_per_unit" binding:"required"`
	PaidAmount   string `json:"paid_amount" binding:"required"`
	Date         string `json:"date"` // optional, YYYY-MM-DD
	Notes        string `json:"notes"`
}

type TransactionResponse struct {
	ID           string  `json:"id"`
	WholesalerID string  `json:"wholesaler_id"`
	ItemName     string  `json:"item_name"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit string  `json:"price_per_unit"`
	TotalPrice   string  `json:"total_price"`
	PaidAmount   string  `json:"paid_amount"`
	Date         string  `json:"date"`
	Notes        string  `json:"notes"`
}

type WholesalerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type WholesalerDetailResponse struct {
	Wholesaler   WholesalerResponse    `json:"wholesaler"`
	Transactions []TransactionResponse `json:"transactions"`
	TotalBill    string                `json:"total_bill"`
	TotalPaid    string                `json:"total_paid"`
	Balance      string                `json:"balance"`
	AbsBalance   string                `json:"abs_balance"`
}

type WholesalerService interface {
	CreateWholesaler(ctx context.Context, req CreateWholesalerRequest) (WholesalerResponse, error)
	UpdateWholesaler(ctx context.Context, id string, req UpdateWholesalerRequest) (WholesalerResponse, error)
	DeleteWholesaler(ctx context.Context, id string) error
	ListWholesalers(ctx context.Context) ([]WholesalerResponse, error)
	SearchWholesalers(ctx context.Context, query string) ([]WholesalerResponse, error)
	WholesalerDetail(ctx context.Context, id string) (WholesalerDetailResponse, error)

	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (TransactionResponse, error)
	EditTransaction(ctx context.Context, id string, req EditTransactionRequest) (TransactionResponse, error)
	DeleteTransaction(ctx context.Context, id string) error
}

type wholesalerService struct {
	wholesalerRepo repository.WholesalerRepository
	txRepo         repository.WholesalerTransactionRepository
	itemRepo       repository.ItemRepository
	txManager      repository.TransactionManager
	hub            *ws.Hub
}

func NewWholesalerService(
	wholesalerRepo repository.WholesalerRepository,
	txRepo repository.WholesalerTransactionRepository,
	itemRepo repository.ItemRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) WholesalerService {
	return &wholesalerService{
		wholesalerRepo: wholesalerRepo,
		txRepo:         txRepo,
		itemRepo:       itemRepo,
		txManager:      txManager,
		hub:            hub,
	}
}

// --- Wholesaler CRUD ---

func (s *wholesalerService) CreateWholesaler(ctx context.Context, req CreateWholesalerRequest) (WholesalerResponse, error) {
	if req.Phone != "" {
		existing, err := s.wholesalerRepo.FindByPhone(ctx, req.Phone)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return WholesalerResponse{}, fmt.Errorf("failed to check phone: %w", err)
		}
		if existing != nil {
			return WholesalerResponse{}, apperror.NewDuplicateError(
				fmt.Sprintf("wholesaler with phone %s already exists: %s", req.Phone, existing.Name))
		}
	}

	wholesaler := model.Wholesaler{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.wholesalerRepo.Create(ctx, &wholesaler); err != nil {
		return WholesalerResponse{}, fmt.Errorf("failed to create wholesaler: %w", err)
	}
	return toWholesalerResponse(&wholesaler), nil
}

func (s *wholesalerService) UpdateWholesaler(ctx context.Context, id string, req UpdateWholesalerRequest) (WholesalerResponse, error) {
	wholesalerID, err := uuid.Parse(id)
	if err != nil {
		return WholesalerResponse{}, apperror.NewFieldError("id", "invalid wholesaler id")
	}

	wholesaler, err := s.wholesalerRepo.FindByID(ctx, wholesalerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WholesalerResponse{}, apperror.NewNotFoundError("wholesaler")
		}
		return WholesalerResponse{}, fmt.Errorf("failed to find wholesaler: %w", err)
	}

	if req.Phone != "" && req.Phone != wholesaler.Phone {
		existing, findErr := s.wholesalerRepo.FindByPhone(ctx, req.Phone)
		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return WholesalerResponse{}, fmt.Errorf("failed to check phone: %w", findErr)
		}
		if existing != nil {
			return WholesalerResponse{}, apperror.NewDuplicateError(
				fmt.Sprintf("wholesaler with phone %s already exists: %s", req.Phone, existing.Name))
		}
	}

	wholesaler.Name = req.Name
	wholesaler.Phone = req.Phone
	wholesaler.Address = req.Address
	if err := s.wholesalerRepo.Update(ctx, wholesaler); err != nil {
		return WholesalerResponse{}, fmt.Errorf("failed to update wholesaler: %w", err)
	}
	return toWholesalerResponse(wholesaler), nil
}

// DeleteWholesaler hard-deletes the wholesaler and all its transactions.
// Item stock is left untouched: the goods were still received.
func (s *wholesalerService) DeleteWholesaler(ctx context.Context, id string) error {
	wholesalerID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewFieldError("id", "invalid wholesaler id")
	}

	if _, err := s.wholesalerRepo.FindByID(ctx, wholesalerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFoundError("wholesaler")
		}
		return fmt.Errorf("failed to find wholesaler: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.txRepo.DeleteByWholesaler(txCtx, wholesalerID); err != nil {
			return fmt.Errorf("failed to delete wholesaler transactions: %w", err)
		}
		if err := s.wholesalerRepo.Delete(txCtx, wholesalerID); err != nil {
			return fmt.Errorf("failed to delete wholesaler: %w", err)
		}
		return nil
	})
}

func (s *wholesalerService) ListWholesalers(ctx context.Context) ([]WholesalerResponse, error) {
	wholesalers, err := s.wholesalerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wholesalers: %w", err)
	}
	res := make([]WholesalerResponse, 0, len(wholesalers))
	for i := range wholesalers {
		res = append(res, toWholesalerResponse(&wholesalers[i]))
	}
	return res, nil
}

func (s *wholesalerService) SearchWholesalers(ctx context.Context, query string) ([]WholesalerResponse, error) {
	if query == "" {
		return []WholesalerResponse{}, nil
	}
	wholesalers, err := s.wholesalerRepo.Search(ctx, query, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to search wholesalers: %w", err)
	}
	res := make([]WholesalerResponse, 0, len(wholesalers))
	for i := range wholesalers {
		res = append(res, toWholesalerResponse(&wholesalers[i]))
	}
	return res, nil
}

func (s *wholesalerService) WholesalerDetail(ctx context.Context, id string) (WholesalerDetailResponse, error) {
	wholesalerID, err := uuid.Parse(id)
	if err != nil {
		return WholesalerDetailResponse{}, apperror.NewFieldError("id", "invalid wholesaler id")
	}

	wholesaler, err := s.wholesalerRepo.FindByID(ctx, wholesalerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WholesalerDetailResponse{}, apperror.NewNotFoundError("wholesaler")
		}
		return WholesalerDetailResponse{}, fmt.Errorf("failed to find wholesaler: %w", err)
	}

	transactions, err := s.txRepo.ListByWholesaler(ctx, wholesalerID)
	if err != nil {
		return WholesalerDetailResponse{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	totals, err := s.txRepo.SumTotalsByWholesaler(ctx, wholesalerID)
	if err != nil {
		return WholesalerDetailResponse{}, fmt.Errorf("failed to sum transactions: %w", err)
	}
	balance := totals.Unpaid()

	res := WholesalerDetailResponse{
		Wholesaler:   toWholesalerResponse(wholesaler),
		Transactions: make([]TransactionResponse, 0, len(transactions)),
		TotalBill:    totals.Total.String(),
		TotalPaid:    totals.Paid.String(),
		Balance:      balance.String(),
		AbsBalance:   balance.Abs().String(),
	}
	for i := range transactions {
		res.Transactions = append(res.Transactions, toTransactionResponse(&transactions[i]))
	}
	return res, nil
}

// --- Transactions ---

// CreateTransaction records a purchase from a wholesaler and reconciles item
// stock: an existing item (matched by case-insensitive name) gains the
// purchased quantity and takes the latest wholesale cost; a missing item is
// created, seeded with the transaction's quantity and price as both purchase
// and sale price. Item mutation and transaction insert commit together.
func (s *wholesalerService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (TransactionResponse, error) {
	if repository.NormalizeItemName(req.ItemName) == "" {
		return TransactionResponse{}, apperror.NewFieldError("item_name", "item name is required")
	}
	quantity, pricePerUnit, paidAmount, err := parseTransactionAmounts(req.Quantity, req.PricePerUnit, req.PaidAmount)
	if err != nil {
		return TransactionResponse{}, err
	}

	wholesalerID, err := uuid.Parse(req.WholesalerID)
	if err != nil {
		return TransactionResponse{}, apperror.NewFieldError("wholesaler_id", "invalid wholesaler id")
	}
	if _, err := s.wholesalerRepo.FindByID(ctx, wholesalerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransactionResponse{}, apperror.NewNotFoundError("wholesaler")
		}
		return TransactionResponse{}, fmt.Errorf("failed to find wholesaler: %w", err)
	}

	transaction := model.WholesalerTransaction{
		WholesalerID: wholesalerID,
		ItemName:     req.ItemName,
		Quantity:     quantity,
		PricePerUnit: pricePerUnit,
		TotalPrice:   pricePerUnit.Mul(decimal.NewFromFloat(quantity)),
		PaidAmount:   paidAmount,
		Notes:        req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.receiveStock(txCtx, req.ItemName, quantity, pricePerUnit); err != nil {
			return err
		}
		if err := s.txRepo.Create(txCtx, &transaction); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return TransactionResponse{}, err
	}

	s.hub.Notify(ws.EventStockChanged, map[string]interface{}{
		"item_name": req.ItemName,
		"quantity":  quantity,
	})
	return toTransactionResponse(&transaction), nil
}

// EditTransaction rewrites a purchase and reconciles stock by delta. When the
// item name is unchanged the matched item's stock moves by new minus old
// quantity; when the name changed, the old item gives back the old quantity
// (floored at zero) and the new name gains the new quantity, creating the
// item when no match exists.
func (s *wholesalerService) EditTransaction(ctx context.Context, id string, req EditTransactionRequest) (TransactionResponse, error) {
	transactionID, err := uuid.Parse(id)
	if err != nil {
		return TransactionResponse{}, apperror.NewFieldError("id", "invalid transaction id")
	}

	if repository.NormalizeItemName(req.ItemName) == "" {
		return TransactionResponse{}, apperror.NewFieldError("item_name", "item name is required")
	}
	quantity, pricePerUnit, paidAmount, err := parseTransactionAmounts(req.Quantity, req.PricePerUnit, req.PaidAmount)
	if err != nil {
		return TransactionResponse{}, err
	}

	var date *time.Time
	if req.Date != "" {
		parsed, parseErr := time.Parse("2006-01-02", req.Date)
		if parseErr != nil {
			return TransactionResponse{}, apperror.NewFieldError("date", "invalid date format")
		}
		date = &parsed
	}

	transaction, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransactionResponse{}, apperror.NewNotFoundError("transaction")
		}
		return TransactionResponse{}, fmt.Errorf("failed to find transaction: %w", err)
	}

	oldItemName := transaction.ItemName
	oldQuantity := transaction.Quantity

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if repository.NormalizeItemName(req.ItemName) == repository.NormalizeItemName(oldItemName) {
			item, findErr := s.itemRepo.FindByName(txCtx, req.ItemName)
			switch {
			case findErr == nil:
				item.StockQuantity += quantity - oldQuantity
				item.PurchasePrice = pricePerUnit
				if item.SalePrice.IsZero() {
					item.SalePrice = pricePerUnit
				}
				if updateErr := s.itemRepo.Update(txCtx, item); updateErr != nil {
					return fmt.Errorf("failed to adjust item stock: %w", updateErr)
				}
			case errors.Is(findErr, gorm.ErrRecordNotFound):
				// Data drift: the transaction references an item that no
				// longer exists. Recreate it seeded with the new values.
				if createErr := s.itemRepo.Create(txCtx, newItemFromPurchase(req.ItemName, quantity, pricePerUnit)); createErr != nil {
					return fmt.Errorf("failed to recreate item: %w", createErr)
				}
			default:
				return fmt.Errorf("failed to find item: %w", findErr)
			}
		} else {
			oldItem, findErr := s.itemRepo.FindByName(txCtx, oldItemName)
			if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to find item: %w", findErr)
			}
			if oldItem != nil {
				oldItem.StockQuantity -= oldQuantity
				if oldItem.StockQuantity < 0 {
					oldItem.StockQuantity = 0
				}
				if updateErr := s.itemRepo.Update(txCtx, oldItem); updateErr != nil {
					return fmt.Errorf("failed to adjust item stock: %w", updateErr)
				}
			}
			if err := s.receiveStock(txCtx, req.ItemName, quantity, pricePerUnit); err != nil {
				return err
			}
		}

		transaction.ItemName = req.ItemName
		transaction.Quantity = quantity
		transaction.PricePerUnit = pricePerUnit
		transaction.TotalPrice = pricePerUnit.Mul(decimal.NewFromFloat(quantity))
		transaction.PaidAmount = paidAmount
		transaction.Notes = req.Notes
		if date != nil {
			transaction.Date = *date
		}
		if updateErr := s.txRepo.Update(txCtx, transaction); updateErr != nil {
			return fmt.Errorf("failed to update transaction: %w", updateErr)
		}
		return nil
	})
	if err != nil {
		return TransactionResponse{}, err
	}

	s.hub.Notify(ws.EventStockChanged, map[string]interface{}{
		"item_name": req.ItemName,
		"quantity":  quantity,
	})
	return toTransactionResponse(transaction), nil
}

// DeleteTransaction removes a purchase and gives back its quantity from the
// matched item's cumulative stock, floored at zero. When no item matches the
// transaction's name the stock adjustment is silently skipped and the row is
// still deleted.
func (s *wholesalerService) DeleteTransaction(ctx context.Context, id string) error {
	transactionID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewFieldError("id", "invalid transaction id")
	}

	transaction, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFoundError("transaction")
		}
		return fmt.Errorf("failed to find transaction: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, findErr := s.itemRepo.FindByName(txCtx, transaction.ItemName)
		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find item: %w", findErr)
		}
		if item != nil {
			item.StockQuantity -= transaction.Quantity
			if item.StockQuantity < 0 {
				item.StockQuantity = 0
			}
			if updateErr := s.itemRepo.Update(txCtx, item); updateErr != nil {
				return fmt.Errorf("failed to adjust item stock: %w", updateErr)
			}
		}
		if deleteErr := s.txRepo.Delete(txCtx, transactionID); deleteErr != nil {
			return fmt.Errorf("failed to delete transaction: %w", deleteErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.hub.Notify(ws.EventStockChanged, map[string]interface{}{
		"item_name": transaction.ItemName,
	})
	return nil
}

// receiveStock applies a purchase to the item ledger: an existing match gains
// quantity and the latest wholesale cost (sale price backfilled only when
// unset), a missing item is created from the purchase.
func (s *wholesalerService) receiveStock(ctx context.Context, itemName string, quantity float64, pricePerUnit decimal.Decimal) error {
	item, err := s.itemRepo.FindByName(ctx, itemName)
	switch {
	case err == nil:
		item.PurchasePrice = pricePerUnit
		if item.SalePrice.IsZero() {
			item.SalePrice = pricePerUnit
		}
		item.StockQuantity += quantity
		if updateErr := s.itemRepo.Update(ctx, item); updateErr != nil {
			return fmt.Errorf("failed to update item stock: %w", updateErr)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if createErr := s.itemRepo.Create(ctx, newItemFromPurchase(itemName, quantity, pricePerUnit)); createErr != nil {
			return fmt.Errorf("failed to create item: %w", createErr)
		}
		return nil
	default:
		return fmt.Errorf("failed to find item: %w", err)
	}
}

func newItemFromPurchase(name string, quantity float64, pricePerUnit decimal.Decimal) *model.Item {
	return &model.Item{
		Name:          name,
		PurchasePrice: pricePerUnit,
		SalePrice:     pricePerUnit,
		StockQuantity: quantity,
	}
}

func parseTransactionAmounts(quantityStr, priceStr, paidStr string) (float64, decimal.Decimal, decimal.Decimal, error) {
	quantity, err := strconv.ParseFloat(quantityStr, 64)
	if err != nil || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return 0, decimal.Zero, decimal.Zero, apperror.NewFieldError("quantity", "invalid quantity value")
	}
	if quantity <= 0 {
		return 0, decimal.Zero, decimal.Zero, apperror.NewFieldError("quantity", "quantity must be greater than zero")
	}

	pricePerUnit, err := decimal.NewFromString(priceStr)
	if err != nil {
		return 0, decimal.Zero, decimal.Zero, apperror.NewFieldError("price_per_unit", "invalid price value")
	}
	if !pricePerUnit.IsPositive() {
		return 0, decimal.Zero, decimal.Zero, apperror.NewFieldError("price_per_unit", "price must be greater than zero")
	}

	paidAmount := decimal.Zero
	if paidStr != "" {
		paidAmount, err = decimal.NewFromString(paidStr)
		if err != nil {
			return 0, decimal.Zero, decimal.Zero, apperror.NewFieldError("paid_amount", "invalid paid amount value")
		}
		if paidAmount.IsNegative() {
			return 0, decimal.Zero, decimal.Zero, apperror.NewFieldError("paid_amount", "paid amount cannot be negative")
		}
	}
	return quantity, pricePerUnit, paidAmount, nil
}

func toWholesalerResponse(w *model.Wholesaler) WholesalerResponse {
	return WholesalerResponse{
		ID:      w.ID.String(),
		Name:    w.Name,
		Phone:   w.Phone,
		Address: w.Address,
	}
}

func toTransactionResponse(t *model.WholesalerTransaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID.String(),
		WholesalerID: t.WholesalerID.String(),
		ItemName:     t.ItemName,
		Quantity:     t.Quantity,
		PricePerUnit: t.PricePerUnit.String(),
		TotalPrice:   t.TotalPrice.String(),
		PaidAmount:   t.PaidAmount.String(),
		Date:         t.Date.Format(time.RFC3339),
		Notes:        t.Notes,
	}
}
