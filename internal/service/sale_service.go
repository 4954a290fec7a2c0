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
type RecordSaleRequest struct {
	SaleType   string `json:"sale_type" binding:"required,oneof=cash credit"`
	ItemID     string `json:"item_id" binding:"required"`
	Quantity   string `json:"quantity" binding:"required"`
	UnitPrice  string `json:"unit_price" binding:"required"`
	CustomerID string `json:"customer_id"`
	PaidAmount string `json:"paid_amount"`
}

type SaleResponse struct {
	ID           string  `json:"id"`
	SaleType     string  `json:"sale_type"`
	CustomerID   *string `json:"customer_id"`
	CustomerName string  `json:"customer_name,omitempty"`
	ItemID       string  `json:"item_id"`
	ItemName     string  `json:"item_name,omitempty"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit,omitempty"`
	UnitPrice    string  `json:"unit_price"`
	TotalPrice   string  `json:"total_price"`
	PaidAmount   string  `json:"paid_amount"`
	Date         string  `json:"date"`
}

type InvoiceResponse struct {
	Sale             SaleResponse `json:"sale"`
	CustomerName     string       `json:"customer_name"`
	CustomerPhone    string       `json:"customer_phone"`
	ItemName         string       `json:"item_name"`
	RemainingBalance string       `json:"remaining_balance"`
	Message          string       `json:"message"`
}

type SaleService interface {
	RecordSale(ctx context.Context, req RecordSaleRequest) (SaleResponse, error)
	ListSales(ctx context.Context, limit, offset int) ([]SaleResponse, int64, error)
	DeleteSale(ctx context.Context, id string) error
	Invoice(ctx context.Context, saleID string) (InvoiceResponse, error)
}

type saleService struct {
	saleRepo     repository.SaleRepository
	itemRepo     repository.ItemRepository
	customerRepo repository.CustomerRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	itemRepo repository.ItemRepository,
	customerRepo repository.CustomerRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) SaleService {
	return &saleService{
		saleRepo:     saleRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

// RecordSale validates the request, checks the derived availability of the
// item and persists the sale in one transaction. Item.StockQuantity is never
// decremented here: it counts cumulative received units, and availability is
// recomputed from it on every check.
func (s *saleService) RecordSale(ctx context.Context, req RecordSaleRequest) (SaleResponse, error) {
	quantity, err := strconv.ParseFloat(req.Quantity, 64)
	if err != nil || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return SaleResponse{}, apperror.NewFieldError("quantity", "invalid quantity value")
	}
	if quantity <= 0 {
		return SaleResponse{}, apperror.NewFieldError("quantity", "quantity must be greater than zero")
	}

	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return SaleResponse{}, apperror.NewFieldError("unit_price", "invalid price value")
	}
	if !unitPrice.IsPositive() {
		return SaleResponse{}, apperror.NewFieldError("unit_price", "unit price must be greater than zero")
	}

	paidAmount := decimal.Zero
	if req.PaidAmount != "" {
		paidAmount, err = decimal.NewFromString(req.PaidAmount)
		if err != nil {
			return SaleResponse{}, apperror.NewFieldError("paid_amount", "invalid paid amount value")
		}
		if paidAmount.IsNegative() {
			return SaleResponse{}, apperror.NewFieldError("paid_amount", "paid amount cannot be negative")
		}
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return SaleResponse{}, apperror.NewFieldError("item_id", "invalid item id")
	}

	var customerID *uuid.UUID
	if req.SaleType == model.SaleTypeCredit {
		if req.CustomerID == "" {
			return SaleResponse{}, apperror.NewValidationError("please select a customer for credit sale")
		}
		parsed, parseErr := uuid.Parse(req.CustomerID)
		if parseErr != nil {
			return SaleResponse{}, apperror.NewFieldError("customer_id", "invalid customer id")
		}
		customerID = &parsed
	}

	var sale model.Sale
	var item *model.Item
	var customer *model.Customer

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err = s.itemRepo.FindByID(txCtx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFoundError("item")
			}
			return fmt.Errorf("failed to find item: %w", err)
		}

		sold, sumErr := s.saleRepo.SumQuantityByItem(txCtx, itemID)
		if sumErr != nil {
			return fmt.Errorf("failed to sum sold quantity: %w", sumErr)
		}

		available := item.StockQuantity - sold
		if quantity > available {
			return apperror.NewInsufficientStockError(available, item.Unit)
		}

		totalPrice := unitPrice.Mul(decimal.NewFromFloat(quantity))

		if customerID != nil {
			customer, err = s.customerRepo.FindByID(txCtx, *customerID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.NewNotFoundError("customer")
				}
				return fmt.Errorf("failed to find customer: %w", err)
			}
		} else {
			// Cash sales are always fully paid, regardless of caller input.
			paidAmount = totalPrice
		}

		sale = model.Sale{
			CustomerID: customerID,
			ItemID:     itemID,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalPrice: totalPrice,
			PaidAmount: paidAmount,
		}
		if createErr := s.saleRepo.Create(txCtx, &sale); createErr != nil {
			return fmt.Errorf("failed to create sale: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return SaleResponse{}, err
	}

	s.hub.Notify(ws.EventSaleRecorded, map[string]interface{}{
		"sale_id":  sale.ID.String(),
		"item_id":  item.ID.String(),
		"quantity": sale.Quantity,
	})

	res := toSaleResponse(&sale)
	res.ItemName = item.Name
	res.Unit = item.Unit
	if customer != nil {
		res.CustomerName = customer.Name
	}
	return res, nil
}

// ListSales returns the sale history newest first.
func (s *saleService) ListSales(ctx context.Context, limit, offset int) ([]SaleResponse, int64, error) {
	sales, total, err := s.saleRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}

	res := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		sr := toSaleResponse(&sales[i])
		sr.ItemName = sales[i].Item.Name
		sr.Unit = sales[i].Item.Unit
		if sales[i].Customer != nil {
			sr.CustomerName = sales[i].Customer.Name
		}
		res = append(res, sr)
	}
	return res, total, nil
}

// DeleteSale removes a sale row. There is no compensating stock adjustment:
// availability is a derived subtraction, so removing the row already raises
// the item's available stock.
func (s *saleService) DeleteSale(ctx context.Context, id string) error {
	saleID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewFieldError("id", "invalid sale id")
	}

	if _, err := s.saleRepo.FindByID(ctx, saleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFoundError("sale")
		}
		return fmt.Errorf("failed to find sale: %w", err)
	}

	if err := s.saleRepo.Delete(ctx, saleID); err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	return nil
}

// Invoice builds the invoice view for a credit sale. Cash sales carry no
// balance and have no invoice.
func (s *saleService) Invoice(ctx context.Context, saleID string) (InvoiceResponse, error) {
	id, err := uuid.Parse(saleID)
	if err != nil {
		return InvoiceResponse{}, apperror.NewFieldError("id", "invalid sale id")
	}

	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, apperror.NewNotFoundError("sale")
		}
		return InvoiceResponse{}, fmt.Errorf("failed to find sale: %w", err)
	}

	if sale.IsCash() {
		return InvoiceResponse{}, apperror.NewValidationError("this is a cash sale. No invoice available")
	}

	remaining := sale.TotalPrice.Sub(sale.PaidAmount)
	invoiceDate := sale.Date.Format("2006-01-02")
	message := fmt.Sprintf(
		"Thank you for shopping with us.\nThis is your invoice dated %s.\nTotal amount: Rs %s\nPaid: Rs %s\nRemaining balance: Rs %s",
		invoiceDate, sale.TotalPrice.String(), sale.PaidAmount.String(), remaining.String(),
	)

	res := toSaleResponse(sale)
	res.ItemName = sale.Item.Name
	res.Unit = sale.Item.Unit
	invoice := InvoiceResponse{
		Sale:             res,
		ItemName:         sale.Item.Name,
		RemainingBalance: remaining.String(),
		Message:          message,
	}
	if sale.Customer != nil {
		invoice.CustomerName = sale.Customer.Name
		invoice.CustomerPhone = sale.Customer.Phone
	}
	return invoice, nil
}

func toSaleResponse(sale *model.Sale) SaleResponse {
	res := SaleResponse{
		ID:         sale.ID.String(),
		SaleType:   model.SaleTypeCash,
		ItemID:     sale.ItemID.String(),
		Quantity:   sale.Quantity,
		UnitPrice:  sale.UnitPrice.String(),
		TotalPrice: sale.TotalPrice.String(),
		PaidAmount: sale.PaidAmount.String(),
		Date:       sale.Date.Format(time.RFC3339),
	}
	if sale.CustomerID != nil {
		cid := sale.CustomerID.String()
		res.CustomerID = &cid
		res.SaleType = model.SaleTypeCredit
	}
	return res
}
