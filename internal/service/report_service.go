package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Period selects the date window of a balance query.
type Period string

const (
	PeriodAll       Period = "all"
	PeriodThisMonth Period = "this_month"
	PeriodLastMonth Period = "last_month"
)

// ParsePeriod maps a query string onto a Period, defaulting to all-time.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "", string(PeriodAll):
		return PeriodAll, nil
	case string(PeriodThisMonth):
		return PeriodThisMonth, nil
	case string(PeriodLastMonth):
		return PeriodLastMonth, nil
	default:
		return "", apperror.NewFieldError("period", "invalid period value")
	}
}

// MonthWindow returns the [start, end) bounds of the calendar month that
// contains now, or of the previous month. The previous month of January is
// December of the prior year.
func MonthWindow(now time.Time, previous bool) (time.Time, time.Time) {
	year, month := now.Year(), now.Month()
	if previous {
		if month == time.January {
			month = time.December
			year--
		} else {
			month--
		}
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

// DayWindow returns the [start, end) bounds of the calendar day containing t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// DTOs
type BalanceResponse struct {
	Total  string `json:"total"`
	Paid   string `json:"paid"`
	Unpaid string `json:"unpaid"`
}

type WholesalerBalanceResponse struct {
	Total      string `json:"total"`
	Paid       string `json:"paid"`
	Balance    string `json:"balance"`
	AbsBalance string `json:"abs_balance"`
}

type DailySalesResponse struct {
	Date        string         `json:"date"`
	Sales       []SaleResponse `json:"sales"`
	TotalSales  string         `json:"total_sales"`
	TotalPaid   string         `json:"total_paid"`
	TotalUnpaid string         `json:"total_unpaid"`
}

type CustomerSummaryRow struct {
	CustomerID      string `json:"customer_id"`
	CustomerName    string `json:"customer_name"`
	ThisMonthBill   string `json:"this_month_bill"`
	ThisMonthUnpaid string `json:"this_month_unpaid"`
	LastMonthBill   string `json:"last_month_bill"`
	LastMonthUnpaid string `json:"last_month_unpaid"`
	TotalUnpaid     string `json:"total_unpaid"`
}

type DashboardResponse struct {
	TotalCustomers int64  `json:"total_customers"`
	TotalItems     int64  `json:"total_items"`
	TodaySales     string `json:"today_sales"`
}

type ReportService interface {
	GetAvailableStock(ctx context.Context, itemID string) (float64, error)
	StockLevels(ctx context.Context) ([]model.StockLevel, error)
	GetCustomerBalance(ctx context.Context, customerID string, period Period) (BalanceResponse, error)
	CustomerSummary(ctx context.Context) ([]CustomerSummaryRow, error)
	GetWholesalerBalance(ctx context.Context, wholesalerID string) (WholesalerBalanceResponse, error)
	GetDailySales(ctx context.Context, day time.Time) (DailySalesResponse, error)
	Dashboard(ctx context.Context) (DashboardResponse, error)
}

type reportService struct {
	itemRepo       repository.ItemRepository
	saleRepo       repository.SaleRepository
	customerRepo   repository.CustomerRepository
	wholesalerRepo repository.WholesalerRepository
	txRepo         repository.WholesalerTransactionRepository
	reportRepo     repository.ReportRepository
	now            func() time.Time
}

func NewReportService(
	itemRepo repository.ItemRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	wholesalerRepo repository.WholesalerRepository,
	txRepo repository.WholesalerTransactionRepository,
	reportRepo repository.ReportRepository,
) ReportService {
	return &reportService{
		itemRepo:       itemRepo,
		saleRepo:       saleRepo,
		customerRepo:   customerRepo,
		wholesalerRepo: wholesalerRepo,
		txRepo:         txRepo,
		reportRepo:     reportRepo,
		now:            time.Now,
	}
}

// GetAvailableStock returns the derived availability of an item: cumulative
// received minus cumulative sold, floored at zero.
func (s *reportService) GetAvailableStock(ctx context.Context, itemID string) (float64, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return 0, apperror.NewFieldError("id", "invalid item id")
	}

	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperror.NewNotFoundError("item")
		}
		return 0, fmt.Errorf("failed to find item: %w", err)
	}

	sold, err := s.saleRepo.SumQuantityByItem(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to sum sold quantity: %w", err)
	}

	available := item.StockQuantity - sold
	if available < 0 {
		available = 0
	}
	return available, nil
}

func (s *reportService) StockLevels(ctx context.Context) ([]model.StockLevel, error) {
	levels, err := s.reportRepo.StockLevels(ctx)
	if err != nil {
		return nil, err
	}
	for i := range levels {
		remaining := levels[i].Purchased - levels[i].Sold
		if remaining < 0 {
			remaining = 0
		}
		levels[i].Remaining = remaining
	}
	return levels, nil
}

func (s *reportService) GetCustomerBalance(ctx context.Context, customerID string, period Period) (BalanceResponse, error) {
	id, err := uuid.Parse(customerID)
	if err != nil {
		return BalanceResponse{}, apperror.NewFieldError("id", "invalid customer id")
	}

	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, apperror.NewNotFoundError("customer")
		}
		return BalanceResponse{}, fmt.Errorf("failed to find customer: %w", err)
	}

	var start, end *time.Time
	switch period {
	case PeriodThisMonth:
		s0, e0 := MonthWindow(s.now(), false)
		start, end = &s0, &e0
	case PeriodLastMonth:
		s0, e0 := MonthWindow(s.now(), true)
		start, end = &s0, &e0
	}

	totals, err := s.saleRepo.SumTotalsByCustomer(ctx, id, start, end)
	if err != nil {
		return BalanceResponse{}, fmt.Errorf("failed to sum sales: %w", err)
	}
	return BalanceResponse{
		Total:  totals.Total.String(),
		Paid:   totals.Paid.String(),
		Unpaid: totals.Unpaid().String(),
	}, nil
}

// CustomerSummary reports, for every customer, this month's and last month's
// billed/unpaid amounts plus the all-time outstanding balance. Customers
// without sales appear with zero totals.
func (s *reportService) CustomerSummary(ctx context.Context) ([]CustomerSummaryRow, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	now := s.now()
	thisStart, thisEnd := MonthWindow(now, false)
	lastStart, lastEnd := MonthWindow(now, true)

	rows := make([]CustomerSummaryRow, 0, len(customers))
	for i := range customers {
		c := &customers[i]

		thisTotals, err := s.saleRepo.SumTotalsByCustomer(ctx, c.ID, &thisStart, &thisEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to sum sales: %w", err)
		}
		lastTotals, err := s.saleRepo.SumTotalsByCustomer(ctx, c.ID, &lastStart, &lastEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to sum sales: %w", err)
		}
		allTotals, err := s.saleRepo.SumTotalsByCustomer(ctx, c.ID, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to sum sales: %w", err)
		}

		rows = append(rows, CustomerSummaryRow{
			CustomerID:      c.ID.String(),
			CustomerName:    c.Name,
			ThisMonthBill:   thisTotals.Total.String(),
			ThisMonthUnpaid: thisTotals.Unpaid().String(),
			LastMonthBill:   lastTotals.Total.String(),
			LastMonthUnpaid: lastTotals.Unpaid().String(),
			TotalUnpaid:     allTotals.Unpaid().String(),
		})
	}
	return rows, nil
}

func (s *reportService) GetWholesalerBalance(ctx context.Context, wholesalerID string) (WholesalerBalanceResponse, error) {
	id, err := uuid.Parse(wholesalerID)
	if err != nil {
		return WholesalerBalanceResponse{}, apperror.NewFieldError("id", "invalid wholesaler id")
	}

	if _, err := s.wholesalerRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WholesalerBalanceResponse{}, apperror.NewNotFoundError("wholesaler")
		}
		return WholesalerBalanceResponse{}, fmt.Errorf("failed to find wholesaler: %w", err)
	}

	totals, err := s.txRepo.SumTotalsByWholesaler(ctx, id)
	if err != nil {
		return WholesalerBalanceResponse{}, fmt.Errorf("failed to sum transactions: %w", err)
	}
	balance := totals.Unpaid()
	return WholesalerBalanceResponse{
		Total:      totals.Total.String(),
		Paid:       totals.Paid.String(),
		Balance:    balance.String(),
		AbsBalance: balance.Abs().String(),
	}, nil
}

func (s *reportService) GetDailySales(ctx context.Context, day time.Time) (DailySalesResponse, error) {
	start, end := DayWindow(day)

	sales, err := s.saleRepo.ListBetween(ctx, start, end)
	if err != nil {
		return DailySalesResponse{}, fmt.Errorf("failed to list sales: %w", err)
	}

	totals, err := s.saleRepo.SumTotalsBetween(ctx, start, end)
	if err != nil {
		return DailySalesResponse{}, fmt.Errorf("failed to sum sales: %w", err)
	}

	res := DailySalesResponse{
		Date:        start.Format("2006-01-02"),
		Sales:       make([]SaleResponse, 0, len(sales)),
		TotalSales:  totals.Total.String(),
		TotalPaid:   totals.Paid.String(),
		TotalUnpaid: totals.Unpaid().String(),
	}
	for i := range sales {
		sr := toSaleResponse(&sales[i])
		sr.ItemName = sales[i].Item.Name
		sr.Unit = sales[i].Item.Unit
		if sales[i].Customer != nil {
			sr.CustomerName = sales[i].Customer.Name
		}
		res.Sales = append(res.Sales, sr)
	}
	return res, nil
}

func (s *reportService) Dashboard(ctx context.Context) (DashboardResponse, error) {
	totalCustomers, err := s.customerRepo.Count(ctx)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to count customers: %w", err)
	}
	totalItems, err := s.itemRepo.Count(ctx)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to count items: %w", err)
	}

	start, end := DayWindow(s.now())
	totals, err := s.saleRepo.SumTotalsBetween(ctx, start, end)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to sum sales: %w", err)
	}

	return DashboardResponse{
		TotalCustomers: totalCustomers,
		TotalItems:     totalItems,
		TodaySales:     totals.Total.String(),
	}, nil
}
