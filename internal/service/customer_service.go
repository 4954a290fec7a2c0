package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type CustomerDetailResponse struct {
	Customer  CustomerResponse `json:"customer"`
	Sales     []SaleResponse   `json:"sales"`
	TotalBill string           `json:"total_bill"`
	TotalPaid string           `json:"total_paid"`
	Balance   string           `json:"balance"`
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id string) error
	ListCustomers(ctx context.Context) ([]CustomerResponse, error)
	SearchCustomers(ctx context.Context, query string) ([]CustomerResponse, error)
	CustomerDetail(ctx context.Context, id string) (CustomerDetailResponse, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository, saleRepo repository.SaleRepository) CustomerService {
	return &customerService{customerRepo: customerRepo, saleRepo: saleRepo}
}

func (s *customerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (CustomerResponse, error) {
	existing, err := s.customerRepo.FindByPhone(ctx, req.Phone)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return CustomerResponse{}, fmt.Errorf("failed to check phone: %w", err)
	}
	if existing != nil {
		return CustomerResponse{}, apperror.NewDuplicateError(
			fmt.Sprintf("customer with phone number %s already exists: %s", req.Phone, existing.Name))
	}

	customer := model.Customer{Name: req.Name, Phone: req.Phone}
	if err := s.customerRepo.Create(ctx, &customer); err != nil {
		return CustomerResponse{}, fmt.Errorf("failed to create customer: %w", err)
	}
	return toCustomerResponse(&customer), nil
}

// DeleteCustomer refuses to remove a customer that still owns sales, so no
// sale row is ever left with a dangling customer reference.
func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewFieldError("id", "invalid customer id")
	}

	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFoundError("customer")
		}
		return fmt.Errorf("failed to find customer: %w", err)
	}

	saleCount, err := s.saleRepo.CountByCustomer(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to count sales: %w", err)
	}
	if saleCount > 0 {
		return apperror.NewValidationError("customer has recorded sales and cannot be deleted")
	}

	if err := s.customerRepo.Delete(ctx, customerID); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]CustomerResponse, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	res := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		res = append(res, toCustomerResponse(&customers[i]))
	}
	return res, nil
}

func (s *customerService) SearchCustomers(ctx context.Context, query string) ([]CustomerResponse, error) {
	if query == "" {
		return []CustomerResponse{}, nil
	}
	customers, err := s.customerRepo.Search(ctx, query, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	res := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		res = append(res, toCustomerResponse(&customers[i]))
	}
	return res, nil
}

func (s *customerService) CustomerDetail(ctx context.Context, id string) (CustomerDetailResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return CustomerDetailResponse{}, apperror.NewFieldError("id", "invalid customer id")
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerDetailResponse{}, apperror.NewNotFoundError("customer")
		}
		return CustomerDetailResponse{}, fmt.Errorf("failed to find customer: %w", err)
	}

	sales, err := s.saleRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return CustomerDetailResponse{}, fmt.Errorf("failed to list sales: %w", err)
	}

	totals, err := s.saleRepo.SumTotalsByCustomer(ctx, customerID, nil, nil)
	if err != nil {
		return CustomerDetailResponse{}, fmt.Errorf("failed to sum sales: %w", err)
	}

	res := CustomerDetailResponse{
		Customer:  toCustomerResponse(customer),
		Sales:     make([]SaleResponse, 0, len(sales)),
		TotalBill: totals.Total.String(),
		TotalPaid: totals.Paid.String(),
		Balance:   totals.Unpaid().String(),
	}
	for i := range sales {
		sr := toSaleResponse(&sales[i])
		sr.ItemName = sales[i].Item.Name
		sr.Unit = sales[i].Item.Unit
		res.Sales = append(res.Sales, sr)
	}
	return res, nil
}

func toCustomerResponse(c *model.Customer) CustomerResponse {
	return CustomerResponse{
		ID:    c.ID.String(),
		Name:  c.Name,
		Phone: c.Phone,
	}
}
