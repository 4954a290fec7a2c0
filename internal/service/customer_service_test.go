package service

import (
	"context"
	"strings"
	"testing"

	"backend/internal/model"
	"backend/internal/testutil"
	"backend/pkg/apperror"
)

func TestCreateCustomerRejectsDuplicatePhone(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	testutil.SeedCustomer(t, env.db, "Ali", "0301")

	_, err := env.customers.CreateCustomer(ctx, CreateCustomerRequest{Name: "Other Ali", Phone: "0301"})
	if err == nil {
		t.Fatal("Expected duplicate phone error, got nil")
	}
	appErr := apperror.GetAppError(err)
	if appErr.Code != 409 {
		t.Errorf("Expected status 409, got %d", appErr.Code)
	}
	// The message names the existing record holder.
	if !strings.Contains(appErr.Message, "Ali") {
		t.Errorf("Expected message to name existing customer, got %q", appErr.Message)
	}
}

func TestDeleteCustomerBlockedBySales(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	customer := testutil.SeedCustomer(t, env.db, "Ali", "0301")
	item := testutil.SeedItem(t, env.db, "Rice", "kg", "50", 100)

	if _, err := env.sales.RecordSale(ctx, RecordSaleRequest{
		SaleType:   "credit",
		ItemID:     item.ID.String(),
		CustomerID: customer.ID.String(),
		Quantity:   "1",
		UnitPrice:  "50",
	}); err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	err := env.customers.DeleteCustomer(ctx, customer.ID.String())
	if err == nil {
		t.Fatal("Expected delete to be blocked, got nil")
	}
	if apperror.GetAppError(err).Code != 400 {
		t.Errorf("Expected status 400, got %d", apperror.GetAppError(err).Code)
	}

	var count int64
	env.db.Model(&model.Customer{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected customer to survive, got %d rows", count)
	}
}

func TestDeleteCustomerWithoutSales(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	customer := testutil.SeedCustomer(t, env.db, "Ali", "0301")

	if err := env.customers.DeleteCustomer(ctx, customer.ID.String()); err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}

	var count int64
	env.db.Model(&model.Customer{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected customer removed, got %d rows", count)
	}
}

func TestSearchCustomersMatchesNameAndPhone(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	testutil.SeedCustomer(t, env.db, "Ayesha Khan", "0501")
	testutil.SeedCustomer(t, env.db, "Bilal", "0998")

	byName, err := env.customers.SearchCustomers(ctx, "ayesha")
	if err != nil {
		t.Fatalf("SearchCustomers failed: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Ayesha Khan" {
		t.Errorf("Unexpected name search result: %+v", byName)
	}

	byPhone, err := env.customers.SearchCustomers(ctx, "099")
	if err != nil {
		t.Fatalf("SearchCustomers failed: %v", err)
	}
	if len(byPhone) != 1 || byPhone[0].Name != "Bilal" {
		t.Errorf("Unexpected phone search result: %+v", byPhone)
	}

	empty, err := env.customers.SearchCustomers(ctx, "")
	if err != nil {
		t.Fatalf("SearchCustomers failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected empty query to return nothing, got %+v", empty)
	}
}

func TestCustomerDetailCarriesAllTimeTotals(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	customer := testutil.SeedCustomer(t, env.db, "Ali", "0301")
	item := testutil.SeedItem(t, env.db, "Rice", "kg", "50", 100)

	if _, err := env.sales.RecordSale(ctx, RecordSaleRequest{
		SaleType:   "credit",
		ItemID:     item.ID.String(),
		CustomerID: customer.ID.String(),
		Quantity:   "2",
		UnitPrice:  "50",
		PaidAmount: "30",
	}); err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	detail, err := env.customers.CustomerDetail(ctx, customer.ID.String())
	if err != nil {
		t.Fatalf("CustomerDetail failed: %v", err)
	}
	if len(detail.Sales) != 1 {
		t.Fatalf("Expected 1 sale, got %d", len(detail.Sales))
	}
	if detail.TotalBill != "100" || detail.TotalPaid != "30" || detail.Balance != "70" {
		t.Errorf("Unexpected detail totals: %+v", detail)
	}
}
