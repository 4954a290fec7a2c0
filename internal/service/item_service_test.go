package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperror"
)

func TestCreateItemParsesNumericFields(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	item, err := env.items.CreateItem(ctx, CreateItemRequest{
		Name:          "Rice",
		Unit:          "kg",
		PurchasePrice: "45.50",
		SalePrice:     "50",
		StockQuantity: "100",
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if item.PurchasePrice != "45.5" {
		t.Errorf("Expected purchase price 45.5, got %s", item.PurchasePrice)
	}
	if item.SalePrice != "50" {
		t.Errorf("Expected sale price 50, got %s", item.SalePrice)
	}
	if item.StockQuantity != 100 {
		t.Errorf("Expected stock 100, got %g", item.StockQuantity)
	}
}

func TestCreateItemDefaultsOmittedNumbersToZero(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	item, err := env.items.CreateItem(ctx, CreateItemRequest{Name: "Rice"})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if item.PurchasePrice != "0" || item.SalePrice != "0" || item.StockQuantity != 0 {
		t.Errorf("Expected zero defaults, got %+v", item)
	}
}

func TestCreateItemRejectsMalformedNumbers(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   CreateItemRequest
		field string
	}{
		{"bad purchase price", CreateItemRequest{Name: "Rice", PurchasePrice: "abc"}, "purchase_price"},
		{"bad sale price", CreateItemRequest{Name: "Rice", SalePrice: "5,0"}, "sale_price"},
		{"bad stock quantity", CreateItemRequest{Name: "Rice", StockQuantity: "ten"}, "stock_quantity"},
		{"nan stock quantity", CreateItemRequest{Name: "Rice", StockQuantity: "NaN"}, "stock_quantity"},
		{"infinite stock quantity", CreateItemRequest{Name: "Rice", StockQuantity: "Inf"}, "stock_quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.items.CreateItem(ctx, tc.req)
			if err == nil {
				t.Fatal("Expected field error, got nil")
			}
			appErr := apperror.GetAppError(err)
			if appErr.Code != 400 {
				t.Errorf("Expected status 400, got %d", appErr.Code)
			}
			if len(appErr.Errors) == 0 || appErr.Errors[0].Field != tc.field {
				t.Errorf("Expected error on field %s, got %+v", tc.field, appErr.Errors)
			}
		})
	}

	var count int64
	env.db.Model(&model.Item{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no item persisted from rejected input, got %d rows", count)
	}
}

func TestListItems(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	for _, name := range []string{"Rice", "Sugar", "Salt"} {
		if _, err := env.items.CreateItem(ctx, CreateItemRequest{Name: name}); err != nil {
			t.Fatalf("CreateItem %s failed: %v", name, err)
		}
	}

	items, err := env.items.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("Expected 3 items, got %d", len(items))
	}
}

func TestDeleteItem(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	item, err := env.items.CreateItem(ctx, CreateItemRequest{Name: "Rice"})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if err := env.items.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}

	if err := env.items.DeleteItem(ctx, item.ID); err == nil {
		t.Fatal("Expected not found on second delete")
	} else if apperror.GetAppError(err).Code != 404 {
		t.Errorf("Expected status 404, got %d", apperror.GetAppError(err).Code)
	}
}
