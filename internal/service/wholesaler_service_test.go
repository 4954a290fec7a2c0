package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/testutil"
	"backend/pkg/apperror"
)

func findItemByName(t *testing.T, env *testServices, name string) *model.Item {
	t.Helper()
	var item model.Item
	if err := env.db.Where("LOWER(name) = ?", name).First(&item).Error; err != nil {
		t.Fatalf("Item %q not found: %v", name, err)
	}
	return &item
}

func TestCreateTransactionCreatesMissingItem(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	wholesaler := testutil.SeedWholesaler(t, env.db, "Metro", "0401")

	tx, err := env.wholesaler.CreateTransaction(ctx, CreateTransactionRequest{
		WholesalerID: wholesaler.ID.String(),
		ItemName:     "Sugar",
		Quantity:     "20",
		PricePerUnit: "10",
		PaidAmount:   "150",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if tx.TotalPrice != "200" {
		t.Errorf("Expected total 200, got %s", tx.TotalPrice)
	}

	item := findItemByName(t, env, "sugar")
	if item.StockQuantity != 20 {
		t.Errorf("Expected stock 20, got %g", item.StockQuantity)
	}
	if item.PurchasePrice.String() != "10" {
		t.Errorf("Expected purchase price 10, got %s", item.PurchasePrice)
	}
	if item.SalePrice.String() != "10" {
		t.Errorf("Expected sale price seeded to 10, got %s", item.SalePrice)
	}
}

func TestCreateTransactionMatchesItemCaseInsensitively(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	wholesaler := testutil.SeedWholesaler(t, env.db, "Metro", "0401")
	seeded := testutil.SeedItem(t, env.db, "Sugar", "kg", "15", 5)

	_, err := env.wholesaler.CreateTransaction(ctx, CreateTransactionRequest{
		WholesalerID: wholesaler.ID.String(),
		ItemName:     "sUGar",
		Quantity:     "10",
		PricePerUnit: "12",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	var item model.Item
	if err := env.db.First(&item, "id = ?", seeded.ID).Error; err != nil {
		t.Fatalf("Failed to reload item: %v", err)
	}
	if item.StockQuantity != 15 {
		t.Errorf("Expected stock 15 after receiving 10 onto 5, got %g", item.StockQuantity)
	}
	if item.PurchasePrice.String() != "12" {
		t.Errorf("Expected purchase price updated to 12, got %s", item.PurchasePrice)
	}
	// Sale price already set, must not be overwritten.
	if item.SalePrice.String() != "15" {
		t.Errorf("Expected sale price to stay 15, got %s", item.SalePrice)
	}

	var count int64
	env.db.Model(&model.Item{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected a single item row, got %d", count)
	}
}

func TestEditTransactionAdjustsStockByDelta(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	wholesaler := testutil.SeedWholesaler(t, env.db, "Metro", "0401")

	tx, err := env.wholesaler.CreateTransaction(ctx, CreateTransactionRequest{
		WholesalerID: wholesaler.ID.String(),
		ItemName:     "Sugar",
		Quantity:     "20",
		PricePerUnit: "10",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if _, err := env.wholesaler.EditTransaction(ctx, tx.ID, EditTransactionRequest{
		ItemName:     "Sugar",
		Quantity:     "15",
		PricePerUnit: "10",
		PaidAmount:   "0",
	}); err != nil {
		t.Fatalf("EditTransaction failed: %v", err)
	}

	item := findItemByName(t, env, "sugar")
	if item.StockQuantity != 15 {
		t.Errorf("Expected stock 15 after edit from 20 to 15, got %g", item.StockQuantity)
	}
}

func TestEditTransactionRenameReconcilesBothItems(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	wholesaler := testutil.SeedWholesaler(t, env.db, "Metro", "0401")

	tx, err := env.wholesaler.CreateTransaction(ctx, CreateTransactionRequest{
		WholesalerID: wholesaler.ID.String(),
		ItemName:     "Sugar",
		Quantity:     "20",
		PricePerUnit: "10",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if _, err := env.wholesaler.EditTransaction(ctx, tx.ID, EditTransactionRequest{
		ItemName:     "Brown Sugar",
		Quantity:     "8",
		PricePerUnit: "14",
		PaidAmount:   "0",
	}); err != nil {
		t.Fatalf("EditTransaction failed: %v", err)
	}

	oldItem := findItemByName(t, env, "sugar")
	if oldItem.StockQuantity != 0 {
		t.Errorf("Expected old item stock 0 after rename, got %g", oldItem.StockQuantity)
	}

	newItem := findItemByName(t, env, "brown sugar")
	if newItem.StockQuantity != 8 {
		t.Errorf("Expected new item stock 8, got %g", newItem.StockQuantity)
	}
}

func TestDeleteTransactionFloorsStockAtZero(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	wholesaler := testutil.SeedWholesaler(t, env.db, "Metro", "0401")

	tx, err := env.wholesaler.CreateTransaction(ctx, CreateTransactionRequest{
		WholesalerID: wholesaler.ID.String(),
		ItemName:     "Rice",
		Quantity:     "30",
		PricePerUnit: "50",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	// Drop the stock below the transaction quantity before deleting.
	item := findItemByName(t, env, "rice")
	item.StockQuantity = 10
	if err := env.db.Save(item).Error; err != nil {
		t.Fatalf("Failed to update item: %v", err)
	}

	if err := env.wholesaler.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}

	item = findItemByName(t, env, "rice")
	if item.StockQuantity != 0 {
		t.Errorf("Expected stock floored at 0, got %g", item.StockQuantity)
	}

	var count int64
	env.db.Model(&model.WholesalerTransaction{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected transaction row deleted, got %d rows", count)
	}
}

func TestDeleteWholesalerRemovesTransactions(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	wholesaler := testutil.SeedWholesaler(t, env.db, "Metro", "0401")

	if _, err := env.wholesaler.CreateTransaction(ctx, CreateTransactionRequest{
		WholesalerID: wholesaler.ID.String(),
		ItemName:     "Rice",
		Quantity:     "30",
		PricePerUnit: "50",
	}); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := env.wholesaler.DeleteWholesaler(ctx, wholesaler.ID.String()); err != nil {
		t.Fatalf("DeleteWholesaler failed: %v", err)
	}

	var count int64
	env.db.Model(&model.WholesalerTransaction{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected cascade delete of transactions, got %d rows", count)
	}

	// Received stock stays as is.
	item := findItemByName(t, env, "rice")
	if item.StockQuantity != 30 {
		t.Errorf("Expected stock untouched at 30, got %g", item.StockQuantity)
	}
}

func TestCreateWholesalerRejectsDuplicatePhone(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	testutil.SeedWholesaler(t, env.db, "Metro", "0401")

	_, err := env.wholesaler.CreateWholesaler(ctx, CreateWholesalerRequest{
		Name:  "City Traders",
		Phone: "0401",
	})
	if err == nil {
		t.Fatal("Expected duplicate phone error, got nil")
	}
	if apperror.GetAppError(err).Code != 409 {
		t.Errorf("Expected status 409, got %d", apperror.GetAppError(err).Code)
	}
}

func TestCreateTransactionRejectsNonFiniteQuantity(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	wholesaler := testutil.SeedWholesaler(t, env.db, "Metro", "0401")

	for _, quantity := range []string{"NaN", "Inf", "+Inf", "-Inf"} {
		_, err := env.wholesaler.CreateTransaction(ctx, CreateTransactionRequest{
			WholesalerID: wholesaler.ID.String(),
			ItemName:     "Sugar",
			Quantity:     quantity,
			PricePerUnit: "10",
		})
		if err == nil {
			t.Fatalf("Expected field error for quantity %q, got nil", quantity)
		}
		appErr := apperror.GetAppError(err)
		if appErr.Code != 400 {
			t.Errorf("Expected status 400 for quantity %q, got %d", quantity, appErr.Code)
		}
		if len(appErr.Errors) == 0 || appErr.Errors[0].Field != "quantity" {
			t.Errorf("Expected error on field quantity, got %+v", appErr.Errors)
		}
	}

	var count int64
	env.db.Model(&model.Item{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no item created from rejected input, got %d rows", count)
	}
}

func TestCreateTransactionRejectsBlankItemName(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	wholesaler := testutil.SeedWholesaler(t, env.db, "Metro", "0401")

	for _, name := range []string{"", "   "} {
		_, err := env.wholesaler.CreateTransaction(ctx, CreateTransactionRequest{
			WholesalerID: wholesaler.ID.String(),
			ItemName:     name,
			Quantity:     "10",
			PricePerUnit: "10",
		})
		if err == nil {
			t.Fatalf("Expected field error for item name %q, got nil", name)
		}
		appErr := apperror.GetAppError(err)
		if appErr.Code != 400 {
			t.Errorf("Expected status 400, got %d", appErr.Code)
		}
		if len(appErr.Errors) == 0 || appErr.Errors[0].Field != "item_name" {
			t.Errorf("Expected error on field item_name, got %+v", appErr.Errors)
		}
	}

	var count int64
	env.db.Model(&model.Item{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no item created from blank name, got %d rows", count)
	}
}

// failingTransactionRepo refuses every insert so the surrounding database
// transaction has to roll back.
type failingTransactionRepo struct {
	repository.WholesalerTransactionRepository
}

func (failingTransactionRepo) Create(ctx context.Context, _ *model.WholesalerTransaction) error {
	return errors.New("insert refused")
}

func TestCreateTransactionRollsBackStockWhenInsertFails(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	wholesaler := testutil.SeedWholesaler(t, env.db, "Metro", "0401")
	seeded := testutil.SeedItem(t, env.db, "Sugar", "kg", "15", 5)

	svc := NewWholesalerService(
		repository.NewWholesalerRepository(env.db),
		failingTransactionRepo{repository.NewWholesalerTransactionRepository(env.db)},
		repository.NewItemRepository(env.db),
		repository.NewTransactionManager(env.db),
		nil,
	)

	_, err := svc.CreateTransaction(ctx, CreateTransactionRequest{
		WholesalerID: wholesaler.ID.String(),
		ItemName:     "Sugar",
		Quantity:     "10",
		PricePerUnit: "12",
	})
	if err == nil {
		t.Fatal("Expected insert failure, got nil")
	}

	var item model.Item
	if err := env.db.First(&item, "id = ?", seeded.ID).Error; err != nil {
		t.Fatalf("Failed to reload item: %v", err)
	}
	if item.StockQuantity != 5 {
		t.Errorf("Expected stock unchanged at 5 after rollback, got %g", item.StockQuantity)
	}
	if item.PurchasePrice.String() != "15" {
		t.Errorf("Expected purchase price unchanged at 15, got %s", item.PurchasePrice)
	}

	var count int64
	env.db.Model(&model.WholesalerTransaction{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no transaction row after rollback, got %d", count)
	}
}

func TestCreateTransactionUnknownWholesaler(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	_, err := env.wholesaler.CreateTransaction(ctx, CreateTransactionRequest{
		WholesalerID: "bb5e6a09-4d02-4f37-9f0c-1a2b3c4d5e6f",
		ItemName:     "Rice",
		Quantity:     "10",
		PricePerUnit: "50",
	})
	if err == nil {
		t.Fatal("Expected not found error, got nil")
	}
	if apperror.GetAppError(err).Code != 404 {
		t.Errorf("Expected status 404, got %d", apperror.GetAppError(err).Code)
	}
}
