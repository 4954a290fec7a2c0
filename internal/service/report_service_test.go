package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/testutil"
)

func TestMonthWindow(t *testing.T) {
	now := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

	start, end := MonthWindow(now, false)
	if !start.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected this-month start: %v", start)
	}
	if !end.Equal(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected this-month end: %v", end)
	}

	start, end = MonthWindow(now, true)
	if !start.Equal(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected last-month start: %v", start)
	}
	if !end.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected last-month end: %v", end)
	}
}

func TestMonthWindowJanuaryRollsBackToDecember(t *testing.T) {
	now := time.Date(2025, time.January, 5, 12, 0, 0, 0, time.UTC)

	start, end := MonthWindow(now, true)
	if !start.Equal(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected December 2024 start, got %v", start)
	}
	if !end.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected January 2025 end, got %v", end)
	}
}

func TestDayWindow(t *testing.T) {
	day := time.Date(2025, time.June, 10, 17, 45, 3, 0, time.UTC)
	start, end := DayWindow(day)
	if !start.Equal(time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected day start: %v", start)
	}
	if !end.Equal(time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected day end: %v", end)
	}
}

func TestParsePeriod(t *testing.T) {
	if p, err := ParsePeriod(""); err != nil || p != PeriodAll {
		t.Errorf("Expected empty string to default to all, got %v %v", p, err)
	}
	if p, err := ParsePeriod("this_month"); err != nil || p != PeriodThisMonth {
		t.Errorf("Expected this_month, got %v %v", p, err)
	}
	if _, err := ParsePeriod("next_year"); err == nil {
		t.Error("Expected error for unknown period")
	}
}

func TestCustomerBalancePerPeriod(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	now := time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC)
	env.reports.now = func() time.Time { return now }

	customer := testutil.SeedCustomer(t, env.db, "Ayesha", "0501")
	item := testutil.SeedItem(t, env.db, "Rice", "kg", "50", 100)

	// This month: two sales of 100 (60 paid) and 50 (50 paid).
	testutil.SeedSale(t, env.db, &customer.ID, item.ID, 2, "100", "60", now.AddDate(0, 0, -1))
	testutil.SeedSale(t, env.db, &customer.ID, item.ID, 1, "50", "50", now)
	// Last month: 200 billed, 100 paid.
	testutil.SeedSale(t, env.db, &customer.ID, item.ID, 4, "200", "100", now.AddDate(0, -1, 0))

	balance, err := env.reports.GetCustomerBalance(ctx, customer.ID.String(), PeriodThisMonth)
	if err != nil {
		t.Fatalf("GetCustomerBalance failed: %v", err)
	}
	if balance.Total != "150" || balance.Paid != "110" || balance.Unpaid != "40" {
		t.Errorf("Unexpected this-month balance: %+v", balance)
	}

	balance, err = env.reports.GetCustomerBalance(ctx, customer.ID.String(), PeriodLastMonth)
	if err != nil {
		t.Fatalf("GetCustomerBalance failed: %v", err)
	}
	if balance.Total != "200" || balance.Paid != "100" || balance.Unpaid != "100" {
		t.Errorf("Unexpected last-month balance: %+v", balance)
	}

	balance, err = env.reports.GetCustomerBalance(ctx, customer.ID.String(), PeriodAll)
	if err != nil {
		t.Fatalf("GetCustomerBalance failed: %v", err)
	}
	if balance.Total != "350" || balance.Paid != "210" || balance.Unpaid != "140" {
		t.Errorf("Unexpected all-time balance: %+v", balance)
	}
}

func TestCustomerSummaryIncludesCustomersWithoutSales(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	now := time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC)
	env.reports.now = func() time.Time { return now }

	buyer := testutil.SeedCustomer(t, env.db, "Ayesha", "0501")
	testutil.SeedCustomer(t, env.db, "Zara", "0502")
	item := testutil.SeedItem(t, env.db, "Rice", "kg", "50", 100)

	testutil.SeedSale(t, env.db, &buyer.ID, item.ID, 2, "100", "30", now)

	rows, err := env.reports.CustomerSummary(ctx)
	if err != nil {
		t.Fatalf("CustomerSummary failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	byName := map[string]CustomerSummaryRow{}
	for _, row := range rows {
		byName[row.CustomerName] = row
	}

	if row := byName["Ayesha"]; row.ThisMonthBill != "100" || row.ThisMonthUnpaid != "70" || row.TotalUnpaid != "70" {
		t.Errorf("Unexpected summary for buyer: %+v", row)
	}
	if row := byName["Zara"]; row.ThisMonthBill != "0" || row.TotalUnpaid != "0" {
		t.Errorf("Expected zero totals for customer without sales: %+v", row)
	}
}

func TestWholesalerBalanceSignedAndAbsolute(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	wholesaler := testutil.SeedWholesaler(t, env.db, "Metro", "0401")

	// Overpaid: 200 billed, 250 paid. Balance is negative, abs positive.
	if _, err := env.wholesaler.CreateTransaction(ctx, CreateTransactionRequest{
		WholesalerID: wholesaler.ID.String(),
		ItemName:     "Sugar",
		Quantity:     "20",
		PricePerUnit: "10",
		PaidAmount:   "250",
	}); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	balance, err := env.reports.GetWholesalerBalance(ctx, wholesaler.ID.String())
	if err != nil {
		t.Fatalf("GetWholesalerBalance failed: %v", err)
	}
	if balance.Total != "200" || balance.Paid != "250" {
		t.Errorf("Unexpected totals: %+v", balance)
	}
	if balance.Balance != "-50" {
		t.Errorf("Expected signed balance -50, got %s", balance.Balance)
	}
	if balance.AbsBalance != "50" {
		t.Errorf("Expected absolute balance 50, got %s", balance.AbsBalance)
	}
}

func TestDailySalesDigestBounds(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	day := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	customer := testutil.SeedCustomer(t, env.db, "Ayesha", "0501")
	item := testutil.SeedItem(t, env.db, "Rice", "kg", "50", 100)

	// Inside the day.
	testutil.SeedSale(t, env.db, &customer.ID, item.ID, 1, "50", "50", day.Add(9*time.Hour))
	testutil.SeedSale(t, env.db, nil, item.ID, 2, "100", "100", day.Add(23*time.Hour+59*time.Minute))
	// Outside: the previous day and midnight of the next day.
	testutil.SeedSale(t, env.db, nil, item.ID, 1, "50", "50", day.Add(-time.Minute))
	testutil.SeedSale(t, env.db, nil, item.ID, 1, "50", "50", day.AddDate(0, 0, 1))

	digest, err := env.reports.GetDailySales(ctx, day.Add(13*time.Hour))
	if err != nil {
		t.Fatalf("GetDailySales failed: %v", err)
	}
	if digest.Date != "2025-07-15" {
		t.Errorf("Unexpected digest date %s", digest.Date)
	}
	if len(digest.Sales) != 2 {
		t.Fatalf("Expected 2 sales inside the day, got %d", len(digest.Sales))
	}
	if digest.TotalSales != "150" || digest.TotalPaid != "150" {
		t.Errorf("Unexpected digest totals: %+v", digest)
	}
}

func TestStockLevelsFloorsRemainingAtZero(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	item := testutil.SeedItem(t, env.db, "Rice", "kg", "50", 10)
	// Oversold relative to the recorded receipts.
	testutil.SeedSale(t, env.db, nil, item.ID, 15, "750", "750", time.Now().UTC())

	levels, err := env.reports.StockLevels(ctx)
	if err != nil {
		t.Fatalf("StockLevels failed: %v", err)
	}
	if len(levels) != 1 {
		t.Fatalf("Expected 1 level row, got %d", len(levels))
	}
	if levels[0].Purchased != 10 || levels[0].Sold != 15 {
		t.Errorf("Unexpected level figures: %+v", levels[0])
	}
	if levels[0].Remaining != 0 {
		t.Errorf("Expected remaining floored at 0, got %g", levels[0].Remaining)
	}
}

func TestDashboardCountsAndTodaySales(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	now := time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC)
	env.reports.now = func() time.Time { return now }

	testutil.SeedCustomer(t, env.db, "Ayesha", "0501")
	item := testutil.SeedItem(t, env.db, "Rice", "kg", "50", 100)

	testutil.SeedSale(t, env.db, nil, item.ID, 2, "100", "100", now)
	testutil.SeedSale(t, env.db, nil, item.ID, 1, "50", "50", now.AddDate(0, 0, -2))

	dashboard, err := env.reports.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if dashboard.TotalCustomers != 1 {
		t.Errorf("Expected 1 customer, got %d", dashboard.TotalCustomers)
	}
	if dashboard.TotalItems != 1 {
		t.Errorf("Expected 1 item, got %d", dashboard.TotalItems)
	}
	if dashboard.TodaySales != "100" {
		t.Errorf("Expected today sales 100, got %s", dashboard.TodaySales)
	}
}
