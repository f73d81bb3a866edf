// internal/storage/postgres/postgres_test.go
//
// Интеграционные тесты поверх живой БД. Запускаются только если задан
// TEST_DATABASE_URL (или DATABASE_URL), иначе пропускаются.
package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"bill-tracker/internal/domain"
	"bill-tracker/internal/storage"
)

func testStorage(t *testing.T) (*Storage, int64) {
	t.Helper()
	_ = godotenv.Load()

	conn := os.Getenv("TEST_DATABASE_URL")
	if conn == "" {
		conn = os.Getenv("DATABASE_URL")
	}
	if conn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping DB tests")
	}

	db, err := pgxpool.New(context.Background(), conn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)

	// Отдельный userID на каждый запуск, чтобы тесты не мешали друг другу
	userID := time.Now().UnixNano()
	return NewStorage(db), userID
}

func TestBillLifecycle(t *testing.T) {
	s, userID := testStorage(t)
	ctx := context.Background()

	bill := &domain.Bill{
		UserID:    userID,
		Name:      "Интернет",
		Amount:    decimal.RequireFromString("599.00"),
		DueDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Recurring: domain.RecurrenceMonthly,
		Category:  "utilities",
	}
	if err := s.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if bill.ID == "" {
		t.Fatal("CreateBill should assign an id")
	}

	got, err := s.BillByID(ctx, userID, bill.ID)
	if err != nil {
		t.Fatalf("BillByID: %v", err)
	}
	if got.Name != bill.Name || !got.Amount.Equal(bill.Amount) {
		t.Errorf("BillByID = %q/%s, want %q/%s", got.Name, got.Amount, bill.Name, bill.Amount)
	}

	if err := s.SetBillPaid(ctx, userID, bill.ID, true); err != nil {
		t.Fatalf("SetBillPaid: %v", err)
	}
	got, err = s.BillByID(ctx, userID, bill.ID)
	if err != nil {
		t.Fatalf("BillByID after pay: %v", err)
	}
	if !got.Paid {
		t.Error("bill should be paid")
	}
	if got.PastDueDays != 0 {
		t.Errorf("paid bill past_due_days = %d, want 0", got.PastDueDays)
	}

	if err := s.DeleteBill(ctx, userID, bill.ID); err != nil {
		t.Fatalf("DeleteBill: %v", err)
	}
	if _, err := s.BillByID(ctx, userID, bill.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("BillByID after delete = %v, want ErrNotFound", err)
	}
}

func TestBillNotFoundForOtherUser(t *testing.T) {
	s, userID := testStorage(t)
	ctx := context.Background()

	bill := &domain.Bill{
		UserID:  userID,
		Name:    "Аренда",
		Amount:  decimal.RequireFromString("25000"),
		DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	t.Cleanup(func() { _ = s.DeleteBill(ctx, userID, bill.ID) })

	if _, err := s.BillByID(ctx, userID+1, bill.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign user lookup = %v, want ErrNotFound", err)
	}
}

func TestUpsertAccountByExternalID(t *testing.T) {
	s, userID := testStorage(t)
	ctx := context.Background()
	syncedAt := time.Now().UTC()

	acc := &domain.Account{
		UserID:     userID,
		Name:       "Зарплатная карта",
		Type:       domain.AccountChecking,
		Balance:    decimal.RequireFromString("1500.50"),
		Currency:   "RUB",
		ExternalID: "ext-123",
	}
	if err := s.UpsertAccountByExternalID(ctx, acc, syncedAt); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	accounts, err := s.AccountsByUser(ctx, userID)
	if err != nil {
		t.Fatalf("AccountsByUser: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("accounts after first upsert = %d, want 1", len(accounts))
	}
	t.Cleanup(func() { _ = s.DeleteAccount(ctx, userID, accounts[0].ID) })

	// Повторный upsert с тем же external_id обновляет баланс, не плодит строки
	acc2 := &domain.Account{
		UserID:     userID,
		Name:       "Зарплатная карта",
		Type:       domain.AccountChecking,
		Balance:    decimal.RequireFromString("2000.00"),
		Currency:   "RUB",
		ExternalID: "ext-123",
	}
	if err := s.UpsertAccountByExternalID(ctx, acc2, syncedAt.Add(time.Hour)); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	accounts, err = s.AccountsByUser(ctx, userID)
	if err != nil {
		t.Fatalf("AccountsByUser: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("accounts after second upsert = %d, want 1", len(accounts))
	}
	if !accounts[0].Balance.Equal(decimal.RequireFromString("2000.00")) {
		t.Errorf("balance = %s, want 2000.00", accounts[0].Balance)
	}
}

func TestInsertTransactionsDeduplicates(t *testing.T) {
	s, userID := testStorage(t)
	ctx := context.Background()

	acc := &domain.Account{
		UserID:   userID,
		Name:     "Карта",
		Type:     domain.AccountChecking,
		Balance:  decimal.Zero,
		Currency: "RUB",
	}
	if err := s.CreateAccount(ctx, acc); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	t.Cleanup(func() { _ = s.DeleteAccount(ctx, userID, acc.ID) })

	txs := []domain.Transaction{
		{
			UserID:      userID,
			AccountID:   acc.ID,
			Date:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Description: "Продукты",
			Amount:      decimal.RequireFromString("-1250.40"),
			Category:    "groceries",
			Currency:    "RUB",
			ExternalID:  "tx-1",
		},
		{
			UserID:      userID,
			AccountID:   acc.ID,
			Date:        time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
			Description: "Зарплата",
			Amount:      decimal.RequireFromString("85000"),
			Category:    "income",
			Currency:    "RUB",
			ExternalID:  "tx-2",
		},
	}

	inserted, err := s.InsertTransactions(ctx, txs)
	if err != nil {
		t.Fatalf("InsertTransactions: %v", err)
	}
	if inserted != 2 {
		t.Errorf("first insert = %d rows, want 2", inserted)
	}

	inserted, err = s.InsertTransactions(ctx, txs)
	if err != nil {
		t.Fatalf("repeat InsertTransactions: %v", err)
	}
	if inserted != 0 {
		t.Errorf("repeat insert = %d rows, want 0", inserted)
	}
}

func TestAddGoalProgressCompletes(t *testing.T) {
	s, userID := testStorage(t)
	ctx := context.Background()

	goal := &domain.SavingsGoal{
		UserID:       userID,
		Name:         "Отпуск",
		TargetAmount: decimal.RequireFromString("1000"),
		Category:     "travel",
		Status:       domain.GoalInProgress,
	}
	if err := s.CreateGoal(ctx, goal); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	t.Cleanup(func() { _ = s.DeleteGoal(ctx, userID, goal.ID) })

	updated, err := s.AddGoalProgress(ctx, userID, goal.ID, decimal.RequireFromString("400"))
	if err != nil {
		t.Fatalf("AddGoalProgress: %v", err)
	}
	if updated.Status != domain.GoalInProgress {
		t.Errorf("status after 400 = %s, want in-progress", updated.Status)
	}

	updated, err = s.AddGoalProgress(ctx, userID, goal.ID, decimal.RequireFromString("600"))
	if err != nil {
		t.Fatalf("AddGoalProgress: %v", err)
	}
	if updated.Status != domain.GoalCompleted {
		t.Errorf("status after target reached = %s, want completed", updated.Status)
	}
	if !updated.CurrentAmount.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("current = %s, want 1000", updated.CurrentAmount)
	}
}
