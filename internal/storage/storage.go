// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"bill-tracker/internal/domain"
)

// ErrNotFound — запись не найдена или принадлежит другому пользователю.
var ErrNotFound = errors.New("record not found")

type BillStorage interface {
	CreateBill(ctx context.Context, bill *domain.Bill) error
	BillByID(ctx context.Context, userID int64, id string) (*domain.Bill, error)
	BillsByUser(ctx context.Context, userID int64) ([]domain.Bill, error)
	UpdateBill(ctx context.Context, bill *domain.Bill) error
	DeleteBill(ctx context.Context, userID int64, id string) error

	// UpdateBillSchedule сохраняет результат отсрочки: due_date,
	// snoozed_until, original_due_date и кэш past_due_days.
	UpdateBillSchedule(ctx context.Context, bill *domain.Bill) error
	SetBillPaid(ctx context.Context, userID int64, id string, paid bool) error

	// RefreshPastDueDays пересчитывает кэш просрочки по всем
	// неоплаченным счетам (ежедневная cron-задача).
	RefreshPastDueDays(ctx context.Context) error
}

type AccountStorage interface {
	CreateAccount(ctx context.Context, acc *domain.Account) error
	AccountByID(ctx context.Context, userID int64, id string) (*domain.Account, error)
	AccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, acc *domain.Account) error
	DeleteAccount(ctx context.Context, userID int64, id string) error

	// UpsertAccountByExternalID — для банковской синхронизации: счёт
	// с таким external_id обновляется, иначе создаётся.
	UpsertAccountByExternalID(ctx context.Context, acc *domain.Account, syncedAt time.Time) error

	// LiquidBalance — сумма балансов checking + savings.
	LiquidBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
}

type GoalStorage interface {
	CreateGoal(ctx context.Context, goal *domain.SavingsGoal) error
	GoalByID(ctx context.Context, userID int64, id string) (*domain.SavingsGoal, error)
	GoalsByUser(ctx context.Context, userID int64) ([]domain.SavingsGoal, error)
	UpdateGoal(ctx context.Context, goal *domain.SavingsGoal) error
	DeleteGoal(ctx context.Context, userID int64, id string) error

	// AddGoalProgress увеличивает накопленное и переводит цель в
	// completed, когда сумма достигнута.
	AddGoalProgress(ctx context.Context, userID int64, id string, amount decimal.Decimal) (*domain.SavingsGoal, error)
}

type TransactionStorage interface {
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	TransactionsByUser(ctx context.Context, userID int64, accountID string) ([]domain.Transaction, error)

	// InsertTransactions — массовая вставка из банковской выгрузки,
	// дубликаты по external_id молча пропускаются. Возвращает число
	// реально вставленных строк.
	InsertTransactions(ctx context.Context, txs []domain.Transaction) (int, error)
}
