// internal/bankfeed/sync.go
package bankfeed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bill-tracker/internal/billing"
	"bill-tracker/internal/domain"
)

// SyncStore — часть хранилища, нужная синхронизации.
type SyncStore interface {
	UpsertAccountByExternalID(ctx context.Context, acc *domain.Account, syncedAt time.Time) error
	InsertTransactions(ctx context.Context, txs []domain.Transaction) (int, error)
}

type Syncer struct {
	client *Client
	store  SyncStore
}

func NewSyncer(client *Client, store SyncStore) *Syncer {
	return &Syncer{client: client, store: store}
}

type SyncResult struct {
	AccountsSynced       int `json:"accounts_synced"`
	TransactionsImported int `json:"transactions_imported"`
}

// глубина выгрузки транзакций при синхронизации
const syncLookbackDays = 30

// Sync подтягивает балансы и транзакции из прокси и складывает их в
// хранилище. Повторный запуск безопасен: счета апсертятся по
// external_id, транзакции дедуплицируются.
func (s *Syncer) Sync(ctx context.Context, userID int64) (SyncResult, error) {
	var res SyncResult

	balances, err := s.client.Balances(ctx, userID)
	if err != nil {
		return res, fmt.Errorf("sync balances: %w", err)
	}

	now := time.Now()
	for _, ab := range balances {
		acc := domain.Account{
			UserID:     userID,
			Name:       ab.Name,
			Type:       mapAccountType(ab.Type),
			Balance:    ab.Balance,
			Currency:   ab.Currency,
			ExternalID: ab.ExternalID,
		}
		if err := s.store.UpsertAccountByExternalID(ctx, &acc, now); err != nil {
			return res, fmt.Errorf("sync account %q: %w", ab.ExternalID, err)
		}
		res.AccountsSynced++
	}

	since := now.AddDate(0, 0, -syncLookbackDays)
	feed, err := s.client.Transactions(ctx, userID, since)
	if err != nil {
		return res, fmt.Errorf("sync transactions: %w", err)
	}

	txs := make([]domain.Transaction, 0, len(feed))
	for _, ft := range feed {
		date, err := time.Parse("2006-01-02", ft.Date)
		if err != nil {
			slog.Warn("Пропускаем транзакцию с кривой датой", "external_id", ft.ExternalID, "date", ft.Date)
			continue
		}
		txs = append(txs, domain.Transaction{
			UserID:      userID,
			AccountID:   ft.AccountID,
			Date:        billing.Midnight(date),
			Description: ft.Name,
			Amount:      ft.Amount,
			Category:    ft.Category,
			Currency:    ft.Currency,
			ExternalID:  ft.ExternalID,
		})
	}

	inserted, err := s.store.InsertTransactions(ctx, txs)
	if err != nil {
		return res, fmt.Errorf("import transactions: %w", err)
	}
	res.TransactionsImported = inserted

	slog.Info("Банковская синхронизация завершена",
		"user_id", userID, "accounts", res.AccountsSynced, "transactions", inserted)
	return res, nil
}

func mapAccountType(t string) domain.AccountType {
	switch domain.AccountType(t) {
	case domain.AccountChecking, domain.AccountSavings, domain.AccountCredit, domain.AccountInvestment:
		return domain.AccountType(t)
	default:
		return domain.AccountOther
	}
}
