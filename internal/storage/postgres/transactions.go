// internal/storage/postgres/transactions.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"bill-tracker/internal/domain"
)

const txColumns = `id, user_id, account_id, date, description, amount, category, currency, external_id`

func (s *Storage) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO transactions (id, user_id, account_id, date, description, amount, category, currency, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.UserID, t.AccountID, t.Date, t.Description, t.Amount, t.Category, t.Currency, t.ExternalID)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *Storage) TransactionsByUser(ctx context.Context, userID int64, accountID string) ([]domain.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE user_id = $1`
	args := []any{userID}
	if accountID != "" {
		query += ` AND account_id = $2`
		args = append(args, accountID)
	}
	query += ` ORDER BY date DESC, id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Date, &t.Description,
			&t.Amount, &t.Category, &t.Currency, &t.ExternalID); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (s *Storage) InsertTransactions(ctx context.Context, txs []domain.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	dbtx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer dbtx.Rollback(ctx)

	inserted := 0
	for _, t := range txs {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		result, err := dbtx.Exec(ctx, `
			INSERT INTO transactions (id, user_id, account_id, date, description, amount, category, currency, external_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (user_id, external_id) WHERE external_id <> '' DO NOTHING
		`, t.ID, t.UserID, t.AccountID, t.Date, t.Description, t.Amount, t.Category, t.Currency, t.ExternalID)
		if err != nil {
			return 0, fmt.Errorf("insert transaction %q: %w", t.ExternalID, err)
		}
		inserted += int(result.RowsAffected())
	}

	if err := dbtx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return inserted, nil
}
