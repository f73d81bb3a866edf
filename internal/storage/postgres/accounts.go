// internal/storage/postgres/accounts.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"bill-tracker/internal/domain"
	"bill-tracker/internal/storage"
)

const accountColumns = `id, user_id, name, type, balance, currency, color, external_id, last_updated`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Currency,
		&a.Color, &a.ExternalID, &a.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Storage) CreateAccount(ctx context.Context, acc *domain.Account) error {
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO accounts (id, user_id, name, type, balance, currency, color, external_id, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, acc.ID, acc.UserID, acc.Name, acc.Type, acc.Balance, acc.Currency,
		acc.Color, acc.ExternalID, acc.LastUpdated)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *Storage) AccountByID(ctx context.Context, userID int64, id string) (*domain.Account, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 AND id = $2
	`, userID, id)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return a, nil
}

func (s *Storage) AccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (s *Storage) UpdateAccount(ctx context.Context, acc *domain.Account) error {
	result, err := s.db.Exec(ctx, `
		UPDATE accounts
		SET name = $3, type = $4, balance = $5, currency = $6, color = $7, last_updated = now()
		WHERE user_id = $1 AND id = $2
	`, acc.UserID, acc.ID, acc.Name, acc.Type, acc.Balance, acc.Currency, acc.Color)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) DeleteAccount(ctx context.Context, userID int64, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM accounts WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) UpsertAccountByExternalID(ctx context.Context, acc *domain.Account, syncedAt time.Time) error {
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO accounts (id, user_id, name, type, balance, currency, color, external_id, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, external_id) WHERE external_id <> ''
		DO UPDATE SET balance = EXCLUDED.balance, name = EXCLUDED.name,
			currency = EXCLUDED.currency, last_updated = EXCLUDED.last_updated
	`, acc.ID, acc.UserID, acc.Name, acc.Type, acc.Balance, acc.Currency,
		acc.Color, acc.ExternalID, syncedAt)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

func (s *Storage) LiquidBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(balance), 0)
		FROM accounts
		WHERE user_id = $1 AND type IN ('checking', 'savings')
	`, userID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("liquid balance: %w", err)
	}
	return total, nil
}
