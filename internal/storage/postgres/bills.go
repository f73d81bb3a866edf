// internal/storage/postgres/bills.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bill-tracker/internal/domain"
	"bill-tracker/internal/storage"
)

const billColumns = `id, user_id, name, amount, due_date, recurring, paid, category,
	notes, interest, snoozed_until, original_due_date, past_due_days`

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var b domain.Bill
	err := row.Scan(
		&b.ID, &b.UserID, &b.Name, &b.Amount, &b.DueDate, &b.Recurring, &b.Paid,
		&b.Category, &b.Notes, &b.Interest, &b.SnoozedUntil, &b.OriginalDueDate,
		&b.PastDueDays,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Storage) CreateBill(ctx context.Context, bill *domain.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO bills (id, user_id, name, amount, due_date, recurring, paid,
			category, notes, interest, snoozed_until, original_due_date, past_due_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, bill.ID, bill.UserID, bill.Name, bill.Amount, bill.DueDate, bill.Recurring,
		bill.Paid, bill.Category, bill.Notes, bill.Interest, bill.SnoozedUntil,
		bill.OriginalDueDate, bill.PastDueDays)
	if err != nil {
		return fmt.Errorf("create bill: %w", err)
	}
	return nil
}

func (s *Storage) BillByID(ctx context.Context, userID int64, id string) (*domain.Bill, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+billColumns+`
		FROM bills
		WHERE user_id = $1 AND id = $2
	`, userID, id)

	b, err := scanBill(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find bill: %w", err)
	}
	return b, nil
}

func (s *Storage) BillsByUser(ctx context.Context, userID int64) ([]domain.Bill, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+billColumns+`
		FROM bills
		WHERE user_id = $1
		ORDER BY due_date, name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	var bills []domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, *b)
	}
	return bills, rows.Err()
}

func (s *Storage) UpdateBill(ctx context.Context, bill *domain.Bill) error {
	result, err := s.db.Exec(ctx, `
		UPDATE bills
		SET name = $3, amount = $4, due_date = $5, recurring = $6, paid = $7,
			category = $8, notes = $9, interest = $10
		WHERE user_id = $1 AND id = $2
	`, bill.UserID, bill.ID, bill.Name, bill.Amount, bill.DueDate, bill.Recurring,
		bill.Paid, bill.Category, bill.Notes, bill.Interest)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) DeleteBill(ctx context.Context, userID int64, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM bills WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) UpdateBillSchedule(ctx context.Context, bill *domain.Bill) error {
	result, err := s.db.Exec(ctx, `
		UPDATE bills
		SET due_date = $3, snoozed_until = $4, original_due_date = $5, past_due_days = $6
		WHERE user_id = $1 AND id = $2
	`, bill.UserID, bill.ID, bill.DueDate, bill.SnoozedUntil, bill.OriginalDueDate, bill.PastDueDays)
	if err != nil {
		return fmt.Errorf("update bill schedule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) SetBillPaid(ctx context.Context, userID int64, id string, paid bool) error {
	// при оплате кэш просрочки сбрасывается, расписание не трогаем
	result, err := s.db.Exec(ctx, `
		UPDATE bills
		SET paid = $3,
			past_due_days = CASE WHEN $3 THEN 0 ELSE past_due_days END
		WHERE user_id = $1 AND id = $2
	`, userID, id, paid)
	if err != nil {
		return fmt.Errorf("set bill paid: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) RefreshPastDueDays(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		UPDATE bills
		SET past_due_days = GREATEST(0, (CURRENT_DATE - due_date))
		WHERE NOT paid
	`)
	if err != nil {
		return fmt.Errorf("refresh past due days: %w", err)
	}
	return nil
}
