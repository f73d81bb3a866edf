// internal/storage/postgres/goals.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"bill-tracker/internal/domain"
	"bill-tracker/internal/storage"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, category,
	deadline, notes, status, account_id`

func scanGoal(row pgx.Row) (*domain.SavingsGoal, error) {
	var g domain.SavingsGoal
	err := row.Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.Category, &g.Deadline, &g.Notes, &g.Status, &g.AccountID,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Storage) CreateGoal(ctx context.Context, goal *domain.SavingsGoal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if goal.Status == "" {
		goal.Status = domain.GoalInProgress
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO savings_goals (id, user_id, name, target_amount, current_amount,
			category, deadline, notes, status, account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, goal.ID, goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount,
		goal.Category, goal.Deadline, goal.Notes, goal.Status, goal.AccountID)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (s *Storage) GoalByID(ctx context.Context, userID int64, id string) (*domain.SavingsGoal, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+goalColumns+` FROM savings_goals WHERE user_id = $1 AND id = $2
	`, userID, id)

	g, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find goal: %w", err)
	}
	return g, nil
}

func (s *Storage) GoalsByUser(ctx context.Context, userID int64) ([]domain.SavingsGoal, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+goalColumns+` FROM savings_goals WHERE user_id = $1 ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *Storage) UpdateGoal(ctx context.Context, goal *domain.SavingsGoal) error {
	result, err := s.db.Exec(ctx, `
		UPDATE savings_goals
		SET name = $3, target_amount = $4, current_amount = $5, category = $6,
			deadline = $7, notes = $8, status = $9, account_id = $10
		WHERE user_id = $1 AND id = $2
	`, goal.UserID, goal.ID, goal.Name, goal.TargetAmount, goal.CurrentAmount,
		goal.Category, goal.Deadline, goal.Notes, goal.Status, goal.AccountID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) DeleteGoal(ctx context.Context, userID int64, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM savings_goals WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) AddGoalProgress(ctx context.Context, userID int64, id string, amount decimal.Decimal) (*domain.SavingsGoal, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE savings_goals
		SET current_amount = current_amount + $3
		WHERE user_id = $1 AND id = $2
		RETURNING `+goalColumns+`
	`, userID, id, amount)

	g, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("add goal progress: %w", err)
	}

	// политика статуса живёт здесь, а не в схеме БД
	if g.Status == domain.GoalInProgress && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.Status = domain.GoalCompleted
		if _, err := tx.Exec(ctx, `
			UPDATE savings_goals SET status = $3 WHERE user_id = $1 AND id = $2
		`, userID, id, g.Status); err != nil {
			return nil, fmt.Errorf("complete goal: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return g, nil
}
