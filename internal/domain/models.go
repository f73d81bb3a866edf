// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recurrence — периодичность счёта. Чисто описательное поле:
// планировщик новых экземпляров не создаётся.
type Recurrence string

const (
	RecurrenceOnce    Recurrence = "once"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountInvestment AccountType = "investment"
	AccountOther      AccountType = "other"
)

type GoalStatus string

const (
	GoalInProgress GoalStatus = "in-progress"
	GoalCompleted  GoalStatus = "completed"
	GoalPaused     GoalStatus = "paused"
)

// Bill — отслеживаемое обязательство. Даты — календарные дни без времени
// (полночь UTC). Если SnoozedUntil установлен, DueDate всегда равен ему,
// а OriginalDueDate хранит дату до первой отсрочки.
type Bill struct {
	ID              string          `json:"id"`
	UserID          int64           `json:"-"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	DueDate         time.Time       `json:"due_date"`
	Recurring       Recurrence      `json:"recurring"`
	Paid            bool            `json:"paid"`
	Category        string          `json:"category"`
	Notes           string          `json:"notes,omitempty"`
	Interest        decimal.Decimal `json:"interest"` // годовая ставка в %, важна для category="debt"
	SnoozedUntil    *time.Time      `json:"snoozed_until,omitempty"`
	OriginalDueDate *time.Time      `json:"original_due_date,omitempty"`
	PastDueDays     int             `json:"past_due_days"`
}

// Account — счёт пользователя. Баланс авторитетен: его меняет либо
// пользователь напрямую, либо синхронизация с банком, ядро его не считает.
type Account struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"-"`
	Name        string          `json:"name"`
	Type        AccountType     `json:"type"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	Color       string          `json:"color,omitempty"`
	ExternalID  string          `json:"external_id,omitempty"`
	LastUpdated *time.Time      `json:"last_updated,omitempty"`
}

type SavingsGoal struct {
	ID            string          `json:"id"`
	UserID        int64           `json:"-"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Category      string          `json:"category"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Status        GoalStatus      `json:"status"`
	AccountID     *string         `json:"account_id,omitempty"`
}

// Transaction — движение по счёту. Amount со знаком: отрицательное — расход.
// ExternalID нужен для идемпотентного импорта из банковской выгрузки.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"-"`
	AccountID   string          `json:"account_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Currency    string          `json:"currency"`
	ExternalID  string          `json:"external_id,omitempty"`
}

// RemainingAmount — сколько осталось накопить до цели.
func (g *SavingsGoal) RemainingAmount() decimal.Decimal {
	return g.TargetAmount.Sub(g.CurrentAmount)
}
