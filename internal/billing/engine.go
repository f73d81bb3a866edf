// internal/billing/engine.go
package billing

import (
	"fmt"
	"time"

	"bill-tracker/internal/domain"
)

// Пороговые значения вынесены в константы, чтобы тесты и тюнинг
// не требовали правок в логике.
const (
	// счёт просрочен настолько, что попадает в статус "критический"
	criticalPastDueDays = 30
	// с этого числа дней просрочки счёт считается срочным
	urgentPastDueDays = 20
	// окно "скоро платить" для признака срочности
	urgentDueWindowDays = 5
	// окно статуса DueSoon
	dueSoonWindowDays = 2

	snoozeMinDays = 1
	snoozeMaxDays = 29
)

// Status — производное состояние счёта на дату today. В хранилище
// не пишется, вычисляется при чтении.
type Status string

const (
	StatusPaid     Status = "paid"
	StatusCritical Status = "critical"
	StatusOverdue  Status = "overdue"
	StatusSnoozed  Status = "snoozed"
	StatusDueToday Status = "due_today"
	StatusDueSoon  Status = "due_soon"
	StatusUpcoming Status = "upcoming"
)

// ErrSnoozeOutOfRange — число дней отсрочки вне диапазона 1..29.
var ErrSnoozeOutOfRange = fmt.Errorf("snooze days out of range (%d..%d)", snoozeMinDays, snoozeMaxDays)

// Midnight нормализует момент времени к календарной дате (полночь UTC).
// Все функции пакета сравнивают именно такие даты.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysUntilDue — целых дней до срока оплаты; отрицательное — срок прошёл.
func daysUntilDue(b domain.Bill, today time.Time) int {
	due := Midnight(b.DueDate)
	now := Midnight(today)
	return int(due.Sub(now).Hours() / 24)
}

// PastDueDays — сколько целых дней счёт просрочен. Оплаченный или
// ещё не наступивший счёт просрочен на 0 дней.
func PastDueDays(b domain.Bill, today time.Time) int {
	if b.Paid {
		return 0
	}
	d := daysUntilDue(b, today)
	if d >= 0 {
		return 0
	}
	return -d
}

// IsSnoozed — у счёта есть активная отсрочка. Отдельный предикат,
// потому что в интерфейсе отсрочка — бейдж поверх временного статуса.
func IsSnoozed(b domain.Bill) bool {
	return b.SnoozedUntil != nil && !b.Paid
}

// Classify выдаёт статус счёта на дату today. Приоритет сверху вниз:
// Paid > Critical > Overdue > Snoozed > DueToday > DueSoon > Upcoming.
func Classify(b domain.Bill, today time.Time) Status {
	if b.Paid {
		return StatusPaid
	}

	past := PastDueDays(b, today)
	until := daysUntilDue(b, today)

	switch {
	case past >= criticalPastDueDays:
		return StatusCritical
	case past > 0:
		return StatusOverdue
	case IsSnoozed(b):
		return StatusSnoozed
	case until == 0:
		return StatusDueToday
	case until <= dueSoonWindowDays:
		return StatusDueSoon
	default:
		return StatusUpcoming
	}
}

// IsUrgent — счёт требует внимания: любая отсрочка, просрочка от 20 дней
// или срок в ближайшие 5 дней (сегодня включительно). Оплаченный счёт
// срочным не бывает. Недавно просроченные (1..19 дней) срочными не
// считаются — у них и так статус Overdue.
func IsUrgent(b domain.Bill, today time.Time) bool {
	if b.Paid {
		return false
	}
	if IsSnoozed(b) {
		return true
	}
	if PastDueDays(b, today) >= urgentPastDueDays {
		return true
	}
	until := daysUntilDue(b, today)
	return until >= 0 && until <= urgentDueWindowDays
}

// Snooze сдвигает срок оплаты на days дней вперёд. При первой отсрочке
// исходная дата сохраняется в OriginalDueDate и дальше не меняется.
// Результат нужно сохранить вызывающей стороне, сам счёт не мутируется.
func Snooze(b domain.Bill, days int, today time.Time) (domain.Bill, error) {
	if days < snoozeMinDays || days > snoozeMaxDays {
		return b, ErrSnoozeOutOfRange
	}

	if b.OriginalDueDate == nil {
		orig := Midnight(b.DueDate)
		b.OriginalDueDate = &orig
	}

	newDue := Midnight(b.DueDate).AddDate(0, 0, days)
	b.DueDate = newDue
	b.SnoozedUntil = &newDue
	b.PastDueDays = PastDueDays(b, today)
	return b, nil
}

// MarkPaid помечает счёт оплаченным. Отсрочка и история дат не трогаются:
// если счёт снова станет неоплаченным, он вернётся к прежнему расписанию.
func MarkPaid(b domain.Bill) domain.Bill {
	b.Paid = true
	return b
}

func MarkUnpaid(b domain.Bill) domain.Bill {
	b.Paid = false
	return b
}

// === Массовые выборки для сводок и напоминаний ===

// DueToday — неоплаченные счета со сроком ровно сегодня.
func DueToday(bills []domain.Bill, today time.Time) []domain.Bill {
	var out []domain.Bill
	for _, b := range bills {
		if !b.Paid && daysUntilDue(b, today) == 0 {
			out = append(out, b)
		}
	}
	return out
}

// DueWithinDays — неоплаченные счета со сроком в ближайшие n дней
// (сегодняшние включаются, просроченные — нет).
func DueWithinDays(bills []domain.Bill, n int, today time.Time) []domain.Bill {
	var out []domain.Bill
	for _, b := range bills {
		if b.Paid {
			continue
		}
		d := daysUntilDue(b, today)
		if d >= 0 && d <= n {
			out = append(out, b)
		}
	}
	return out
}

// PastDue — просроченные неоплаченные счета.
func PastDue(bills []domain.Bill, today time.Time) []domain.Bill {
	var out []domain.Bill
	for _, b := range bills {
		if PastDueDays(b, today) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Urgent — счета, требующие внимания (см. IsUrgent).
func Urgent(bills []domain.Bill, today time.Time) []domain.Bill {
	var out []domain.Bill
	for _, b := range bills {
		if IsUrgent(b, today) {
			out = append(out, b)
		}
	}
	return out
}
