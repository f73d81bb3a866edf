package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bill-tracker/internal/domain"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

var today = date("2025-06-15")

func unpaidBill(due time.Time) domain.Bill {
	return domain.Bill{
		ID:        "b1",
		Name:      "Electricity",
		Amount:    decimal.NewFromInt(120),
		DueDate:   due,
		Recurring: domain.RecurrenceMonthly,
		Category:  "utilities",
	}
}

func TestClassify(t *testing.T) {
	snoozed := date("2025-06-20")

	tests := []struct {
		name string
		bill domain.Bill
		want Status
	}{
		{
			name: "paid wins regardless of due date",
			bill: func() domain.Bill {
				b := unpaidBill(date("2025-01-01"))
				b.Paid = true
				return b
			}(),
			want: StatusPaid,
		},
		{
			name: "critical at 30 days past due",
			bill: unpaidBill(date("2025-05-16")),
			want: StatusCritical,
		},
		{
			name: "overdue at 29 days past due",
			bill: unpaidBill(date("2025-05-17")),
			want: StatusOverdue,
		},
		{
			name: "overdue by one day",
			bill: unpaidBill(date("2025-06-14")),
			want: StatusOverdue,
		},
		{
			name: "snoozed before temporal buckets",
			bill: func() domain.Bill {
				b := unpaidBill(snoozed)
				b.SnoozedUntil = &snoozed
				return b
			}(),
			want: StatusSnoozed,
		},
		{
			name: "due today",
			bill: unpaidBill(date("2025-06-15")),
			want: StatusDueToday,
		},
		{
			name: "due soon within two days",
			bill: unpaidBill(date("2025-06-17")),
			want: StatusDueSoon,
		},
		{
			name: "upcoming beyond the due-soon window",
			bill: unpaidBill(date("2025-06-18")),
			want: StatusUpcoming,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.bill, today); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPastDueDays(t *testing.T) {
	tests := []struct {
		name string
		bill domain.Bill
		want int
	}{
		{"future due date", unpaidBill(date("2025-06-20")), 0},
		{"due today", unpaidBill(date("2025-06-15")), 0},
		{"five days past", unpaidBill(date("2025-06-10")), 5},
		{
			"paid bill is never past due",
			func() domain.Bill {
				b := unpaidBill(date("2025-06-01"))
				b.Paid = true
				return b
			}(),
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PastDueDays(tt.bill, today); got != tt.want {
				t.Errorf("PastDueDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsUrgent(t *testing.T) {
	tests := []struct {
		name string
		bill domain.Bill
		want bool
	}{
		{"due today", unpaidBill(date("2025-06-15")), true},
		{"due in five days", unpaidBill(date("2025-06-20")), true},
		{"due in six days", unpaidBill(date("2025-06-21")), false},
		{"19 days past due", unpaidBill(date("2025-05-27")), false},
		{"20 days past due", unpaidBill(date("2025-05-26")), true},
		{
			"any snooze is urgent",
			func() domain.Bill {
				b := unpaidBill(date("2025-07-10"))
				s := date("2025-07-10")
				b.SnoozedUntil = &s
				return b
			}(),
			true,
		},
		{
			"paid is never urgent",
			func() domain.Bill {
				b := unpaidBill(date("2025-06-15"))
				b.Paid = true
				return b
			}(),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUrgent(tt.bill, today); got != tt.want {
				t.Errorf("IsUrgent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnoozeValidation(t *testing.T) {
	b := unpaidBill(date("2025-06-15"))

	for _, days := range []int{-5, 0, 30} {
		if _, err := Snooze(b, days, today); !errors.Is(err, ErrSnoozeOutOfRange) {
			t.Errorf("Snooze(%d) error = %v, want ErrSnoozeOutOfRange", days, err)
		}
	}
	for _, days := range []int{1, 29} {
		if _, err := Snooze(b, days, today); err != nil {
			t.Errorf("Snooze(%d) unexpected error: %v", days, err)
		}
	}
}

func TestSnoozeShiftsDueDate(t *testing.T) {
	b := unpaidBill(date("2025-06-15"))

	snoozed, err := Snooze(b, 7, today)
	if err != nil {
		t.Fatalf("Snooze failed: %v", err)
	}

	wantDue := date("2025-06-22")
	if !snoozed.DueDate.Equal(wantDue) {
		t.Errorf("DueDate = %v, want %v", snoozed.DueDate, wantDue)
	}
	if snoozed.SnoozedUntil == nil || !snoozed.SnoozedUntil.Equal(wantDue) {
		t.Errorf("SnoozedUntil = %v, want %v", snoozed.SnoozedUntil, wantDue)
	}
	if snoozed.OriginalDueDate == nil || !snoozed.OriginalDueDate.Equal(date("2025-06-15")) {
		t.Errorf("OriginalDueDate = %v, want original date", snoozed.OriginalDueDate)
	}
	if snoozed.Paid != b.Paid || !snoozed.Amount.Equal(b.Amount) {
		t.Errorf("Snooze must not touch paid/amount")
	}
}

func TestSnoozeKeepsOriginalDueDate(t *testing.T) {
	b := unpaidBill(date("2025-06-15"))

	first, err := Snooze(b, 5, today)
	if err != nil {
		t.Fatalf("first snooze failed: %v", err)
	}
	second, err := Snooze(first, 10, today)
	if err != nil {
		t.Fatalf("second snooze failed: %v", err)
	}

	// исходная дата фиксируется первой отсрочкой и дальше не меняется
	if !second.OriginalDueDate.Equal(date("2025-06-15")) {
		t.Errorf("OriginalDueDate = %v, want first-snooze capture", second.OriginalDueDate)
	}
	wantDue := date("2025-06-30")
	if !second.DueDate.Equal(wantDue) || !second.SnoozedUntil.Equal(wantDue) {
		t.Errorf("DueDate/SnoozedUntil = %v/%v, want %v", second.DueDate, second.SnoozedUntil, wantDue)
	}
}

func TestMarkPaidUnpaid(t *testing.T) {
	s := date("2025-06-20")
	b := unpaidBill(s)
	b.SnoozedUntil = &s

	paid := MarkPaid(b)
	if !paid.Paid {
		t.Fatal("MarkPaid did not set paid")
	}
	if paid.SnoozedUntil == nil {
		t.Error("MarkPaid must not clear snooze bookkeeping")
	}

	unpaid := MarkUnpaid(paid)
	if unpaid.Paid {
		t.Fatal("MarkUnpaid did not clear paid")
	}
	if unpaid.SnoozedUntil == nil || !unpaid.SnoozedUntil.Equal(s) {
		t.Error("schedule must survive a paid/unpaid round trip")
	}
}

func TestBulkFilters(t *testing.T) {
	paid := unpaidBill(date("2025-06-15"))
	paid.ID = "paid"
	paid.Paid = true

	dueToday := unpaidBill(date("2025-06-15"))
	dueToday.ID = "today"

	dueIn3 := unpaidBill(date("2025-06-18"))
	dueIn3.ID = "in3"

	overdue := unpaidBill(date("2025-06-10"))
	overdue.ID = "late"

	veryLate := unpaidBill(date("2025-05-01"))
	veryLate.ID = "verylate"

	bills := []domain.Bill{paid, dueToday, dueIn3, overdue, veryLate}

	if got := DueToday(bills, today); len(got) != 1 || got[0].ID != "today" {
		t.Errorf("DueToday = %+v, want only 'today'", got)
	}
	if got := DueWithinDays(bills, 3, today); len(got) != 2 {
		t.Errorf("DueWithinDays(3) returned %d bills, want 2", len(got))
	}
	if got := PastDue(bills, today); len(got) != 2 {
		t.Errorf("PastDue returned %d bills, want 2", len(got))
	}
	// urgent: due today, due in 3 (окно 5 дней), просрочка свыше 20 дней
	if got := Urgent(bills, today); len(got) != 3 {
		t.Errorf("Urgent returned %d bills, want 3", len(got))
	}
}
