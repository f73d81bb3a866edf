// internal/billing/amortization.go
package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"bill-tracker/internal/domain"
)

const (
	// жёсткий потолок симуляции: 30 лет. Защищает от вечного цикла,
	// когда платёж не покрывает проценты.
	maxAmortizationMonths = 360
	// минимальный платёж по умолчанию — 10% от суммы долга
	minimumPaymentDivisor = 10
)

var (
	oneHundred   = decimal.NewFromInt(100)
	twelveMonths = decimal.NewFromInt(12)
)

// Plan — результат симуляции погашения. Converged=false означает, что за
// 360 месяцев долг не гасится: платёж не покрывает проценты. Такой план
// нельзя показывать как конкретную дату погашения.
type Plan struct {
	Months         int             `json:"months"`
	PayoffDate     time.Time       `json:"payoff_date"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Converged      bool            `json:"converged"`
}

// monthlyRate — месячная ставка из годовой в процентах. Отрицательная
// или нулевая ставка трактуется как 0%.
func monthlyRate(annualPercent decimal.Decimal) decimal.Decimal {
	if annualPercent.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return annualPercent.Div(oneHundred).Div(twelveMonths)
}

// simulate гоняет рекуррентное соотношение
//
//	interest = balance * r
//	balance  = balance + interest - payment
//
// до обнуления баланса или потолка в 360 месяцев. Внутри цикла ничего
// не округляется — иначе ошибка накапливается на длинных горизонтах.
func simulate(balance, payment, rate decimal.Decimal, today time.Time) Plan {
	r := monthlyRate(rate)
	plan := Plan{MonthlyPayment: payment, TotalInterest: decimal.Zero}

	if balance.LessThanOrEqual(decimal.Zero) {
		// нечего гасить — немедленное погашение
		plan.PayoffDate = Midnight(today)
		plan.Converged = true
		return plan
	}

	for plan.Months < maxAmortizationMonths && balance.GreaterThan(decimal.Zero) {
		interest := balance.Mul(r)
		plan.TotalInterest = plan.TotalInterest.Add(interest)
		balance = balance.Add(interest).Sub(payment)
		plan.Months++
	}

	plan.Converged = balance.LessThanOrEqual(decimal.Zero)
	plan.PayoffDate = Midnight(today).AddDate(0, plan.Months, 0)
	return plan
}

// StandardMonthlyPayment — платёж по умолчанию: сумма долга / 10.
// Бизнес-правило, не пользовательский ввод.
func StandardMonthlyPayment(b domain.Bill) decimal.Decimal {
	return b.Amount.Div(decimal.NewFromInt(minimumPaymentDivisor))
}

// StandardPlan — погашение минимальным платежом без досрочных взносов.
func StandardPlan(b domain.Bill, today time.Time) Plan {
	return simulate(b.Amount, StandardMonthlyPayment(b), b.Interest, today)
}

// LumpSumPlan — тот же платёж, но стартовый баланс уменьшен разовым
// взносом. Взнос больше долга даёт немедленное погашение.
func LumpSumPlan(b domain.Bill, lumpSum decimal.Decimal, today time.Time) Plan {
	return simulate(b.Amount.Sub(lumpSum), StandardMonthlyPayment(b), b.Interest, today)
}

// IncreasedPaymentPlan — разовый взнос плюс увеличенный ежемесячный платёж.
func IncreasedPaymentPlan(b domain.Bill, lumpSum, extraMonthly decimal.Decimal, today time.Time) Plan {
	payment := StandardMonthlyPayment(b).Add(extraMonthly)
	return simulate(b.Amount.Sub(lumpSum), payment, b.Interest, today)
}

// AffordabilityCheck — предупреждение, не запрет: true, если остальные
// неоплаченные регулярные счета вместе с предлагаемым платежом превышают
// ликвидный остаток (checking + savings).
func AffordabilityCheck(all []domain.Bill, b domain.Bill, proposedPayment, liquidBalance decimal.Decimal) bool {
	committed := proposedPayment
	for _, other := range all {
		if other.ID == b.ID || other.Paid || other.Recurring == domain.RecurrenceOnce {
			continue
		}
		committed = committed.Add(other.Amount)
	}
	return committed.GreaterThan(liquidBalance)
}
