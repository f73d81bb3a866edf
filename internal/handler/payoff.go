// internal/handler/payoff.go
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bill-tracker/internal/billing"
	"bill-tracker/internal/storage"
)

// PayoffStore — хранилища, нужные симулятору: счета для долга и
// балансы для проверки посильности платежа.
type PayoffStore interface {
	storage.BillStorage
	storage.AccountStorage
}

type PayoffHandler struct {
	store PayoffStore
}

func NewPayoffHandler(store PayoffStore) *PayoffHandler {
	return &PayoffHandler{store: store}
}

// Plan godoc
// @Summary Project payoff timelines for a debt bill
// @Description Runs the standard, lump-sum and increased-payment scenarios
// @Tags payoff
// @Accept json
// @Produce json
// @Param request body PayoffRequest true "Simulation parameters"
// @Success 200 {object} PayoffResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/payoff/plan [post]
func (h *PayoffHandler) Plan(c *gin.Context) {
	var req PayoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bill, err := h.store.BillByID(context.Background(), userID, req.BillID)
	if err != nil {
		c.JSON(storageErrStatus(err), gin.H{"error": "Bill not found"})
		return
	}

	lumpSum := decimal.NewFromFloat(req.LumpSum)
	extra := decimal.NewFromFloat(req.ExtraMonthly)
	now := today()

	standard := billing.StandardPlan(*bill, now)
	lump := billing.LumpSumPlan(*bill, lumpSum, now)
	boosted := billing.IncreasedPaymentPlan(*bill, lumpSum, extra, now)

	// посильность считается по увеличенному платежу — худший случай
	warning := false
	bills, err := h.store.BillsByUser(context.Background(), userID)
	if err == nil {
		liquid, lerr := h.store.LiquidBalance(context.Background(), userID)
		if lerr == nil {
			warning = billing.AffordabilityCheck(bills, *bill, boosted.MonthlyPayment, liquid)
		} else {
			err = lerr
		}
	}
	if err != nil {
		// предупреждение — не повод ронять симуляцию
		slog.Warn("affordability check skipped", "error", err, "user_id", userID)
	}

	c.JSON(http.StatusOK, PayoffResponse{
		Standard:          planView(standard),
		LumpSum:           planView(lump),
		IncreasedPayment:  planView(boosted),
		AffordabilityWarn: warning,
	})
}

// === DTO ===

type PayoffRequest struct {
	BillID       string  `json:"bill_id" validate:"required,notblank"`
	LumpSum      float64 `json:"lump_sum" validate:"gte=0"`
	ExtraMonthly float64 `json:"extra_monthly" validate:"gte=0"`
}

// PlanView — план с деньгами, округлёнными до копеек. Округление
// происходит только здесь, на границе представления.
type PlanView struct {
	Months         int    `json:"months"`
	PayoffDate     string `json:"payoff_date,omitempty"`
	TotalInterest  string `json:"total_interest"`
	MonthlyPayment string `json:"monthly_payment"`
	Converged      bool   `json:"converged"`
}

type PayoffResponse struct {
	Standard          PlanView `json:"standard"`
	LumpSum           PlanView `json:"lump_sum"`
	IncreasedPayment  PlanView `json:"increased_payment"`
	AffordabilityWarn bool     `json:"affordability_warning"`
}

func planView(p billing.Plan) PlanView {
	v := PlanView{
		Months:         p.Months,
		TotalInterest:  p.TotalInterest.Round(2).StringFixed(2),
		MonthlyPayment: p.MonthlyPayment.Round(2).StringFixed(2),
		Converged:      p.Converged,
	}
	// без сходимости дата погашения не существует — показываем
	// "платёж не гасит долг", а не дату через 30 лет
	if p.Converged {
		v.PayoffDate = p.PayoffDate.Format(time.DateOnly)
	}
	return v
}
