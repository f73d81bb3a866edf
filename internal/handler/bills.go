// internal/handler/bills.go
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bill-tracker/internal/billing"
	"bill-tracker/internal/domain"
	"bill-tracker/internal/storage"
)

type BillHandler struct {
	store storage.BillStorage
}

func NewBillHandler(store storage.BillStorage) *BillHandler {
	return &BillHandler{store: store}
}

// billView — счёт плюс производное состояние на сегодня.
type billView struct {
	domain.Bill
	Status  billing.Status `json:"status"`
	Snoozed bool           `json:"snoozed"`
	Urgent  bool           `json:"urgent"`
}

func (h *BillHandler) view(b domain.Bill) billView {
	now := today()
	b.PastDueDays = billing.PastDueDays(b, now)
	return billView{
		Bill:    b,
		Status:  billing.Classify(b, now),
		Snoozed: billing.IsSnoozed(b),
		Urgent:  billing.IsUrgent(b, now),
	}
}

// Create godoc
// @Summary Create a bill
// @Tags bills
// @Accept json
// @Produce json
// @Param request body BillRequest true "Bill data"
// @Success 201 {object} billView
// @Failure 400 {object} map[string]string
// @Router /api/v1/bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req BillRequest
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

	bill, err := req.toDomain(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bill.PastDueDays = billing.PastDueDays(*bill, today())

	if err := h.store.CreateBill(context.Background(), bill); err != nil {
		slog.Error("Failed to create bill", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bill"})
		return
	}

	c.JSON(http.StatusCreated, h.view(*bill))
}

// List godoc
// @Summary List bills with derived status
// @Tags bills
// @Success 200 {array} billView
// @Router /api/v1/bills [get]
func (h *BillHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bills, err := h.store.BillsByUser(context.Background(), userID)
	if err != nil {
		slog.Error("Failed to list bills", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	views := make([]billView, 0, len(bills))
	for _, b := range bills {
		views = append(views, h.view(b))
	}
	c.JSON(http.StatusOK, views)
}

func (h *BillHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bill, err := h.store.BillByID(context.Background(), userID, c.Param("id"))
	if err != nil {
		c.JSON(storageErrStatus(err), gin.H{"error": "Bill not found"})
		return
	}
	c.JSON(http.StatusOK, h.view(*bill))
}

func (h *BillHandler) Update(c *gin.Context) {
	var req BillRequest
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

	bill, err := req.toDomain(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bill.ID = c.Param("id")

	if err := h.store.UpdateBill(context.Background(), bill); err != nil {
		slog.Error("Failed to update bill", "error", err, "user_id", userID, "bill_id", bill.ID)
		c.JSON(storageErrStatus(err), gin.H{"error": "Failed to update bill"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *BillHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteBill(context.Background(), userID, c.Param("id")); err != nil {
		c.JSON(storageErrStatus(err), gin.H{"error": "Failed to delete bill"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Snooze godoc
// @Summary Snooze a bill by 1-29 days
// @Tags bills
// @Param request body SnoozeRequest true "Days to snooze"
// @Success 200 {object} billView
// @Failure 400 {object} map[string]string
// @Router /api/v1/bills/{id}/snooze [post]
func (h *BillHandler) Snooze(c *gin.Context) {
	var req SnoozeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bill, err := h.store.BillByID(context.Background(), userID, c.Param("id"))
	if err != nil {
		c.JSON(storageErrStatus(err), gin.H{"error": "Bill not found"})
		return
	}

	snoozed, err := billing.Snooze(*bill, req.Days, today())
	if err != nil {
		if errors.Is(err, billing.ErrSnoozeOutOfRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	if err := h.store.UpdateBillSchedule(context.Background(), &snoozed); err != nil {
		slog.Error("Failed to persist snooze", "error", err, "user_id", userID, "bill_id", snoozed.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to snooze bill"})
		return
	}

	slog.Info("Bill snoozed", "user_id", userID, "bill_id", snoozed.ID, "days", req.Days)
	c.JSON(http.StatusOK, h.view(snoozed))
}

func (h *BillHandler) MarkPaid(c *gin.Context) {
	h.setPaid(c, true)
}

func (h *BillHandler) MarkUnpaid(c *gin.Context) {
	h.setPaid(c, false)
}

func (h *BillHandler) setPaid(c *gin.Context, paid bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.store.SetBillPaid(context.Background(), userID, c.Param("id"), paid); err != nil {
		c.JSON(storageErrStatus(err), gin.H{"error": "Failed to update bill"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Summary godoc
// @Summary Bill buckets for the reminder view
// @Tags bills
// @Param window query int false "Due-soon window in days (default 7)"
// @Success 200 {object} SummaryResponse
// @Router /api/v1/bills/summary [get]
func (h *BillHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	window := 7
	if v := c.Query("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window must be an integer between 1 and 90"})
			return
		}
		window = n
	}

	bills, err := h.store.BillsByUser(context.Background(), userID)
	if err != nil {
		slog.Error("Failed to load bills for summary", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	now := today()
	resp := SummaryResponse{
		DueToday: h.views(billing.DueToday(bills, now)),
		DueSoon:  h.views(billing.DueWithinDays(bills, window, now)),
		PastDue:  h.views(billing.PastDue(bills, now)),
		Urgent:   h.views(billing.Urgent(bills, now)),
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BillHandler) views(bills []domain.Bill) []billView {
	out := make([]billView, 0, len(bills))
	for _, b := range bills {
		out = append(out, h.view(b))
	}
	return out
}

// === DTO ===

type BillRequest struct {
	Name      string  `json:"name" validate:"required,notblank"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	DueDate   string  `json:"due_date" validate:"required,isodate"`
	Recurring string  `json:"recurring" validate:"required,recurrence"`
	Paid      bool    `json:"paid"`
	Category  string  `json:"category" validate:"required,notblank"`
	Notes     string  `json:"notes"`
	Interest  float64 `json:"interest"`
}

func (r BillRequest) toDomain(userID int64) (*domain.Bill, error) {
	due, err := parseDate(r.DueDate)
	if err != nil {
		return nil, err
	}
	interest := decimal.NewFromFloat(r.Interest)
	if interest.IsNegative() {
		// отрицательная ставка трактуется как 0%
		interest = decimal.Zero
	}
	return &domain.Bill{
		UserID:    userID,
		Name:      r.Name,
		Amount:    decimal.NewFromFloat(r.Amount),
		DueDate:   billing.Midnight(due),
		Recurring: domain.Recurrence(r.Recurring),
		Paid:      r.Paid,
		Category:  r.Category,
		Notes:     r.Notes,
		Interest:  interest,
	}, nil
}

// Диапазон дней проверяет billing.Snooze, чтобы ошибка была одна и та же
// для API и бота.
type SnoozeRequest struct {
	Days int `json:"days"`
}

type SummaryResponse struct {
	DueToday []billView `json:"due_today"`
	DueSoon  []billView `json:"due_soon"`
	PastDue  []billView `json:"past_due"`
	Urgent   []billView `json:"urgent"`
}
