// internal/handler/transactions.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bill-tracker/internal/billing"
	"bill-tracker/internal/domain"
	"bill-tracker/internal/storage"
)

type TransactionHandler struct {
	store storage.TransactionStorage
}

func NewTransactionHandler(store storage.TransactionStorage) *TransactionHandler {
	return &TransactionHandler{store: store}
}

func (h *TransactionHandler) Create(c *gin.Context) {
	var req TransactionRequest
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

	tx, err := req.toDomain(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.CreateTransaction(context.Background(), tx); err != nil {
		slog.Error("Failed to create transaction", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// List godoc
// @Summary List transactions, optionally filtered by account
// @Tags transactions
// @Param account_id query string false "Account id"
// @Success 200 {array} domain.Transaction
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	txs, err := h.store.TransactionsByUser(context.Background(), userID, c.Query("account_id"))
	if err != nil {
		slog.Error("Failed to list transactions", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}

// === DTO ===

type TransactionRequest struct {
	AccountID   string  `json:"account_id" validate:"required,notblank"`
	Date        string  `json:"date" validate:"required,isodate"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" validate:"required"`
	Category    string  `json:"category"`
	Currency    string  `json:"currency"`
}

func (r TransactionRequest) toDomain(userID int64) (*domain.Transaction, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &domain.Transaction{
		UserID:      userID,
		AccountID:   r.AccountID,
		Date:        billing.Midnight(date),
		Description: r.Description,
		Amount:      decimal.NewFromFloat(r.Amount),
		Category:    r.Category,
		Currency:    r.Currency,
	}, nil
}
