// internal/handler/accounts.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bill-tracker/internal/domain"
	"bill-tracker/internal/storage"
)

type AccountHandler struct {
	store storage.AccountStorage
}

func NewAccountHandler(store storage.AccountStorage) *AccountHandler {
	return &AccountHandler{store: store}
}

func (h *AccountHandler) Create(c *gin.Context) {
	var req AccountRequest
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

	acc := req.toDomain(userID)
	if err := h.store.CreateAccount(context.Background(), acc); err != nil {
		slog.Error("Failed to create account", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}
	c.JSON(http.StatusCreated, acc)
}

func (h *AccountHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	accounts, err := h.store.AccountsByUser(context.Background(), userID)
	if err != nil {
		slog.Error("Failed to list accounts", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	acc, err := h.store.AccountByID(context.Background(), userID, c.Param("id"))
	if err != nil {
		c.JSON(storageErrStatus(err), gin.H{"error": "Account not found"})
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (h *AccountHandler) Update(c *gin.Context) {
	var req AccountRequest
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

	acc := req.toDomain(userID)
	acc.ID = c.Param("id")
	if err := h.store.UpdateAccount(context.Background(), acc); err != nil {
		c.JSON(storageErrStatus(err), gin.H{"error": "Failed to update account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AccountHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteAccount(context.Background(), userID, c.Param("id")); err != nil {
		c.JSON(storageErrStatus(err), gin.H{"error": "Failed to delete account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// LiquidBalance godoc
// @Summary Sum of checking and savings balances
// @Tags accounts
// @Success 200 {object} map[string]string
// @Router /api/v1/accounts/liquid-balance [get]
func (h *AccountHandler) LiquidBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	total, err := h.store.LiquidBalance(context.Background(), userID)
	if err != nil {
		slog.Error("Failed to compute liquid balance", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"liquid_balance": total.Round(2).StringFixed(2)})
}

// === DTO ===

type AccountRequest struct {
	Name     string  `json:"name" validate:"required,notblank"`
	Type     string  `json:"type" validate:"required,accounttype"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency" validate:"required,notblank"`
	Color    string  `json:"color"`
}

func (r AccountRequest) toDomain(userID int64) *domain.Account {
	return &domain.Account{
		UserID:   userID,
		Name:     r.Name,
		Type:     domain.AccountType(r.Type),
		Balance:  decimal.NewFromFloat(r.Balance),
		Currency: r.Currency,
		Color:    r.Color,
	}
}
