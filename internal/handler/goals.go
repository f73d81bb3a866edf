// internal/handler/goals.go
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

type GoalHandler struct {
	store storage.GoalStorage
}

func NewGoalHandler(store storage.GoalStorage) *GoalHandler {
	return &GoalHandler{store: store}
}

func (h *GoalHandler) Create(c *gin.Context) {
	var req GoalRequest
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

	goal, err := req.toDomain(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.CreateGoal(context.Background(), goal); err != nil {
		slog.Error("Failed to create goal", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *GoalHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	goals, err := h.store.GoalsByUser(context.Background(), userID)
	if err != nil {
		slog.Error("Failed to list goals", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if goals == nil {
		goals = []domain.SavingsGoal{}
	}
	c.JSON(http.StatusOK, goals)
}

func (h *GoalHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	goal, err := h.store.GoalByID(context.Background(), userID, c.Param("id"))
	if err != nil {
		c.JSON(storageErrStatus(err), gin.H{"error": "Goal not found"})
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *GoalHandler) Update(c *gin.Context) {
	var req GoalRequest
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

	goal, err := req.toDomain(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goal.ID = c.Param("id")

	if err := h.store.UpdateGoal(context.Background(), goal); err != nil {
		c.JSON(storageErrStatus(err), gin.H{"error": "Failed to update goal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *GoalHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteGoal(context.Background(), userID, c.Param("id")); err != nil {
		c.JSON(storageErrStatus(err), gin.H{"error": "Failed to delete goal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AddProgress godoc
// @Summary Add progress towards a savings goal
// @Description Marks the goal completed once the target is reached
// @Tags goals
// @Param request body ProgressRequest true "Amount to add"
// @Success 200 {object} domain.SavingsGoal
// @Router /api/v1/goals/{id}/progress [post]
func (h *GoalHandler) AddProgress(c *gin.Context) {
	var req ProgressRequest
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

	goal, err := h.store.AddGoalProgress(context.Background(), userID, c.Param("id"), decimal.NewFromFloat(req.Amount))
	if err != nil {
		slog.Error("Failed to add goal progress", "error", err, "user_id", userID, "goal_id", c.Param("id"))
		c.JSON(storageErrStatus(err), gin.H{"error": "Failed to add progress"})
		return
	}
	c.JSON(http.StatusOK, goal)
}

// === DTO ===

type GoalRequest struct {
	Name         string  `json:"name" validate:"required,notblank"`
	TargetAmount float64 `json:"target_amount" validate:"required,gt=0"`
	Current      float64 `json:"current_amount" validate:"gte=0"`
	Category     string  `json:"category"`
	Deadline     string  `json:"deadline" validate:"omitempty,isodate"`
	Notes        string  `json:"notes"`
	AccountID    string  `json:"account_id"`
}

func (r GoalRequest) toDomain(userID int64) (*domain.SavingsGoal, error) {
	goal := &domain.SavingsGoal{
		UserID:        userID,
		Name:          r.Name,
		TargetAmount:  decimal.NewFromFloat(r.TargetAmount),
		CurrentAmount: decimal.NewFromFloat(r.Current),
		Category:      r.Category,
		Notes:         r.Notes,
		Status:        domain.GoalInProgress,
	}
	if r.Deadline != "" {
		d, err := parseDate(r.Deadline)
		if err != nil {
			return nil, err
		}
		d = billing.Midnight(d)
		goal.Deadline = &d
	}
	if r.AccountID != "" {
		goal.AccountID = &r.AccountID
	}
	if goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
		goal.Status = domain.GoalCompleted
	}
	return goal, nil
}

type ProgressRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}
