// internal/handler/sync.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"bill-tracker/internal/bankfeed"
)

type SyncHandler struct {
	syncer *bankfeed.Syncer
}

func NewSyncHandler(syncer *bankfeed.Syncer) *SyncHandler {
	return &SyncHandler{syncer: syncer}
}

// Run godoc
// @Summary Pull balances and transactions from the bank aggregator proxy
// @Tags sync
// @Success 200 {object} bankfeed.SyncResult
// @Failure 502 {object} map[string]string
// @Router /api/v1/sync/bank [post]
func (h *SyncHandler) Run(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.syncer.Sync(context.Background(), userID)
	if err != nil {
		slog.Error("Банковская синхронизация не удалась", "error", err, "user_id", userID)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Bank sync failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}
