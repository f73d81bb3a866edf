// internal/handler/common.go
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	val "bill-tracker/internal/validator"

	"bill-tracker/internal/billing"
	"bill-tracker/internal/storage"
)

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		var errs []string
		for _, e := range err.(validator.ValidationErrors) {
			errs = append(errs, fieldErrorToString(e))
		}
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "isodate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "recurrence":
		return fmt.Sprintf("%s must be one of once/daily/weekly/monthly/yearly", e.Field())
	case "accounttype":
		return fmt.Sprintf("%s must be one of checking/savings/credit/investment/other", e.Field())
	case "gte", "lte", "min", "max":
		return fmt.Sprintf("%s is out of range", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

// currentUserID достаёт user_id, положенный auth-мидлварью.
// При отсутствии сразу пишет ответ 500.
func currentUserID(c *gin.Context) (int64, bool) {
	userIDVal, ok := c.Get("user_id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user_id missing"})
		return 0, false
	}
	userID, ok := userIDVal.(int64)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "invalid user_id"})
		return 0, false
	}
	return userID, true
}

// today — текущая календарная дата. Единственное место, где хендлеры
// читают часы: дальше дата передаётся в billing явно.
func today() time.Time {
	return billing.Midnight(time.Now())
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// storageErrStatus переводит ошибку хранилища в HTTP-статус.
func storageErrStatus(err error) int {
	if errors.Is(err, storage.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
