// internal/validator/validator.go
package validator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// Календарная дата без времени: "2025-06-15"
	_ = Validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})

	// Строка не пустая и не из одних пробелов
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return len(regexp.MustCompile(`\S`).FindString(fl.Field().String())) > 0
	})

	// Допустимая периодичность счёта
	_ = Validate.RegisterValidation("recurrence", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "once", "daily", "weekly", "monthly", "yearly":
			return true
		}
		return false
	})

	// Допустимый тип счёта
	_ = Validate.RegisterValidation("accounttype", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "checking", "savings", "credit", "investment", "other":
			return true
		}
		return false
	})
}
