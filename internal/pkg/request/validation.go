package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ClockLayout is the wall-clock format accepted by the "hhmm" binding rule.
const ClockLayout = "15:04"

// RegisterValidators adds the project's custom rules to gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("hhmm", validateClock); err != nil {
		return fmt.Errorf("register hhmm validator: %w", err)
	}
	if err := v.RegisterValidation("singleline", validateSingleLine); err != nil {
		return fmt.Errorf("register singleline validator: %w", err)
	}
	return nil
}

// validateSingleLine rejects line breaks in values that end up in email headers.
func validateSingleLine(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), "\r\n")
}

// validateClock accepts a zero-padded 24h "HH:MM" time of day.
func validateClock(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}
