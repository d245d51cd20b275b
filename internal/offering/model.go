package offering

import (
	"net/http"
	"time"

	"github.com/brightnest/cleaning-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "service not found")
	ErrNameRequired    = apperror.New(http.StatusBadRequest, "name is required")
	ErrInvalidDuration = apperror.New(http.StatusBadRequest, "duration must be a positive number of minutes")
	ErrInvalidPrice    = apperror.New(http.StatusBadRequest, "price must not be negative")
	ErrInUse           = apperror.New(http.StatusConflict, "service has appointments and cannot be deleted; deactivate it instead")
)

// Offering is a cleaning service customers can book (e.g., Deep Clean, Move-out Clean).
type Offering struct {
	ID              string
	Name            string
	Description     string
	DurationMinutes int
	PriceCents      int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter defines parameters for listing offerings.
type Filter struct {
	ActiveOnly bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
