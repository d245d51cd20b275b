package appointment

import (
	"net/http"
	"time"

	"github.com/brightnest/cleaning-booking-backend/internal/availability"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "appointment not found")
	ErrTimeConflict      = apperror.New(http.StatusConflict, "This time slot is no longer available")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid appointment status")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "appointment cannot move to that status")
	ErrStatusChanged     = apperror.New(http.StatusConflict, "appointment was modified concurrently, please reload")
	ErrInvalidDate       = apperror.New(http.StatusBadRequest, "date must be YYYY-MM-DD and start_time HH:MM")
)

// Status shares its values with the availability engine's view of a booking.
type Status = availability.Status

const (
	StatusPending   = availability.StatusPending
	StatusConfirmed = availability.StatusConfirmed
	StatusCompleted = availability.StatusCompleted
	StatusCancelled = availability.StatusCancelled
)

// transitions lists the statuses each status may move to. Completed and cancelled are final.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// CanTransition reports whether an appointment in status from may move to status to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Appointment is a customer's booking of one service at one time.
type Appointment struct {
	ID            string
	ServiceID     string
	ServiceName   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	Notes         string
	StartTime     time.Time
	EndTime       time.Time
	Status        Status
	RemindedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Filter struct {
	Status    string
	ServiceID string
	From      *time.Time // appointments ending after this time
	To        *time.Time // appointments starting before this time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
