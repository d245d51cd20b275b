package availability

import (
	"net/http"
	"time"

	"github.com/brightnest/cleaning-booking-backend/internal/pkg/apperror"
)

var (
	ErrServiceNotFound = apperror.New(http.StatusNotFound, "service not found")
	ErrServiceInactive = apperror.New(http.StatusNotFound, "service is not available for booking")
	ErrInvalidDuration = apperror.New(http.StatusBadRequest, "service duration must be positive")
	// ErrUnavailable means a lookup failed and availability could not be determined.
	// It is never reported as "no slots".
	ErrUnavailable = apperror.New(http.StatusServiceUnavailable, "availability could not be determined, please try again")
)

const (
	// GridStep is the spacing between candidate start times. It is independent
	// of the service duration, so candidates for long services overlap each other.
	GridStep = 30 * time.Minute

	// DefaultBufferMinutes is used when no buffer is configured.
	DefaultBufferMinutes = 30

	// MaxDateRange bounds AvailableDates.
	MaxDateRange = 31

	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ServiceInfo is the part of a service definition the engine needs.
type ServiceInfo struct {
	ID              string
	Name            string
	DurationMinutes int
	IsActive        bool
}

// Window is a weekly recurring business-hours interval.
// DayOfWeek follows time.Weekday (0 = Sunday). Times are "HH:MM" or "HH:MM:SS".
type Window struct {
	ID          string
	DayOfWeek   int
	StartTime   string
	EndTime     string
	IsAvailable bool
}

// Booking is an existing appointment as seen by conflict checks.
type Booking struct {
	ID        string
	ServiceID string
	StartTime time.Time
	EndTime   time.Time
	Status    Status
}

// Slot is a bookable candidate on the queried date. Unavailable candidates
// are omitted rather than returned with Available=false.
type Slot struct {
	StartTime string
	EndTime   string
	Available bool
}

// DaySlots is the result of AvailableSlots.
type DaySlots struct {
	Service ServiceInfo
	Date    time.Time
	Slots   []Slot
}

// DayCount is one entry of AvailableDates.
type DayCount struct {
	Date      time.Time
	SlotCount int
}

// RejectReason classifies why a proposed booking was refused.
type RejectReason string

const (
	RejectInvalidRange RejectReason = "invalid_range"
	RejectPast         RejectReason = "past"
	RejectBlocked      RejectReason = "blocked_date"
	RejectOutsideHours RejectReason = "outside_business_hours"
	RejectOverlap      RejectReason = "overlap"
)

var rejectMessages = map[RejectReason]string{
	RejectInvalidRange: "End time must be after start time",
	RejectPast:         "Cannot book appointments in the past",
	RejectBlocked:      "This date is not available for booking",
	RejectOutsideHours: "Selected time is outside business hours",
	RejectOverlap:      "This time slot is no longer available",
}

// Validation is the outcome of ValidateProposedBooking.
// A rejection is a normal result, not an error.
type Validation struct {
	IsValid     bool
	Reason      RejectReason
	ErrorReason string
}

func reject(reason RejectReason) Validation {
	return Validation{
		IsValid:     false,
		Reason:      reason,
		ErrorReason: rejectMessages[reason],
	}
}
