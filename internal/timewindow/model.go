package timewindow

import (
	"net/http"
	"strings"
	"time"

	"github.com/brightnest/cleaning-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "time window not found")
	ErrInvalidDay       = apperror.New(http.StatusBadRequest, "day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidTime      = apperror.New(http.StatusBadRequest, "time must be in HH:MM format")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
)

// TimeWindow is a weekly recurring interval during which appointments can be booked.
// Several windows may exist for the same weekday, e.g. a split shift.
type TimeWindow struct {
	ID          string
	DayOfWeek   int // 0 = Sunday .. 6 = Saturday
	StartTime   string
	EndTime     string
	IsAvailable bool
	CreatedAt   time.Time
}

// Filter defines parameters for listing windows.
type Filter struct {
	DayOfWeek     *int
	AvailableOnly bool
}

// trimSeconds turns Postgres TIME text ("08:00:00") into "08:00".
func trimSeconds(s string) string {
	if len(s) == len("15:04:05") && strings.HasSuffix(s, ":00") {
		return s[:5]
	}
	return s
}
