package blockeddate

import (
	"net/http"
	"time"

	"github.com/brightnest/cleaning-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "blocked date not found")
	ErrAlreadyExists = apperror.New(http.StatusConflict, "date is already blocked")
	ErrInvalidRange  = apperror.New(http.StatusBadRequest, "from must not be after to")
)

const DateLayout = "2006-01-02"

// BlockedDate closes a whole calendar day regardless of business hours.
type BlockedDate struct {
	ID        string
	Date      string // YYYY-MM-DD
	Reason    string
	CreatedAt time.Time
}

// Filter selects blocked dates by inclusive calendar range. Empty bounds are open.
type Filter struct {
	From string
	To   string
}
