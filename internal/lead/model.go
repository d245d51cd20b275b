package lead

import (
	"net/http"
	"time"

	"github.com/brightnest/cleaning-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "lead not found")
	ErrNameRequired   = apperror.New(http.StatusBadRequest, "name is required")
	ErrEmailRequired  = apperror.New(http.StatusBadRequest, "email is required")
	ErrInvalidStatus  = apperror.New(http.StatusBadRequest, "invalid lead status")
	ErrUnknownService = apperror.New(http.StatusBadRequest, "service does not exist")
)

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusConverted Status = "converted"
	StatusClosed    Status = "closed"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusNew, StatusContacted, StatusConverted, StatusClosed:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Lead is a quote or contact request submitted from the public site.
type Lead struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Address     string
	ServiceID   *string
	ServiceName string
	Message     string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing leads.
type Filter struct {
	Status    string
	Keyword   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
