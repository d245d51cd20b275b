package jobposting

import (
	"net/http"
	"time"

	"github.com/brightnest/cleaning-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound              = apperror.New(http.StatusNotFound, "job posting not found")
	ErrTitleRequired         = apperror.New(http.StatusBadRequest, "title is required")
	ErrDescriptionRequired   = apperror.New(http.StatusBadRequest, "description is required")
	ErrInvalidEmploymentType = apperror.New(http.StatusBadRequest, "employment type must be full_time, part_time or contract")
)

type EmploymentType string

const (
	FullTime EmploymentType = "full_time"
	PartTime EmploymentType = "part_time"
	Contract EmploymentType = "contract"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case FullTime, PartTime, Contract:
		return true
	}
	return false
}

// JobPosting is an open position shown on the careers page.
type JobPosting struct {
	ID             string
	Title          string
	Description    string
	Location       string
	EmploymentType EmploymentType
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Filter defines parameters for listing job postings.
type Filter struct {
	ActiveOnly bool
	Keyword    string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
