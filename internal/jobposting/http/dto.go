package http

import (
	"time"

	"github.com/brightnest/cleaning-booking-backend/internal/jobposting"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/request"
)

type ListJobPostingsRequest struct {
	request.ListParams
	Keyword string `form:"q" binding:"omitempty,max=100"`
	SortBy  string `form:"sort_by" binding:"omitempty,oneof=created_at title"`
}

type JobPostingResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	EmploymentType string    `json:"employment_type"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewResponse(p *jobposting.JobPosting) JobPostingResponse {
	return JobPostingResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Location:       p.Location,
		EmploymentType: string(p.EmploymentType),
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

type CreateRequest struct {
	Title          string `json:"title" binding:"required,min=1,max=150"`
	Description    string `json:"description" binding:"required,min=1,max=10000"`
	Location       string `json:"location" binding:"omitempty,max=150"`
	EmploymentType string `json:"employment_type" binding:"omitempty,oneof=full_time part_time contract"`
	IsActive       *bool  `json:"is_active"`
}

// Active defaults to true when the field is omitted.
func (r *CreateRequest) Active() bool {
	return r.IsActive == nil || *r.IsActive
}

type UpdateRequest struct {
	Title          *string `json:"title" binding:"omitempty,min=1,max=150"`
	Description    *string `json:"description" binding:"omitempty,min=1,max=10000"`
	Location       *string `json:"location" binding:"omitempty,max=150"`
	EmploymentType *string `json:"employment_type" binding:"omitempty,oneof=full_time part_time contract"`
	IsActive       *bool   `json:"is_active"`
}
