package http

import (
	"time"

	"github.com/brightnest/cleaning-booking-backend/internal/timewindow"
)

// ListTimeWindowsRequest defines query parameters for listing windows.
type ListTimeWindowsRequest struct {
	DayOfWeek *int `form:"day_of_week" binding:"omitempty,min=0,max=6"`
}

type TimeWindowResponse struct {
	ID          string    `json:"id"`
	DayOfWeek   int       `json:"day_of_week"`
	DayName     string    `json:"day_name"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewResponse(w *timewindow.TimeWindow) TimeWindowResponse {
	return TimeWindowResponse{
		ID:          w.ID,
		DayOfWeek:   w.DayOfWeek,
		DayName:     time.Weekday(w.DayOfWeek).String(),
		StartTime:   w.StartTime,
		EndTime:     w.EndTime,
		IsAvailable: w.IsAvailable,
		CreatedAt:   w.CreatedAt,
	}
}

type CreateRequest struct {
	DayOfWeek   *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime   string `json:"start_time" binding:"required,hhmm"`
	EndTime     string `json:"end_time" binding:"required,hhmm"`
	IsAvailable *bool  `json:"is_available"`
}

// Validate performs custom validation for CreateRequest.
func (r *CreateRequest) Validate() error {
	if r.StartTime >= r.EndTime {
		return timewindow.ErrInvalidTimeRange
	}
	return nil
}

type UpdateRequest struct {
	DayOfWeek   *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	StartTime   *string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime     *string `json:"end_time" binding:"omitempty,hhmm"`
	IsAvailable *bool   `json:"is_available"`
}

// Validate performs custom validation for UpdateRequest.
func (r *UpdateRequest) Validate() error {
	if r.StartTime != nil && r.EndTime != nil && *r.StartTime >= *r.EndTime {
		return timewindow.ErrInvalidTimeRange
	}
	return nil
}
