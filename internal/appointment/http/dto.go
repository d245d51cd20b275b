package http

import (
	"errors"
	"time"

	"github.com/brightnest/cleaning-booking-backend/internal/appointment"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/request"
)

// CreateRequest is the public booking form.
type CreateRequest struct {
	ServiceID     string `json:"service_id" binding:"required,uuid"`
	Date          string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime     string `json:"start_time" binding:"required,hhmm"`
	CustomerName  string `json:"customer_name" binding:"required,min=1,max=100,singleline"`
	CustomerEmail string `json:"customer_email" binding:"required,email,max=254"`
	CustomerPhone string `json:"customer_phone" binding:"omitempty,max=30"`
	Address       string `json:"address" binding:"required,min=1,max=255"`
	Notes         string `json:"notes" binding:"omitempty,max=1000"`
}

// ListAppointmentsRequest defines query parameters for the admin list.
type ListAppointmentsRequest struct {
	request.ListParams
	Status    string `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	ServiceID string `form:"service_id" binding:"omitempty,uuid"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=start_time created_at status"`
}

// Validate performs custom validation for ListAppointmentsRequest.
func (r *ListAppointmentsRequest) Validate() error {
	if r.From != "" && r.To != "" {
		from, _ := time.Parse(time.RFC3339, r.From)
		to, _ := time.Parse(time.RFC3339, r.To)
		if !from.Before(to) {
			return errors.New("from must be before to")
		}
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

type AppointmentResponse struct {
	ID            string     `json:"id"`
	ServiceID     string     `json:"service_id"`
	ServiceName   string     `json:"service_name"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone"`
	Address       string     `json:"address"`
	Notes         string     `json:"notes"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	Status        string     `json:"status"`
	RemindedAt    *time.Time `json:"reminded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func NewResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            a.ID,
		ServiceID:     a.ServiceID,
		ServiceName:   a.ServiceName,
		CustomerName:  a.CustomerName,
		CustomerEmail: a.CustomerEmail,
		CustomerPhone: a.CustomerPhone,
		Address:       a.Address,
		Notes:         a.Notes,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Status:        string(a.Status),
		RemindedAt:    a.RemindedAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// BookingConfirmation is returned to the customer; it omits admin-only fields.
type BookingConfirmation struct {
	ID          string    `json:"id"`
	ServiceName string    `json:"service_name"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
}

func NewConfirmation(a *appointment.Appointment) BookingConfirmation {
	return BookingConfirmation{
		ID:          a.ID,
		ServiceName: a.ServiceName,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Status:      string(a.Status),
	}
}
