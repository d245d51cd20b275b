package http

import (
	"time"

	"github.com/brightnest/cleaning-booking-backend/internal/lead"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/request"
)

type LeadResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	ServiceID   *string   `json:"service_id"`
	ServiceName string    `json:"service_name,omitempty"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewResponse(l *lead.Lead) LeadResponse {
	return LeadResponse{
		ID:          l.ID,
		Name:        l.Name,
		Email:       l.Email,
		Phone:       l.Phone,
		Address:     l.Address,
		ServiceID:   l.ServiceID,
		ServiceName: l.ServiceName,
		Message:     l.Message,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// CreateRequest is the public quote form.
type CreateRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=100,singleline"`
	Email     string  `json:"email" binding:"required,email,max=254"`
	Phone     string  `json:"phone" binding:"omitempty,max=30"`
	Address   string  `json:"address" binding:"omitempty,max=255"`
	ServiceID *string `json:"service_id" binding:"omitempty,uuid"`
	Message   string  `json:"message" binding:"omitempty,max=2000"`
}

type ListLeadsRequest struct {
	request.ListParams
	Status  string `form:"status" binding:"omitempty,oneof=new contacted converted closed"`
	Keyword string `form:"q" binding:"omitempty,max=100"`
	SortBy  string `form:"sort_by" binding:"omitempty,oneof=created_at name status"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted converted closed"`
}
