package http

import (
	"time"

	"github.com/brightnest/cleaning-booking-backend/internal/blockeddate"
)

type ListBlockedDatesRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

type BlockedDateResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResponse(b *blockeddate.BlockedDate) BlockedDateResponse {
	return BlockedDateResponse{
		ID:        b.ID,
		Date:      b.Date,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

func newResponses(list []*blockeddate.BlockedDate) []BlockedDateResponse {
	items := make([]BlockedDateResponse, len(list))
	for i, b := range list {
		items[i] = NewResponse(b)
	}
	return items
}

type CreateRequest struct {
	Date   string `json:"date" binding:"required,datetime=2006-01-02"`
	Reason string `json:"reason" binding:"max=255"`
}
