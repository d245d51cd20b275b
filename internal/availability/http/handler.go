package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightnest/cleaning-booking-backend/internal/availability"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

// Slots returns the bookable slots of one service on one date.
// An empty slot list is a normal 200 response. Slots start every 30 minutes regardless of
// the service duration, so for longer services neighbouring slots overlap and booking one
// removes the others.
func (h *Handler) Slots(c *gin.Context) {
	var req SlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	// Binding already checked the layout.
	date, _ := time.Parse(dateLayout, req.Date)

	day, err := h.service.AvailableSlots(c.Request.Context(), req.ServiceID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSlotsResponse(day))
}

// Dates returns per-day slot counts for a calendar view.
func (h *Handler) Dates(c *gin.Context) {
	var req DatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	from, _ := time.Parse(dateLayout, req.From)

	counts, err := h.service.AvailableDates(c.Request.Context(), req.ServiceID, from, req.Days)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDateCountResponses(counts))
}
