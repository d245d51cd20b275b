package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightnest/cleaning-booking-backend/internal/blockeddate"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/request"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/response"
)

type Handler struct {
	service blockeddate.Service
}

func NewHandler(service blockeddate.Service) *Handler {
	return &Handler{service: service}
}

// Upcoming lists closures from today on, for the public booking calendar.
func (h *Handler) Upcoming(c *gin.Context) {
	list, err := h.service.Upcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": newResponses(list)})
}

func (h *Handler) List(c *gin.Context) {
	var req ListBlockedDatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	list, err := h.service.List(c.Request.Context(), blockeddate.Filter{From: req.From, To: req.To})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": newResponses(list)})
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResponse(b))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), blockeddate.CreateRequest{
		Date:   body.Date,
		Reason: body.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
