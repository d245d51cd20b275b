package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightnest/cleaning-booking-backend/internal/pkg/request"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/response"
	"github.com/brightnest/cleaning-booking-backend/internal/timewindow"
)

type Handler struct {
	service timewindow.Service
}

func NewHandler(service timewindow.Service) *Handler {
	return &Handler{service: service}
}

// ListOpen returns the business hours shown to customers.
func (h *Handler) ListOpen(c *gin.Context) {
	h.list(c, true)
}

// ListAll includes windows switched off by the admin.
func (h *Handler) ListAll(c *gin.Context) {
	h.list(c, false)
}

func (h *Handler) list(c *gin.Context, availableOnly bool) {
	var req ListTimeWindowsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	windows, err := h.service.List(c.Request.Context(), timewindow.Filter{
		DayOfWeek:     req.DayOfWeek,
		AvailableOnly: availableOnly,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]TimeWindowResponse, len(windows))
	for i, w := range windows {
		items[i] = NewResponse(w)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	w, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(w))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	isAvailable := true
	if body.IsAvailable != nil {
		isAvailable = *body.IsAvailable
	}

	w, err := h.service.Create(c.Request.Context(), timewindow.CreateRequest{
		DayOfWeek:   *body.DayOfWeek,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		IsAvailable: isAvailable,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(w))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	w, err := h.service.Update(c.Request.Context(), uri.ID, timewindow.UpdateRequest{
		DayOfWeek:   body.DayOfWeek,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		IsAvailable: body.IsAvailable,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(w))
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
