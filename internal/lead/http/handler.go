package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brightnest/cleaning-booking-backend/internal/lead"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/request"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/response"
)

type Handler struct {
	service lead.Service
}

func NewHandler(service lead.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	l, err := h.service.Create(c.Request.Context(), lead.CreateRequest{
		Name:      body.Name,
		Email:     body.Email,
		Phone:     body.Phone,
		Address:   body.Address,
		ServiceID: body.ServiceID,
		Message:   body.Message,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": l.ID, "status": l.Status})
}

func (h *Handler) List(c *gin.Context) {
	var req ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	list, total, err := h.service.List(c.Request.Context(), lead.Filter{
		Status:    req.Status,
		Keyword:   strings.TrimSpace(req.Keyword),
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.Order(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]LeadResponse, len(list))
	for i, l := range list {
		items[i] = NewResponse(l)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(l))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	l, err := h.service.UpdateStatus(c.Request.Context(), uri.ID, body.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(l))
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
