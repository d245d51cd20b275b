package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brightnest/cleaning-booking-backend/internal/jobposting"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/request"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/response"
)

type Handler struct {
	service jobposting.Service
}

func NewHandler(service jobposting.Service) *Handler {
	return &Handler{service: service}
}

// ListOpen lists the postings shown on the careers page.
func (h *Handler) ListOpen(c *gin.Context) {
	h.list(c, true)
}

func (h *Handler) ListAll(c *gin.Context) {
	h.list(c, false)
}

func (h *Handler) list(c *gin.Context, activeOnly bool) {
	var req ListJobPostingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	list, total, err := h.service.List(c.Request.Context(), jobposting.Filter{
		ActiveOnly: activeOnly,
		Keyword:    strings.TrimSpace(req.Keyword),
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.Order(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]JobPostingResponse, len(list))
	for i, p := range list {
		items[i] = NewResponse(p)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// GetOpen hides closed postings from the public.
func (h *Handler) GetOpen(c *gin.Context) {
	h.get(c, true)
}

func (h *Handler) Get(c *gin.Context) {
	h.get(c, false)
}

func (h *Handler) get(c *gin.Context, activeOnly bool) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if activeOnly && !p.IsActive {
		response.Error(c, jobposting.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, NewResponse(p))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), jobposting.CreateRequest{
		Title:          body.Title,
		Description:    body.Description,
		Location:       body.Location,
		EmploymentType: body.EmploymentType,
		IsActive:       body.Active(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(p))
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

	p, err := h.service.Update(c.Request.Context(), uri.ID, jobposting.UpdateRequest{
		Title:          body.Title,
		Description:    body.Description,
		Location:       body.Location,
		EmploymentType: body.EmploymentType,
		IsActive:       body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(p))
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
