package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightnest/cleaning-booking-backend/internal/activity"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/response"
)

type RecentRequest struct {
	Limit int `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
}

type Handler struct {
	log *activity.Log
}

func NewHandler(log *activity.Log) *Handler {
	return &Handler{log: log}
}

// Recent returns the latest booking and lead events for the admin dashboard.
func (h *Handler) Recent(c *gin.Context) {
	var req RecentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": h.log.Recent(req.Limit)})
}

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.GET("/admin/activity", authMiddleware, h.Recent)
}
