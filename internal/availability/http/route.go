package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the public availability routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/availability")
	{
		group.GET("", h.Slots)
		group.GET("/dates", h.Dates)
	}
}
