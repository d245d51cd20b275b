package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, createLimiter gin.HandlerFunc) {
	g.POST("/leads", createLimiter, h.Create)

	// === Administration Routes ===
	admin := g.Group("/admin/leads")
	admin.Use(authMiddleware)
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.PATCH("/:id/status", h.UpdateStatus)
		admin.DELETE("/:id", h.Delete)
	}
}
