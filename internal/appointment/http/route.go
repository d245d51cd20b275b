package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers appointment routes. createLimiter throttles the public booking form.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, createLimiter gin.HandlerFunc) {
	g.POST("/appointments", createLimiter, h.Create)

	// === Administration Routes ===
	admin := g.Group("/admin/appointments")
	admin.Use(authMiddleware)
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.PATCH("/:id/status", h.UpdateStatus)
	}
}
