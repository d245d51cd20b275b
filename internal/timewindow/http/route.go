package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers business-hours routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.GET("/time-windows", h.ListOpen)

	admin := g.Group("/admin/time-windows")
	admin.Use(authMiddleware)
	{
		admin.GET("", h.ListAll)
		admin.GET("/:id", h.Get)
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
