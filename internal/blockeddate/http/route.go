package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.GET("/blocked-dates", h.Upcoming)

	admin := g.Group("/admin/blocked-dates")
	admin.Use(authMiddleware)
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.POST("", h.Create)
		admin.DELETE("/:id", h.Delete)
	}
}
