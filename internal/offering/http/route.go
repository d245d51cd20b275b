package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the service catalog routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	public := g.Group("/services")
	{
		public.GET("", h.ListActive) // List bookable services
		public.GET("/:id", h.Get)    // Get service details
	}

	// === Administration Routes ===
	admin := g.Group("/admin/services")
	admin.Use(authMiddleware)
	{
		admin.GET("", h.ListAll)
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
