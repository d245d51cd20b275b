package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	public := g.Group("/job-postings")
	{
		public.GET("", h.ListOpen)
		public.GET("/:id", h.GetOpen)
	}

	// === Administration Routes ===
	admin := g.Group("/admin/job-postings")
	admin.Use(authMiddleware)
	{
		admin.GET("", h.ListAll)
		admin.GET("/:id", h.Get)
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
