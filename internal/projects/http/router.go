package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
// The group must already run auth.WithSession.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.POST("/refresh", h.refresh)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/report", h.reportHTML)
	rg.GET("/:id/report.pdf", h.reportPDF)
}

// RegisterSelection attaches the detail-view selection routes.
func (h *Handler) RegisterSelection(rg *gin.RouterGroup) {
	rg.GET("", h.selected)
	rg.PUT("", h.selectProject)
	rg.DELETE("", h.clearSelection)
}
