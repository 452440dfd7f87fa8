package http

import "github.com/gin-gonic/gin"

// Register attaches the session routes. The group must already run
// auth.WithSession so logout and me can see the caller's session.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", h.Me)
}
