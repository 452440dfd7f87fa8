package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cerroazul/gestao-obras/internal/auth"
	"github.com/cerroazul/gestao-obras/internal/auth/domain"
)

// Login checks the submitted credentials against the configured administrator
// and returns a bearer token for later requests.
func (h *Handler) Login(c *gin.Context) {
	var creds domain.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	token, sess, err := h.authService.Login(c.Request.Context(), creds)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "usuário ou senha inválidos"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "token": token, "session": sess})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), auth.TokenFrom(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": auth.SessionFrom(c).Logout()})
}

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": auth.SessionFrom(c)})
}
