package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cerroazul/gestao-obras/internal/projects/domain"
	"github.com/cerroazul/gestao-obras/internal/report"
)

const popupBlockedMessage = "Por favor, permita popups para gerar o PDF do projeto"

// writeError maps domain errors onto the response envelope.
func writeError(c *gin.Context, err error) {
	var (
		vErr *domain.ValidationError
		wErr *domain.RemoteWriteError
		rErr *domain.RemoteReadError
	)

	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": vErr.Error(), "field": vErr.Field})
	case errors.Is(err, domain.ErrEmptyPatch):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.As(err, &wErr), errors.As(err, &rErr):
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, report.ErrPopupBlocked):
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": popupBlockedMessage})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
