package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cerroazul/gestao-obras/internal/projects/domain"
	"github.com/cerroazul/gestao-obras/internal/report"
)

func (h *Handler) reportHTML(c *gin.Context) {
	p, ok := h.svc.Get(strings.TrimSpace(c.Param("id")))
	if !ok {
		writeError(c, domain.ErrNotFound)
		return
	}

	body, err := report.Render(p, h.now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

func (h *Handler) reportPDF(c *gin.Context) {
	p, ok := h.svc.Get(strings.TrimSpace(c.Param("id")))
	if !ok {
		writeError(c, domain.ErrNotFound)
		return
	}
	if h.printer == nil {
		writeError(c, report.ErrPopupBlocked)
		return
	}

	body, err := report.Render(p, h.now())
	if err != nil {
		writeError(c, err)
		return
	}

	pdf, err := h.printer.PrintPDF(c.Request.Context(), body)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", report.DocumentNumber(p.ID)+".pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
