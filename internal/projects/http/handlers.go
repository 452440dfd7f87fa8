package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cerroazul/gestao-obras/internal/auth"
	"github.com/cerroazul/gestao-obras/internal/projects/domain"
)

func (h *Handler) list(c *gin.Context) {
	items := h.svc.Search(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) refresh(c *gin.Context) {
	if err := h.svc.Refresh(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": h.svc.List()})
}

func (h *Handler) get(c *gin.Context) {
	p, ok := h.svc.Get(strings.TrimSpace(c.Param("id")))
	if !ok {
		writeError(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) create(c *gin.Context) {
	sess := auth.SessionFrom(c)
	if !sess.CanWrite() {
		writeError(c, domain.ErrAuthRequired)
		return
	}

	var req domain.NewProject
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), sess, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	sess := auth.SessionFrom(c)
	if !sess.CanWrite() {
		writeError(c, domain.ErrAuthRequired)
		return
	}

	var req domain.ProjectPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), sess, strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.SessionFrom(c), strings.TrimSpace(c.Param("id"))); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type selectReq struct {
	ID string `json:"id"`
}

func (h *Handler) selectProject(c *gin.Context) {
	var req selectReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, ok := h.svc.Select(strings.TrimSpace(req.ID))
	if !ok {
		writeError(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) selected(c *gin.Context) {
	p, ok := h.svc.Selected()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": true, "project": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) clearSelection(c *gin.Context) {
	h.svc.ClearSelection()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
