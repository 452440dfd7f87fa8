package attachments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cerroazul/gestao-obras/internal/auth"
)

// Handler exposes the upload endpoint.
type Handler struct {
	uploader *Uploader
	logger   *zap.Logger
}

func NewHandler(uploader *Uploader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{uploader: uploader, logger: logger}
}

// Register attaches the upload route. The group must already run auth.WithSession.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	if !auth.SessionFrom(c).CanWrite() {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required"})
		return
	}

	kind, err := ParseKind(c.PostForm("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing file"})
		return
	}
	if fh.Size > h.uploader.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": ErrTooLarge.Error()})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid file"})
		return
	}
	defer f.Close()

	att, err := h.uploader.Upload(c.Request.Context(), kind, f)
	if err != nil {
		switch {
		case errors.Is(err, ErrContentType), errors.Is(err, ErrEmptyFile):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		case errors.Is(err, ErrTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": err.Error()})
		default:
			h.logger.Error("store attachment failed", zap.String("kind", string(kind)), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "attachment": att})
}
