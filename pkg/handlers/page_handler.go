package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"csv-chat-api/pkg/models"

	"github.com/gin-gonic/gin"
)

// PageHandler 静的ページのハンドラー
type PageHandler struct {
	staticDir string
}

// NewPageHandler 新しいPageHandlerを作成
func NewPageHandler(staticDir string) *PageHandler {
	return &PageHandler{staticDir: staticDir}
}

// Index serves static/index.html, or 404 when it is absent.
func (h *PageHandler) Index(c *gin.Context) {
	path := filepath.Join(h.staticDir, "index.html")
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: "File not found"})
		return
	}
	c.File(path)
}
