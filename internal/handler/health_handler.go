package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheckFunc はジオメトリ取得元の疎通確認
type HealthCheckFunc func(ctx context.Context) error

// HealthHandler はヘルスチェックのハンドラー
type HealthHandler struct {
	source string
	check  HealthCheckFunc
}

// NewHealthHandler は新しいHealthHandlerインスタンスを作成（check は nil でもよい）
func NewHealthHandler(source string, check HealthCheckFunc) *HealthHandler {
	return &HealthHandler{source: source, check: check}
}

// GetHealth GET /api/health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	if h.check != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.check(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":          "unhealthy",
				"service":         "PlazaNav-App",
				"geometry_source": h.source,
				"message":         err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"service":         "PlazaNav-App",
		"geometry_source": h.source,
	})
}
