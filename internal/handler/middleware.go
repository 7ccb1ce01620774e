package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"PlazaNav-App/internal/usecase"
)

// RequestIDHeader リクエストIDのヘッダー名
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID はリクエストごとにIDを割り当てる（クライアント指定のIDがあればそれを使う）
// IDはレスポンスヘッダーとリクエストのコンテキストに設定される
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(usecase.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
