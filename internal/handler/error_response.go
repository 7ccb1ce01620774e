package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"PlazaNav-App/internal/domain/model"
)

// エラーレスポンスのコード
const (
	ErrCodeInvalidRequest      = "invalid_request"
	ErrCodeNotFound            = "not_found"
	ErrCodeEndpointNotWalkable = "endpoint_not_walkable"
	ErrCodeNoPath              = "no_path"
	ErrCodeGridTooLarge        = "grid_too_large"
	ErrCodeInternal            = "internal_error"
)

// respondError はドメインのエラー型をHTTPステータスとエラーコードに変換して返す
func respondError(c *gin.Context, err error) {
	var (
		inputErr    *model.InputError
		notFoundErr *model.NotFoundError
		preErr      *model.PreconditionError
		unreachable *model.UnreachableError
		resourceErr *model.ResourceLimitError
	)

	switch {
	case errors.As(err, &inputErr):
		abortWithError(c, http.StatusBadRequest, ErrCodeInvalidRequest, inputErr.Error())
	case errors.As(err, &notFoundErr):
		abortWithError(c, http.StatusNotFound, ErrCodeNotFound, notFoundErr.Error())
	case errors.As(err, &preErr):
		abortWithError(c, http.StatusBadRequest, ErrCodeEndpointNotWalkable, preErr.Error())
	case errors.As(err, &unreachable):
		abortWithError(c, http.StatusNotFound, ErrCodeNoPath, unreachable.Error())
	case errors.As(err, &resourceErr):
		abortWithError(c, http.StatusUnprocessableEntity, ErrCodeGridTooLarge, resourceErr.Error())
	default:
		log.Printf("❌ 内部エラー [%s]: %v", c.GetString(requestIDKey), err)
		abortWithError(c, http.StatusInternalServerError, ErrCodeInternal, "内部エラーが発生しました")
	}
}

// respondBindError はリクエストボディのバインド失敗を返す
func respondBindError(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "リクエストの形式が正しくありません: "+err.Error())
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":   code,
		"message": message,
	})
}
