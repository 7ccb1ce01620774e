package handler

import (
	"github.com/gin-gonic/gin"
)

// NewRouter はAPIのルーティングを設定したginエンジンを作成
func NewRouter(routePlanHandler *RoutePlanHandler, layoutHandler *LayoutValidationHandler, healthHandler *HealthHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), RequestID())

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.GetHealth)

		guide := api.Group("/guide")
		guide.POST("/route/", routePlanHandler.PostRoute)

		maps := api.Group("/maps")
		maps.POST("/validate/", layoutHandler.PostValidate)
		maps.POST("/placement/", layoutHandler.PostPlacement)
	}

	return r
}
