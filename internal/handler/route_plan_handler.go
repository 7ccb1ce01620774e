package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"PlazaNav-App/internal/domain/model"
	"PlazaNav-App/internal/usecase"
)

// RoutePlanHandler は屋内経路案内APIのハンドラー
type RoutePlanHandler struct {
	routePlanUseCase usecase.RoutePlanUseCase
}

// NewRoutePlanHandler は新しいRoutePlanHandlerインスタンスを作成
func NewRoutePlanHandler(routePlanUseCase usecase.RoutePlanUseCase) *RoutePlanHandler {
	return &RoutePlanHandler{
		routePlanUseCase: routePlanUseCase,
	}
}

// PostRoute は2点間の経路を返すエンドポイント
// POST /api/guide/route/
func (h *RoutePlanHandler) PostRoute(c *gin.Context) {
	var req model.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.routePlanUseCase.PlanRoute(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
