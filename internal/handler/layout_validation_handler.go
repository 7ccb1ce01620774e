package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"PlazaNav-App/internal/domain/model"
	"PlazaNav-App/internal/usecase"
)

// LayoutValidationHandler はマップ編集時の配置検証APIのハンドラー
type LayoutValidationHandler struct {
	layoutValidationUseCase usecase.LayoutValidationUseCase
}

// NewLayoutValidationHandler は新しいLayoutValidationHandlerインスタンスを作成
func NewLayoutValidationHandler(layoutValidationUseCase usecase.LayoutValidationUseCase) *LayoutValidationHandler {
	return &LayoutValidationHandler{
		layoutValidationUseCase: layoutValidationUseCase,
	}
}

// PostValidate は複数エリアの一括検証エンドポイント
// 違反があっても200で {valid: false, errors: [...]} を返す
// POST /api/maps/validate/
func (h *LayoutValidationHandler) PostValidate(c *gin.Context) {
	var req model.BatchValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.layoutValidationUseCase.ValidateLayout(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PostPlacement は単一形状の配置チェックエンドポイント
// POST /api/maps/placement/
func (h *LayoutValidationHandler) PostPlacement(c *gin.Context) {
	var req model.PlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.layoutValidationUseCase.CheckPlacement(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
