package service

import (
	"github.com/paulmach/orb"

	"PlazaNav-App/internal/domain/helper"
	"PlazaNav-App/internal/domain/model"
)

// 単一形状チェックの理由メッセージ
const (
	PlacementReasonValid     = "placement is valid"
	PlacementReasonInvalid   = "invalid geometry: "
	PlacementReasonBoundary  = "shape exceeds the floor boundary"
	PlacementReasonVoid      = "shape enters a void/atrium"
	PlacementReasonCollision = "shape collides with an existing area"
)

// PlacementValidator は1つの候補形状がフロアに配置可能かを判定する
type PlacementValidator interface {
	Validate(candidate orb.Polygon, floor model.FloorPlan, existing []orb.Polygon) model.PlacementResult
}

type placementValidator struct{}

// NewPlacementValidator は新しいPlacementValidatorインスタンスを作成
func NewPlacementValidator() PlacementValidator {
	return &placementValidator{}
}

// Validate はルールを順に評価し、最初に失敗したルールの理由を返す
// 点の膨張と編集中エンティティの除外は呼び出し側の責務
//  1. 構文: 単純な閉リングで面積を持つ
//  2. 包含: 外周に完全に含まれる
//  3. 吹き抜け: どの void とも交差しない（境界の接触も違反）
//  4. 衝突: どの既存障害物とも交差しない（境界の接触も違反）
func (v *placementValidator) Validate(candidate orb.Polygon, floor model.FloorPlan, existing []orb.Polygon) model.PlacementResult {
	if err := helper.ValidatePolygon(candidate); err != nil {
		return model.PlacementResult{Valid: false, Reason: PlacementReasonInvalid + err.Error()}
	}

	if !helper.Contains(floor.OuterShell, candidate) {
		return model.PlacementResult{Valid: false, Reason: PlacementReasonBoundary}
	}

	for _, void := range floor.Voids {
		if helper.Intersects(candidate, void) {
			return model.PlacementResult{Valid: false, Reason: PlacementReasonVoid}
		}
	}

	for _, obstacle := range existing {
		if helper.Intersects(candidate, obstacle) {
			return model.PlacementResult{Valid: false, Reason: PlacementReasonCollision}
		}
	}

	return model.PlacementResult{Valid: true, Reason: PlacementReasonValid}
}
