package model

import "github.com/paulmach/orb/geojson"

// UpdateItem 一括検証で同時に編集されているエリア
type UpdateItem struct {
	ID       int64             `json:"id"`
	Type     ObstacleType      `json:"type"`
	Geometry *geojson.Geometry `json:"geometry"`
}

// BatchValidationRequest 一括検証リクエスト
type BatchValidationRequest struct {
	MapID   *int64       `json:"map_id"`
	Updates []UpdateItem `json:"updates"`
}

// ValidationResult 一括検証の結果（全違反を蓄積）
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// PlacementRequest 単一形状の配置チェックリクエスト
// ID を指定すると編集中のエンティティ自身は既存障害物から除外される
type PlacementRequest struct {
	MapID    *int64            `json:"map_id"`
	Type     ObstacleType      `json:"type"`
	ID       *int64            `json:"id"`
	Geometry *geojson.Geometry `json:"geometry"`
}

// PlacementResult 単一形状チェックの結果（最初に失敗したルールの理由のみ）
type PlacementResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}
