package model

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Coordinate リクエスト上の平面座標（メートル）
type Coordinate struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// ToPoint は座標を orb.Point に変換する
func (c *Coordinate) ToPoint(field string) (orb.Point, error) {
	if c == nil {
		return orb.Point{}, &InputError{Field: field, Message: "座標は必須です"}
	}
	if c.X == nil || c.Y == nil {
		return orb.Point{}, &InputError{Field: field, Message: "x と y の両方が必要です"}
	}
	if !isFinite(*c.X) || !isFinite(*c.Y) {
		return orb.Point{}, &InputError{Field: field, Message: "座標は有限の数値である必要があります"}
	}
	return orb.Point{*c.X, *c.Y}, nil
}

// RouteRequest 経路探索リクエスト
type RouteRequest struct {
	MapID *int64      `json:"map_id"`
	Start *Coordinate `json:"start"`
	End   *Coordinate `json:"end"`
}

// RouteResponse 経路探索レスポンス
type RouteResponse struct {
	Route    *geojson.Geometry `json:"route"`    // GeoJSON LineString
	Distance float64           `json:"distance"` // メートル（小数点以下2桁）
}

// RoutePlan ドメインサービスが返す経路
type RoutePlan struct {
	Cells    []GridCell
	Path     orb.LineString // セル中心のワールド座標列
	Distance float64        // Path のユークリッド長
}

// RoundDistance は距離を小数点以下2桁に丸める
func RoundDistance(d float64) float64 {
	return math.Round(d*100) / 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
