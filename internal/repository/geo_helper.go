package repository

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"PlazaNav-App/internal/domain/model"
)

// ParseWKT は PostGIS の ST_AsText や Firestore に保存された WKT 文字列を解析する
func ParseWKT(s string) (orb.Geometry, error) {
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("WKTパースエラー: %w", err)
	}
	return g, nil
}

// ParseGeoJSON は GeoJSON ジオメトリ（Feature ではなく geometry オブジェクト）を解析する
func ParseGeoJSON(raw []byte) (orb.Geometry, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("GeoJSONパースエラー: %w", err)
	}
	return g.Geometry(), nil
}

// SplitFloorDetail はマップの detail ジオメトリを外周と吹き抜けに分ける
// GeometryCollection / MultiPolygon は最初のポリゴンが外周、残りが吹き抜け。
// ポリゴンの穴も吹き抜けとして独立したポリゴンに変換する
func SplitFloorDetail(g orb.Geometry) (model.FloorPlan, error) {
	var polygons []orb.Polygon
	switch v := g.(type) {
	case orb.Polygon:
		polygons = append(polygons, v)
	case orb.MultiPolygon:
		polygons = append(polygons, v...)
	case orb.Collection:
		for _, child := range v {
			switch c := child.(type) {
			case orb.Polygon:
				polygons = append(polygons, c)
			case orb.MultiPolygon:
				polygons = append(polygons, c...)
			}
		}
	case nil:
		return model.FloorPlan{}, fmt.Errorf("detail ジオメトリが空です")
	default:
		return model.FloorPlan{}, fmt.Errorf("未対応の detail ジオメトリ型: %s", g.GeoJSONType())
	}

	if len(polygons) == 0 || len(polygons[0]) == 0 {
		return model.FloorPlan{}, fmt.Errorf("外周ポリゴンが見つかりません")
	}

	plan := model.FloorPlan{OuterShell: orb.Polygon{polygons[0][0]}}
	for _, hole := range polygons[0][1:] {
		plan.Voids = append(plan.Voids, orb.Polygon{hole})
	}
	for _, p := range polygons[1:] {
		if len(p) == 0 {
			continue
		}
		plan.Voids = append(plan.Voids, orb.Polygon{p[0]})
	}
	return plan, nil
}

// NormalizeObstacleShape は障害物の種別に合った形状に揃える
// 設備は点、それ以外は単一ポリゴン（要素1つの Multi 型は展開する）
func NormalizeObstacleShape(t model.ObstacleType, g orb.Geometry) (orb.Geometry, error) {
	if t == model.ObstacleFacility {
		switch v := g.(type) {
		case orb.Point:
			return v, nil
		case orb.MultiPoint:
			if len(v) == 1 {
				return v[0], nil
			}
		}
		return nil, fmt.Errorf("%s の形状は Point である必要があります", t)
	}

	switch v := g.(type) {
	case orb.Polygon:
		return v, nil
	case orb.MultiPolygon:
		if len(v) == 1 {
			return v[0], nil
		}
	}
	return nil, fmt.Errorf("%s の形状は Polygon である必要があります", t)
}

// BuildObstacle は保存された種別名・ID・形状から障害物を組み立てる
func BuildObstacle(kind string, id int64, g orb.Geometry) (model.Obstacle, error) {
	t, err := model.ParseObstacleType(kind)
	if err != nil {
		return model.Obstacle{}, err
	}
	shape, err := NormalizeObstacleShape(t, g)
	if err != nil {
		return model.Obstacle{}, err
	}
	return model.Obstacle{Type: t, ID: id, Shape: shape}, nil
}

// PathToGeoJSON は経路を GeoJSON LineString に変換する
// 1点だけの経路は同じ点を2回並べて有効な LineString にする
func PathToGeoJSON(path orb.LineString) *geojson.Geometry {
	line := path
	if len(line) == 1 {
		line = orb.LineString{path[0], path[0]}
	}
	return geojson.NewGeometry(line)
}

// floorNotFound はフロアが存在しない場合のエラー
func floorNotFound(floorID int64) error {
	return &model.NotFoundError{Resource: "Map", ID: strconv.FormatInt(floorID, 10)}
}

// floorNotInitialized は外周が未設定のフロアのエラー
func floorNotInitialized(floorID int64) error {
	return &model.NotFoundError{Resource: "Map", ID: strconv.FormatInt(floorID, 10), Reason: "not initialized"}
}

// decodeJSONColumn は JSON 文字列カラムを GeoJSON ジオメトリとして解析する
func decodeJSONColumn(raw json.RawMessage) (orb.Geometry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	// JSON 文字列としてエンコードされた GeoJSON にも対応する
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("GeoJSONカラムのデコード失敗: %w", err)
		}
		raw = json.RawMessage(s)
	}
	return ParseGeoJSON(raw)
}
