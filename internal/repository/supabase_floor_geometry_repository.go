package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/paulmach/orb"

	"PlazaNav-App/internal/database"
	"PlazaNav-App/internal/domain/model"
	"PlazaNav-App/internal/domain/repository"
)

type SupabaseFloorGeometryRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseFloorGeometryRepository(client *database.SupabaseClient) repository.FloorGeometryRepository {
	return &SupabaseFloorGeometryRepository{
		client: client,
	}
}

// floorGeometryRecord floor_geometries テーブルの行（ジオメトリは GeoJSON）
type floorGeometryRecord struct {
	MapID int64             `json:"map_id"`
	Shell json.RawMessage   `json:"shell"`
	Voids []json.RawMessage `json:"voids"`
}

// floorObstacleRecord floor_obstacles テーブルの行
type floorObstacleRecord struct {
	MapID        int64           `json:"map_id"`
	ObstacleType string          `json:"obstacle_type"`
	ObstacleID   int64           `json:"obstacle_id"`
	Geometry     json.RawMessage `json:"geometry"`
}

func (r *SupabaseFloorGeometryRepository) GetFloorGeometry(ctx context.Context, floorID int64) (*model.FloorGeometry, error) {
	id := strconv.FormatInt(floorID, 10)

	var records []floorGeometryRecord
	data, _, err := r.client.GetClient().From("floor_geometries").Select("*", "exact", false).Eq("map_id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("フロアジオメトリの取得失敗: %w", err)
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("フロアジオメトリのJSONアンマーシャル失敗: %w", err)
	}
	if len(records) == 0 {
		return nil, floorNotFound(floorID)
	}

	plan, err := floorPlanFromRecord(records[0])
	if err != nil {
		log.Printf("⚠️ マップ %d の外周を取得できません: %v", floorID, err)
		return nil, floorNotInitialized(floorID)
	}

	var obstacleRecords []floorObstacleRecord
	data, _, err = r.client.GetClient().From("floor_obstacles").Select("*", "exact", false).Eq("map_id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("エリアの取得失敗: %w", err)
	}
	if err := json.Unmarshal(data, &obstacleRecords); err != nil {
		return nil, fmt.Errorf("エリアのJSONアンマーシャル失敗: %w", err)
	}

	floor := &model.FloorGeometry{FloorID: floorID, FloorPlan: plan}
	for _, rec := range obstacleRecords {
		g, err := decodeJSONColumn(rec.Geometry)
		if err != nil || g == nil {
			log.Printf("⚠️ %s %d をスキップ: %v", rec.ObstacleType, rec.ObstacleID, err)
			continue
		}
		obstacle, err := BuildObstacle(rec.ObstacleType, rec.ObstacleID, g)
		if err != nil {
			log.Printf("⚠️ %s %d をスキップ: %v", rec.ObstacleType, rec.ObstacleID, err)
			continue
		}
		floor.Obstacles = append(floor.Obstacles, obstacle)
	}

	log.Printf("✅ マップ %d を読み込み（Supabase）: void=%d, obstacles=%d", floorID, len(floor.Voids), len(floor.Obstacles))
	return floor, nil
}

// floorPlanFromRecord は外周カラムと吹き抜けカラムから FloorPlan を組み立てる
func floorPlanFromRecord(rec floorGeometryRecord) (model.FloorPlan, error) {
	shell, err := decodeJSONColumn(rec.Shell)
	if err != nil {
		return model.FloorPlan{}, err
	}
	plan, err := SplitFloorDetail(shell)
	if err != nil {
		return model.FloorPlan{}, err
	}

	for i, raw := range rec.Voids {
		g, err := decodeJSONColumn(raw)
		if err != nil {
			return model.FloorPlan{}, fmt.Errorf("void[%d]: %w", i, err)
		}
		switch v := g.(type) {
		case orb.Polygon:
			plan.Voids = appendVoid(plan.Voids, v)
		case orb.MultiPolygon:
			for _, p := range v {
				plan.Voids = appendVoid(plan.Voids, p)
			}
		}
	}
	return plan, nil
}

func appendVoid(voids []orb.Polygon, p orb.Polygon) []orb.Polygon {
	if len(p) == 0 {
		return voids
	}
	return append(voids, orb.Polygon{p[0]})
}
