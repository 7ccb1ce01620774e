package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"PlazaNav-App/internal/domain/model"
	"PlazaNav-App/internal/domain/repository"
	"PlazaNav-App/internal/infrastructure/database"
)

// PostgresFloorGeometryRepository PostGIS のマップ・エリアテーブルからフロアを読み込む
type PostgresFloorGeometryRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresFloorGeometryRepository(client *database.PostgreSQLClient) repository.FloorGeometryRepository {
	return &PostgresFloorGeometryRepository{
		client: client,
	}
}

// mapDetailRow map テーブルの detail（GeometryCollection）
type mapDetailRow struct {
	ID     int64          `db:"id"`
	Detail sql.NullString `db:"detail"`
}

// obstacleRow 4種類のエリアテーブルを UNION ALL でまとめた行
type obstacleRow struct {
	Kind string         `db:"kind"`
	ID   int64          `db:"id"`
	WKT  sql.NullString `db:"wkt"`
}

const selectMapDetailQuery = `SELECT id, ST_AsText(detail) AS detail FROM map WHERE id = $1`

const selectFloorObstaclesQuery = `
SELECT 'store' AS kind, s.id, ST_AsText(s.shape) AS wkt
  FROM storearea s JOIN storearea_map sm ON sm.storearea_id = s.id
 WHERE sm.map_id = $1
UNION ALL
SELECT 'facility' AS kind, f.id, ST_AsText(f.location) AS wkt
  FROM facility f JOIN facility_map fm ON fm.facility_id = f.id
 WHERE fm.map_id = $1
UNION ALL
SELECT 'other' AS kind, o.id, ST_AsText(o.shape) AS wkt
  FROM otherarea o JOIN otherarea_map om ON om.otherarea_id = o.id
 WHERE om.map_id = $1
UNION ALL
SELECT 'event' AS kind, e.id, ST_AsText(e.shape) AS wkt
  FROM eventarea e JOIN eventarea_map em ON em.eventarea_id = e.id
 WHERE em.map_id = $1
ORDER BY kind, id`

// GetFloorGeometry はマップの外周・吹き抜けと紐づく全エリアを取得する
func (r *PostgresFloorGeometryRepository) GetFloorGeometry(ctx context.Context, floorID int64) (*model.FloorGeometry, error) {
	var detail mapDetailRow
	if err := r.client.DB.GetContext(ctx, &detail, selectMapDetailQuery, floorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, floorNotFound(floorID)
		}
		return nil, fmt.Errorf("マップの取得失敗: %w", err)
	}
	if !detail.Detail.Valid || detail.Detail.String == "" {
		return nil, floorNotInitialized(floorID)
	}

	g, err := ParseWKT(detail.Detail.String)
	if err != nil {
		return nil, fmt.Errorf("マップ %d の detail 解析失敗: %w", floorID, err)
	}
	plan, err := SplitFloorDetail(g)
	if err != nil {
		log.Printf("⚠️ マップ %d の外周を取得できません: %v", floorID, err)
		return nil, floorNotInitialized(floorID)
	}

	var rows []obstacleRow
	if err := r.client.DB.SelectContext(ctx, &rows, selectFloorObstaclesQuery, floorID); err != nil {
		return nil, fmt.Errorf("エリアの取得失敗: %w", err)
	}

	floor := &model.FloorGeometry{FloorID: floorID, FloorPlan: plan}
	for _, row := range rows {
		if !row.WKT.Valid {
			continue
		}
		g, err := ParseWKT(row.WKT.String)
		if err != nil {
			log.Printf("⚠️ %s %d をスキップ: %v", row.Kind, row.ID, err)
			continue
		}
		obstacle, err := BuildObstacle(row.Kind, row.ID, g)
		if err != nil {
			log.Printf("⚠️ %s %d をスキップ: %v", row.Kind, row.ID, err)
			continue
		}
		floor.Obstacles = append(floor.Obstacles, obstacle)
	}

	log.Printf("✅ マップ %d を読み込み: void=%d, obstacles=%d", floorID, len(floor.Voids), len(floor.Obstacles))
	return floor, nil
}
