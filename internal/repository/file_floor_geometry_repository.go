package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"PlazaNav-App/internal/domain/model"
	"PlazaNav-App/internal/domain/repository"
)

// Feature の role プロパティ
const (
	featureRoleShell    = "shell"
	featureRoleVoid     = "void"
	featureRoleObstacle = "obstacle"
)

// FileFloorGeometryRepository ディレクトリ内の <id>.geojson（FeatureCollection）からフロアを読み込む
type FileFloorGeometryRepository struct {
	dir string
}

func NewFileFloorGeometryRepository(dir string) repository.FloorGeometryRepository {
	return &FileFloorGeometryRepository{
		dir: dir,
	}
}

func (r *FileFloorGeometryRepository) GetFloorGeometry(ctx context.Context, floorID int64) (*model.FloorGeometry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(r.dir, strconv.FormatInt(floorID, 10)+".geojson")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, floorNotFound(floorID)
		}
		return nil, fmt.Errorf("フロアファイルの読み込み失敗: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("フロアファイル %s のパース失敗: %w", path, err)
	}

	return FloorGeometryFromFeatures(floorID, fc)
}

// FloorGeometryFromFeatures は role/type/id プロパティを持つ Feature 群からフロアを組み立てる
// role=shell の最初の Feature が外周、role=void が吹き抜け、role=obstacle が障害物
// 不正な障害物は他の提供元と同じくログを出してスキップする
func FloorGeometryFromFeatures(floorID int64, fc *geojson.FeatureCollection) (*model.FloorGeometry, error) {
	floor := &model.FloorGeometry{FloorID: floorID}
	hasShell := false

	for i, f := range fc.Features {
		role := f.Properties.MustString("role", featureRoleObstacle)
		switch role {
		case featureRoleShell:
			if hasShell {
				log.Printf("⚠️ マップ %d: 2つ目以降の外周 (feature %d) は無視します", floorID, i)
				continue
			}
			plan, err := SplitFloorDetail(f.Geometry)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			floor.OuterShell = plan.OuterShell
			floor.Voids = append(floor.Voids, plan.Voids...)
			hasShell = true
		case featureRoleVoid:
			switch g := f.Geometry.(type) {
			case orb.Polygon:
				floor.Voids = appendVoid(floor.Voids, g)
			case orb.MultiPolygon:
				for _, p := range g {
					floor.Voids = appendVoid(floor.Voids, p)
				}
			default:
				return nil, fmt.Errorf("feature %d: void は Polygon である必要があります", i)
			}
		case featureRoleObstacle:
			kind := f.Properties.MustString("type", "")
			id := int64(f.Properties.MustInt("id", 0))
			obstacle, err := BuildObstacle(kind, id, f.Geometry)
			if err != nil {
				log.Printf("⚠️ マップ %d: feature %d (%s %d) をスキップ: %v", floorID, i, kind, id, err)
				continue
			}
			floor.Obstacles = append(floor.Obstacles, obstacle)
		default:
			return nil, fmt.Errorf("feature %d: 未知の role %q", i, role)
		}
	}

	if !hasShell {
		return nil, floorNotInitialized(floorID)
	}
	return floor, nil
}
