package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"PlazaNav-App/internal/domain/helper"
	"PlazaNav-App/internal/domain/model"
	"PlazaNav-App/internal/domain/repository"
	"PlazaNav-App/internal/domain/service"
	repoImpl "PlazaNav-App/internal/repository"
)

type LayoutValidationUseCase interface {
	// ValidateLayout は同時に編集された複数エリアをまとめて検証する
	ValidateLayout(ctx context.Context, req *model.BatchValidationRequest) (*model.ValidationResult, error)

	// CheckPlacement は1つの形状が配置可能かを判定する
	CheckPlacement(ctx context.Context, req *model.PlacementRequest) (*model.PlacementResult, error)
}

// layoutValidationUseCaseImpl はLayoutValidationUseCaseの実装
type layoutValidationUseCaseImpl struct {
	floorRepo          repository.FloorGeometryRepository
	batchValidator     service.BatchValidator
	placementValidator service.PlacementValidator
	facilityRadius     float64
}

// NewLayoutValidationUseCase は新しいLayoutValidationUseCaseインスタンスを作成
// facilityRadius は編集時に設備（点）を膨張させる半径
func NewLayoutValidationUseCase(
	floorRepo repository.FloorGeometryRepository,
	batchValidator service.BatchValidator,
	placementValidator service.PlacementValidator,
	facilityRadius float64,
) LayoutValidationUseCase {
	if facilityRadius <= 0 {
		facilityRadius = model.DefaultEditFacilityRadius
	}
	return &layoutValidationUseCaseImpl{
		floorRepo:          floorRepo,
		batchValidator:     batchValidator,
		placementValidator: placementValidator,
		facilityRadius:     facilityRadius,
	}
}

// ValidateLayout は一括検証の主要処理を行う
func (u *layoutValidationUseCaseImpl) ValidateLayout(ctx context.Context, req *model.BatchValidationRequest) (*model.ValidationResult, error) {
	reqID := RequestIDFromContext(ctx)

	if req == nil || req.MapID == nil {
		return nil, &model.InputError{Field: "map_id", Message: "map_idは必須です"}
	}

	updates := make([]model.Obstacle, 0, len(req.Updates))
	for i, item := range req.Updates {
		obstacle, err := toCandidate(item.Type, item.ID, item.Geometry)
		if err != nil {
			return nil, &model.InputError{Field: fmt.Sprintf("updates[%d]", i), Message: err.Error()}
		}
		updates = append(updates, obstacle)
	}
	log.Printf("🔍 一括検証開始 [%s] (MapID: %d, 更新数: %d)", reqID, *req.MapID, len(updates))

	floor, err := u.floorRepo.GetFloorGeometry(ctx, *req.MapID)
	if err != nil {
		return nil, fmt.Errorf("フロアの取得に失敗: %w", err)
	}

	result := u.batchValidator.Validate(*floor, updates)
	if result.Valid {
		log.Printf("✅ 一括検証OK [%s]", reqID)
	} else {
		log.Printf("⚠️ 一括検証NG [%s]: %d件の違反", reqID, len(result.Errors))
	}
	return &result, nil
}

// CheckPlacement は単一形状チェックの主要処理を行う
// ID が指定されていれば編集中のエンティティ自身は既存障害物から除外する
func (u *layoutValidationUseCaseImpl) CheckPlacement(ctx context.Context, req *model.PlacementRequest) (*model.PlacementResult, error) {
	reqID := RequestIDFromContext(ctx)

	if req == nil || req.MapID == nil {
		return nil, &model.InputError{Field: "map_id", Message: "map_idは必須です"}
	}
	var id int64
	if req.ID != nil {
		id = *req.ID
	}
	obstacle, err := toCandidate(req.Type, id, req.Geometry)
	if err != nil {
		return nil, &model.InputError{Field: "geometry", Message: err.Error()}
	}

	floor, err := u.floorRepo.GetFloorGeometry(ctx, *req.MapID)
	if err != nil {
		return nil, fmt.Errorf("フロアの取得に失敗: %w", err)
	}

	candidate, reason := u.candidatePolygon(obstacle)
	if reason != "" {
		return &model.PlacementResult{Valid: false, Reason: service.PlacementReasonInvalid + reason}, nil
	}

	existing := make([]orb.Polygon, 0, len(floor.Obstacles))
	for _, o := range floor.Obstacles {
		if req.ID != nil && o.Key() == obstacle.Key() {
			continue
		}
		fp, err := helper.Footprint(o.Shape, u.facilityRadius)
		if err != nil {
			log.Printf("⚠️ %s をスキップ [%s]: %v", o.Label(), reqID, err)
			continue
		}
		existing = append(existing, fp)
	}

	result := u.placementValidator.Validate(candidate, floor.FloorPlan, existing)
	log.Printf("📐 配置チェック [%s] (MapID: %d, %s): %s", reqID, *req.MapID, obstacle.Label(), result.Reason)
	return &result, nil
}

// candidatePolygon は候補を配置チェック用のポリゴンにする
// 点は膨張させ、ポリゴンの構文チェックはバリデーターに任せる
func (u *layoutValidationUseCaseImpl) candidatePolygon(o model.Obstacle) (orb.Polygon, string) {
	switch g := o.Shape.(type) {
	case orb.Point:
		if !o.IsFacility() {
			return nil, fmt.Sprintf("%s shape must be a polygon", o.Type.WireName())
		}
		return helper.BufferPoint(g, u.facilityRadius, helper.DefaultBufferSegments), ""
	case orb.Polygon:
		if o.IsFacility() {
			return nil, "facility shape must be a point"
		}
		return g, ""
	default:
		return nil, fmt.Sprintf("unsupported geometry type %s", o.Shape.GeoJSONType())
	}
}

// toCandidate はリクエストの種別・ID・GeoJSON を障害物に変換する
// 種別に合わない形状はそのまま残し、検証結果の "invalid geometry" として報告させる
func toCandidate(t model.ObstacleType, id int64, g *geojson.Geometry) (model.Obstacle, error) {
	if t == 0 {
		return model.Obstacle{}, fmt.Errorf("typeは必須です")
	}
	if g == nil {
		return model.Obstacle{}, fmt.Errorf("geometryは必須です")
	}
	raw := g.Geometry()
	if raw == nil {
		return model.Obstacle{}, fmt.Errorf("geometryは必須です")
	}
	shape, err := repoImpl.NormalizeObstacleShape(t, raw)
	if err != nil {
		shape = raw
	}
	return model.Obstacle{Type: t, ID: id, Shape: shape}, nil
}
