package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/paulmach/orb"

	"PlazaNav-App/internal/domain/helper"
	"PlazaNav-App/internal/domain/model"
	"PlazaNav-App/internal/domain/repository"
	"PlazaNav-App/internal/domain/service"
	repoImpl "PlazaNav-App/internal/repository"
)

type RoutePlanUseCase interface {
	// PlanRoute はフロア上の2点間の歩行経路を求める
	PlanRoute(ctx context.Context, req *model.RouteRequest) (*model.RouteResponse, error)
}

// RouteSettings 経路探索のグリッド設定
type RouteSettings struct {
	Resolution     float64 // メートル/セル
	FacilityRadius float64 // 設備の膨張半径
	MaxGridCells   int     // 0以下なら上限なし
}

// routePlanUseCaseImpl はRoutePlanUseCaseの実装
type routePlanUseCaseImpl struct {
	floorRepo        repository.FloorGeometryRepository
	routePlanService service.RoutePlanService
	settings         RouteSettings
}

// NewRoutePlanUseCase は新しいRoutePlanUseCaseインスタンスを作成
func NewRoutePlanUseCase(
	floorRepo repository.FloorGeometryRepository,
	routePlanService service.RoutePlanService,
	settings RouteSettings,
) RoutePlanUseCase {
	return &routePlanUseCaseImpl{
		floorRepo:        floorRepo,
		routePlanService: routePlanService,
		settings:         settings,
	}
}

// PlanRoute は経路探索の主要処理を行う
func (u *routePlanUseCaseImpl) PlanRoute(ctx context.Context, req *model.RouteRequest) (*model.RouteResponse, error) {
	reqID := RequestIDFromContext(ctx)

	// Step 1: リクエストの検証
	if req == nil || req.MapID == nil {
		return nil, &model.InputError{Field: "map_id", Message: "map_idは必須です"}
	}
	start, err := req.Start.ToPoint("start")
	if err != nil {
		return nil, err
	}
	end, err := req.End.ToPoint("end")
	if err != nil {
		return nil, err
	}
	log.Printf("🚀 経路探索開始 [%s] (MapID: %d, start: %v, end: %v)", reqID, *req.MapID, start, end)

	// Step 2: フロアのスナップショットを取得
	floor, err := u.floorRepo.GetFloorGeometry(ctx, *req.MapID)
	if err != nil {
		return nil, fmt.Errorf("フロアの取得に失敗: %w", err)
	}

	// Step 3: 外周からグリッドを作り、吹き抜けと障害物をマーク
	grid, err := service.NewGridSystem(floor.OuterShell, u.settings.Resolution, u.settings.MaxGridCells)
	if err != nil {
		return nil, fmt.Errorf("グリッドの作成に失敗: %w", err)
	}
	obstacles := u.collectObstacles(floor, reqID)
	grid.MarkObstacles(obstacles)
	log.Printf("🧱 グリッド %dx%d, 障害物ポリゴン %d, ブロックセル %d [%s]", grid.Width, grid.Height, len(obstacles), grid.ObstacleCellCount(), reqID)

	// Step 4: A* 探索
	plan, err := u.routePlanService.FindPath(grid, start, end)
	if err != nil {
		log.Printf("⚠️ 経路が見つかりません [%s]: %v", reqID, err)
		return nil, fmt.Errorf("経路探索に失敗: %w", err)
	}

	log.Printf("✅ 経路探索完了 [%s] (%d点, %.2fm)", reqID, len(plan.Path), plan.Distance)
	return &model.RouteResponse{
		Route:    repoImpl.PathToGeoJSON(plan.Path),
		Distance: model.RoundDistance(plan.Distance),
	}, nil
}

// collectObstacles は吹き抜けと全障害物の衝突形状をまとめる
// 設備は FacilityRadius で膨張させ、形状が不正なものはスキップする
func (u *routePlanUseCaseImpl) collectObstacles(floor *model.FloorGeometry, reqID string) []orb.Polygon {
	radius := u.settings.FacilityRadius
	if radius <= 0 {
		radius = model.DefaultRouteFacilityRadius
	}

	polygons := make([]orb.Polygon, 0, len(floor.Voids)+len(floor.Obstacles))
	polygons = append(polygons, floor.Voids...)
	for _, o := range floor.Obstacles {
		fp, err := helper.Footprint(o.Shape, radius)
		if err != nil {
			log.Printf("⚠️ %s をスキップ [%s]: %v", o.Label(), reqID, err)
			continue
		}
		polygons = append(polygons, fp)
	}
	return polygons
}
