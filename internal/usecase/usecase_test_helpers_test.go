package usecase

import (
	"context"
	"strconv"

	"github.com/paulmach/orb"

	"PlazaNav-App/internal/domain/model"
)

// stubFloorRepository はメモリ上のフロアを返すテスト用リポジトリ
type stubFloorRepository struct {
	floors map[int64]*model.FloorGeometry
	err    error
	calls  int
}

func (r *stubFloorRepository) GetFloorGeometry(ctx context.Context, floorID int64) (*model.FloorGeometry, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	floor, ok := r.floors[floorID]
	if !ok {
		return nil, &model.NotFoundError{Resource: "Map", ID: strconv.FormatInt(floorID, 10)}
	}
	return floor, nil
}

func box(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}}
}

func float64Ptr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64       { return &v }

func coord(x, y float64) *model.Coordinate {
	return &model.Coordinate{X: float64Ptr(x), Y: float64Ptr(y)}
}

// newStubRepository は 20x20 の外周、中央の吹き抜け、店舗1つと設備1つを持つフロア1を返す
func newStubRepository() *stubFloorRepository {
	return &stubFloorRepository{
		floors: map[int64]*model.FloorGeometry{
			1: {
				FloorID: 1,
				FloorPlan: model.FloorPlan{
					OuterShell: box(0, 0, 20, 20),
					Voids:      []orb.Polygon{box(8, 8, 12, 12)},
				},
				Obstacles: []model.Obstacle{
					{Type: model.ObstacleStore, ID: 1, Shape: box(2, 2, 4, 4)},
					{Type: model.ObstacleFacility, ID: 3, Shape: orb.Point{18, 18}},
				},
			},
		},
	}
}
