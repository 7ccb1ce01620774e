package service

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PlazaNav-App/internal/domain/helper"
	"PlazaNav-App/internal/domain/model"
)

func newTestGrid(t *testing.T, boundary orb.Polygon, resolution float64, obstacles ...orb.Polygon) *GridSystem {
	t.Helper()
	grid, err := NewGridSystem(boundary, resolution, 0)
	require.NoError(t, err)
	grid.MarkObstacles(obstacles)
	return grid
}

// assertValidPath は経路の不変条件（隣接セル、歩行可能、端点）を検証する
func assertValidPath(t *testing.T, grid *GridSystem, plan *model.RoutePlan) {
	t.Helper()
	require.NotEmpty(t, plan.Path)
	require.Len(t, plan.Cells, len(plan.Path))

	for i, c := range plan.Cells {
		assert.True(t, grid.IsWalkable(c.X, c.Y), "cell %v is not walkable", c)
		if i == 0 {
			continue
		}
		prev := plan.Cells[i-1]
		assert.LessOrEqual(t, math.Abs(float64(c.X-prev.X)), 1.0)
		assert.LessOrEqual(t, math.Abs(float64(c.Y-prev.Y)), 1.0)
		assert.NotEqual(t, prev, c)

		gap := math.Hypot(plan.Path[i][0]-plan.Path[i-1][0], plan.Path[i][1]-plan.Path[i-1][1])
		assert.LessOrEqual(t, gap, grid.Resolution*math.Sqrt2+1e-9)
	}
}

func TestRoutePlanService_OpenFloor(t *testing.T) {
	grid := newTestGrid(t, box(0, 0, 20, 20), 0.5)
	svc := NewRoutePlanService()

	plan, err := svc.FindPath(grid, orb.Point{2, 2}, orb.Point{18, 18})
	require.NoError(t, err)
	assertValidPath(t, grid, plan)

	assert.Equal(t, model.GridCell{X: 4, Y: 4}, plan.Cells[0])
	assert.Equal(t, model.GridCell{X: 36, Y: 36}, plan.Cells[len(plan.Cells)-1])
	assert.Equal(t, orb.Point{2.25, 2.25}, plan.Path[0])
	assert.Equal(t, orb.Point{18.25, 18.25}, plan.Path[len(plan.Path)-1])

	// 32回の斜め移動
	assert.InDelta(t, 32*0.5*math.Sqrt2, plan.Distance, 1e-6)
	assert.InDelta(t, 22.6, plan.Distance, 1.0)
	assert.Equal(t, 22.63, model.RoundDistance(plan.Distance))
}

func TestRoutePlanService_OctileBound(t *testing.T) {
	grid := newTestGrid(t, box(0, 0, 20, 20), 0.5)
	svc := NewRoutePlanService()

	tests := []struct {
		name       string
		start, end orb.Point
	}{
		{"水平", orb.Point{1, 10}, orb.Point{19, 10}},
		{"垂直", orb.Point{10, 1}, orb.Point{10, 19}},
		{"斜めと直進の混在", orb.Point{1, 1}, orb.Point{19, 7}},
		{"逆方向", orb.Point{17.3, 12.1}, orb.Point{3.9, 2.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := svc.FindPath(grid, tt.start, tt.end)
			require.NoError(t, err)
			assertValidPath(t, grid, plan)

			first, last := plan.Cells[0], plan.Cells[len(plan.Cells)-1]
			expected := octileDistance(first, last) * grid.Resolution
			assert.InDelta(t, expected, plan.Distance, 1e-6)

			straight := math.Hypot(plan.Path[len(plan.Path)-1][0]-plan.Path[0][0], plan.Path[len(plan.Path)-1][1]-plan.Path[0][1])
			assert.GreaterOrEqual(t, plan.Distance+1e-9, straight)
		})
	}
}

func TestRoutePlanService_WallWithGap(t *testing.T) {
	// x=5..20 の壁、x<5 に通路
	wall := box(5, 9, 20, 11)
	grid := newTestGrid(t, box(0, 0, 20, 20), 0.5, wall)
	svc := NewRoutePlanService()

	plan, err := svc.FindPath(grid, orb.Point{10, 2}, orb.Point{10, 18})
	require.NoError(t, err)
	assertValidPath(t, grid, plan)

	minX := math.Inf(1)
	for _, p := range plan.Path {
		minX = math.Min(minX, p[0])
		assert.False(t, helper.PointInside(p, wall), "path point %v is inside the wall", p)
	}
	assert.Less(t, minX, 6.0, "壁の端を回り込む")

	// 直線距離 16m より長い
	assert.Greater(t, plan.Distance, 16.0)
}

func TestRoutePlanService_Preconditions(t *testing.T) {
	grid := newTestGrid(t, box(0, 0, 20, 20), 0.5, box(9, 9, 11, 11))
	svc := NewRoutePlanService()

	t.Run("終点が障害物に囲まれている", func(t *testing.T) {
		_, err := svc.FindPath(grid, orb.Point{2, 2}, orb.Point{10, 10})
		var pre *model.PreconditionError
		require.True(t, errors.As(err, &pre))
		assert.Equal(t, model.EndpointEnd, pre.Endpoint)
		assert.Equal(t, "End node is not walkable", err.Error())
	})

	t.Run("始点が障害物の中", func(t *testing.T) {
		_, err := svc.FindPath(grid, orb.Point{10, 10}, orb.Point{2, 2})
		var pre *model.PreconditionError
		require.True(t, errors.As(err, &pre))
		assert.Equal(t, model.EndpointStart, pre.Endpoint)
	})

	t.Run("始点が外周の外", func(t *testing.T) {
		_, err := svc.FindPath(grid, orb.Point{-3, 2}, orb.Point{2, 2})
		var pre *model.PreconditionError
		require.True(t, errors.As(err, &pre))
		assert.Equal(t, model.EndpointStart, pre.Endpoint)
	})
}

func TestRoutePlanService_Unreachable(t *testing.T) {
	grid := newTestGrid(t, box(0, 0, 20, 20), 0.5, box(0, 9, 20, 11))
	svc := NewRoutePlanService()

	_, err := svc.FindPath(grid, orb.Point{10, 2}, orb.Point{10, 18})
	var unreachable *model.UnreachableError
	assert.True(t, errors.As(err, &unreachable))

	var pre *model.PreconditionError
	assert.False(t, errors.As(err, &pre), "到達不能と端点エラーは区別される")
}

func TestRoutePlanService_SameCell(t *testing.T) {
	grid := newTestGrid(t, box(0, 0, 20, 20), 0.5)
	svc := NewRoutePlanService()

	plan, err := svc.FindPath(grid, orb.Point{5, 5}, orb.Point{5.1, 5.2})
	require.NoError(t, err)
	assert.Len(t, plan.Path, 1)
	assert.Equal(t, 0.0, plan.Distance)
}

func TestRoutePlanService_LShapedFloor(t *testing.T) {
	grid := newTestGrid(t, lShape(), 0.5)
	svc := NewRoutePlanService()

	plan, err := svc.FindPath(grid, orb.Point{9, 1}, orb.Point{1, 9})
	require.NoError(t, err)
	assertValidPath(t, grid, plan)

	for _, p := range plan.Path {
		assert.True(t, helper.PointInside(p, lShape()), "path point %v leaves the floor", p)
	}
	// 欠けた角を横切る直線 (約11.3m) より長い
	assert.Greater(t, plan.Distance, 11.4)
}

func TestRoutePlanService_DiagonalPinch(t *testing.T) {
	// 斜めに接する2つの障害物セルの間を斜め移動で通り抜けられる
	grid := newTestGrid(t, box(0, 0, 3, 3), 1.0, box(1, 0, 2, 1), box(0, 1, 1, 2), box(1, 2, 3, 3), box(2, 1, 3, 2))
	svc := NewRoutePlanService()

	plan, err := svc.FindPath(grid, orb.Point{0.5, 0.5}, orb.Point{1.5, 1.5})
	require.NoError(t, err)
	assert.Equal(t, []model.GridCell{{X: 0, Y: 0}, {X: 1, Y: 1}}, plan.Cells)
	assert.InDelta(t, math.Sqrt2, plan.Distance, 1e-9)
}
