package service

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PlazaNav-App/internal/domain/model"
)

func testFloor() model.FloorGeometry {
	return model.FloorGeometry{
		FloorID: 1,
		FloorPlan: model.FloorPlan{
			OuterShell: box(0, 0, 20, 20),
			Voids:      []orb.Polygon{box(8, 8, 12, 12)},
		},
		Obstacles: []model.Obstacle{
			{Type: model.ObstacleStore, ID: 1, Shape: box(2, 2, 4, 4)},
			{Type: model.ObstacleStore, ID: 5, Shape: box(14, 2, 16, 4)},
			{Type: model.ObstacleFacility, ID: 3, Shape: orb.Point{18, 18}},
		},
	}
}

func TestBatchValidator_Validate(t *testing.T) {
	validator := NewBatchValidator(model.DefaultEditFacilityRadius)

	tests := []struct {
		name    string
		updates []model.Obstacle
		errors  []string
	}{
		{
			name:    "更新なし",
			updates: nil,
			errors:  []string{},
		},
		{
			name: "同じ座標の設備同士は衝突しない",
			updates: []model.Obstacle{
				{Type: model.ObstacleFacility, ID: 10, Shape: orb.Point{6, 6}},
				{Type: model.ObstacleFacility, ID: 11, Shape: orb.Point{6, 6}},
			},
			errors: []string{},
		},
		{
			name: "重なる店舗同士は1件だけ報告",
			updates: []model.Obstacle{
				{Type: model.ObstacleStore, ID: 7, Shape: box(5, 14, 8, 17)},
				{Type: model.ObstacleStore, ID: 9, Shape: box(6, 15, 9, 18)},
			},
			errors: []string{"[Store 9] overlaps [Store 7]"},
		},
		{
			name: "入力順に関係なくIDが大きい側が報告",
			updates: []model.Obstacle{
				{Type: model.ObstacleStore, ID: 9, Shape: box(6, 15, 9, 18)},
				{Type: model.ObstacleStore, ID: 7, Shape: box(5, 14, 8, 17)},
			},
			errors: []string{"[Store 9] overlaps [Store 7]"},
		},
		{
			name: "店舗と設備は衝突する",
			updates: []model.Obstacle{
				{Type: model.ObstacleFacility, ID: 2, Shape: orb.Point{6, 16}},
				{Type: model.ObstacleStore, ID: 30, Shape: box(5, 14, 8, 17)},
			},
			errors: []string{"[Store 30] overlaps [Facility 2]"},
		},
		{
			name: "置き換え対象の既存形状は無視される",
			updates: []model.Obstacle{
				{Type: model.ObstacleStore, ID: 1, Shape: box(2.5, 2.5, 4.5, 4.5)},
			},
			errors: []string{},
		},
		{
			name: "同じIDでも種別が違えば置き換えにならない",
			updates: []model.Obstacle{
				{Type: model.ObstacleEvent, ID: 1, Shape: box(2.5, 2.5, 4.5, 4.5)},
			},
			errors: []string{"[Event 1] overlaps fixed area"},
		},
		{
			name: "固定エリアに接するだけなら許可",
			updates: []model.Obstacle{
				{Type: model.ObstacleStore, ID: 20, Shape: box(4, 2, 6, 4)},
			},
			errors: []string{},
		},
		{
			name: "吹き抜けに接するだけなら許可",
			updates: []model.Obstacle{
				{Type: model.ObstacleOther, ID: 21, Shape: box(12, 8, 14, 10)},
			},
			errors: []string{},
		},
		{
			name: "固定エリアと重なる",
			updates: []model.Obstacle{
				{Type: model.ObstacleStore, ID: 22, Shape: box(3, 3, 5, 5)},
			},
			errors: []string{"[Store 22] overlaps fixed area"},
		},
		{
			name: "固定された設備と重なる",
			updates: []model.Obstacle{
				{Type: model.ObstacleStore, ID: 23, Shape: box(17, 17, 19, 19)},
			},
			errors: []string{"[Store 23] overlaps fixed area"},
		},
		{
			name: "複数の違反をすべて蓄積する",
			updates: []model.Obstacle{
				{Type: model.ObstacleStore, ID: 24, Shape: box(-1, 7, 9, 9)},
			},
			errors: []string{"[Store 24] exceeds boundary", "[Store 24] enters void/atrium"},
		},
		{
			name: "候補ごとのチェックの後にペアのチェック",
			updates: []model.Obstacle{
				{Type: model.ObstacleStore, ID: 7, Shape: box(5, 14, 8, 17)},
				{Type: model.ObstacleStore, ID: 9, Shape: box(6, 15, 9, 21)},
			},
			errors: []string{"[Store 9] exceeds boundary", "[Store 9] overlaps [Store 7]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.Validate(testFloor(), tt.updates)
			assert.Equal(t, len(tt.errors) == 0, result.Valid)
			assert.Equal(t, tt.errors, result.Errors)
		})
	}
}

func TestBatchValidator_InvalidGeometry(t *testing.T) {
	validator := NewBatchValidator(0)

	bowtie := orb.Polygon{{{14, 14}, {16, 16}, {16, 14}, {14, 16}, {14, 14}}}
	result := validator.Validate(testFloor(), []model.Obstacle{
		{Type: model.ObstacleStore, ID: 40, Shape: bowtie},
		{Type: model.ObstacleStore, ID: 41, Shape: box(14, 14, 16, 16)},
	})

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1, "不正な候補は他のチェックをスキップする")
	assert.True(t, strings.HasPrefix(result.Errors[0], "[Store 40] invalid geometry: "), result.Errors[0])
}

func TestBatchValidator_FacilityRadius(t *testing.T) {
	// 店舗の辺から0.4m離れた設備
	updates := []model.Obstacle{{Type: model.ObstacleFacility, ID: 12, Shape: orb.Point{4.4, 3}}}

	small := NewBatchValidator(0.3).Validate(testFloor(), updates)
	assert.True(t, small.Valid)

	large := NewBatchValidator(0.5).Validate(testFloor(), updates)
	assert.False(t, large.Valid)
	assert.Equal(t, []string{"[Facility 12] overlaps fixed area"}, large.Errors)
}

func TestBatchValidator_ShapeKindMismatch(t *testing.T) {
	validator := NewBatchValidator(0)

	result := validator.Validate(testFloor(), []model.Obstacle{
		{Type: model.ObstacleStore, ID: 50, Shape: orb.Point{6, 6}},
		{Type: model.ObstacleFacility, ID: 51, Shape: box(5, 5, 6, 6)},
	})

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "[Store 50] invalid geometry: store shape must be a polygon", result.Errors[0])
	assert.Equal(t, "[Facility 51] invalid geometry: facility shape must be a point", result.Errors[1])
}

func TestBatchValidator_ErrorsGroupedByCandidate(t *testing.T) {
	validator := NewBatchValidator(0)

	bowtie := orb.Polygon{{{14, 14}, {16, 16}, {16, 14}, {14, 16}, {14, 14}}}
	result := validator.Validate(testFloor(), []model.Obstacle{
		{Type: model.ObstacleStore, ID: 60, Shape: box(-1, 14, 2, 16)},
		{Type: model.ObstacleStore, ID: 61, Shape: bowtie},
		{Type: model.ObstacleEvent, ID: 62, Shape: box(3, 3, 5, 5)},
	})

	require.Len(t, result.Errors, 3)
	assert.Equal(t, "[Store 60] exceeds boundary", result.Errors[0])
	assert.True(t, strings.HasPrefix(result.Errors[1], "[Store 61] invalid geometry: "), result.Errors[1])
	assert.Equal(t, "[Event 62] overlaps fixed area", result.Errors[2])
}

func TestBatchValidator_ProjectedCoordinates(t *testing.T) {
	origin := orb.Point{39504310, 3807720}
	at := func(x, y float64) orb.Point { return orb.Point{origin[0] + x, origin[1] + y} }

	floor := model.FloorGeometry{
		FloorID: 1,
		FloorPlan: model.FloorPlan{
			OuterShell: orb.Polygon{{at(0, 0), at(37.3, 11.9), at(30, 40), at(-5, 30), at(0, 0)}},
		},
		Obstacles: []model.Obstacle{
			{Type: model.ObstacleStore, ID: 1, Shape: orb.Polygon{{at(10.1, 12.7), at(17.9, 15.3), at(16.2, 20.8), at(9.4, 18.1), at(10.1, 12.7)}}},
		},
	}
	validator := NewBatchValidator(0)

	// 外周の斜めの辺を内側から共有し、既存店舗の斜めの辺に接する2店舗
	result := validator.Validate(floor, []model.Obstacle{
		{Type: model.ObstacleStore, ID: 2, Shape: orb.Polygon{{at(0, 0), at(37.3, 11.9), at(20, 13), at(0, 0)}}},
		{Type: model.ObstacleStore, ID: 3, Shape: orb.Polygon{{at(10.1, 12.7), at(13.5, 9.9), at(17.9, 15.3), at(10.1, 12.7)}}},
	})
	assert.True(t, result.Valid, result.Errors)
	assert.Empty(t, result.Errors)

	overlap := validator.Validate(floor, []model.Obstacle{
		{Type: model.ObstacleStore, ID: 4, Shape: orb.Polygon{{at(12, 14), at(20, 14), at(20, 22), at(12, 22), at(12, 14)}}},
	})
	assert.Equal(t, []string{"[Store 4] overlaps fixed area"}, overlap.Errors)
}
