package service

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"PlazaNav-App/internal/domain/helper"
	"PlazaNav-App/internal/domain/model"
)

// GridSystem は外周ポリゴンと障害物を離散化した占有グリッド
//
// 障害物はセル中心点のサンプリングで判定する近似である。
// 1セルより細い障害物は見落とされることがあり、逆に中心から離れた角をかすめるだけの
// 障害物ではセルはブロックされない。この近似はルーティング結果を決めるので意図的に維持する。
type GridSystem struct {
	Resolution float64 // メートル/セル
	MinX       float64
	MinY       float64
	MaxX       float64
	MaxY       float64
	Width      int
	Height     int

	boundary      orb.Polygon
	obstacleCells map[model.GridCell]struct{}
	shellCache    []int8 // 0: 未計算, 1: 外周内, 2: 外周外
}

// NewGridSystem は外周ポリゴンと解像度からグリッドを作成する
// maxCells が正の場合、Width×Height がそれを超えると ResourceLimitError を返す
func NewGridSystem(boundary orb.Polygon, resolution float64, maxCells int) (*GridSystem, error) {
	if math.IsNaN(resolution) || math.IsInf(resolution, 0) || resolution <= 0 {
		return nil, &model.InputError{Field: "resolution", Message: fmt.Sprintf("解像度は正の数である必要があります: %v", resolution)}
	}
	if err := helper.ValidatePolygon(boundary); err != nil {
		return nil, &model.InputError{Field: "outer_shell", Message: err.Error()}
	}

	bound := helper.ExteriorRing(boundary).Bound()
	w := math.Ceil((bound.Max[0] - bound.Min[0]) / resolution)
	h := math.Ceil((bound.Max[1] - bound.Min[1]) / resolution)
	if maxCells > 0 && w*h > float64(maxCells) {
		return nil, &model.ResourceLimitError{Cells: int64(w * h), Limit: maxCells}
	}
	if w*h > math.MaxInt32 {
		return nil, &model.ResourceLimitError{Cells: int64(w * h), Limit: math.MaxInt32}
	}

	width, height := int(w), int(h)
	return &GridSystem{
		Resolution:    resolution,
		MinX:          bound.Min[0],
		MinY:          bound.Min[1],
		MaxX:          bound.Max[0],
		MaxY:          bound.Max[1],
		Width:         width,
		Height:        height,
		boundary:      boundary,
		obstacleCells: make(map[model.GridCell]struct{}),
		shellCache:    make([]int8, width*height),
	}, nil
}

// WorldToGrid はワールド座標をセルインデックスに変換する（床関数）
func (g *GridSystem) WorldToGrid(x, y float64) (int, int) {
	gx := int(math.Floor((x - g.MinX) / g.Resolution))
	gy := int(math.Floor((y - g.MinY) / g.Resolution))
	return gx, gy
}

// GridToWorld はセルの中心のワールド座標を返す
func (g *GridSystem) GridToWorld(gx, gy int) (float64, float64) {
	x := g.MinX + (float64(gx)+0.5)*g.Resolution
	y := g.MinY + (float64(gy)+0.5)*g.Resolution
	return x, y
}

// CellCenter はセル中心を orb.Point で返す
func (g *GridSystem) CellCenter(c model.GridCell) orb.Point {
	x, y := g.GridToWorld(c.X, c.Y)
	return orb.Point{x, y}
}

// InBounds はインデックスがグリッド範囲内か
func (g *GridSystem) InBounds(gx, gy int) bool {
	return gx >= 0 && gx < g.Width && gy >= 0 && gy < g.Height
}

// MarkObstacles は各ポリゴンのバウンディングボックス内のセルについて、
// セル中心がポリゴンに含まれる（境界上を含む）場合に障害物としてマークする
func (g *GridSystem) MarkObstacles(polygons []orb.Polygon) {
	for _, poly := range polygons {
		ring := helper.ExteriorRing(poly)
		if len(ring) < 4 {
			continue
		}
		b := ring.Bound()
		if b.Max[0] < g.MinX || b.Min[0] > g.MaxX || b.Max[1] < g.MinY || b.Min[1] > g.MaxY {
			continue
		}

		minGX, minGY := g.WorldToGrid(b.Min[0], b.Min[1])
		maxGX, maxGY := g.WorldToGrid(b.Max[0], b.Max[1])
		minGX, maxGX = clampIndex(minGX, g.Width), clampIndex(maxGX, g.Width)
		minGY, maxGY = clampIndex(minGY, g.Height), clampIndex(maxGY, g.Height)

		for gy := minGY; gy <= maxGY; gy++ {
			for gx := minGX; gx <= maxGX; gx++ {
				cell := model.GridCell{X: gx, Y: gy}
				if helper.PointCovered(g.CellCenter(cell), poly) {
					g.obstacleCells[cell] = struct{}{}
				}
			}
		}
	}
}

// IsObstacle はセルが障害物としてマークされているか
func (g *GridSystem) IsObstacle(gx, gy int) bool {
	_, blocked := g.obstacleCells[model.GridCell{X: gx, Y: gy}]
	return blocked
}

// ObstacleCellCount はマーク済みの障害物セル数
func (g *GridSystem) ObstacleCellCount() int {
	return len(g.obstacleCells)
}

// IsWalkable はセルが歩行可能か判定する
// 範囲外、障害物セル、中心が外周の内部にないセルはすべて歩行不可
func (g *GridSystem) IsWalkable(gx, gy int) bool {
	if !g.InBounds(gx, gy) {
		return false
	}
	if g.IsObstacle(gx, gy) {
		return false
	}
	return g.insideShell(gx, gy)
}

func (g *GridSystem) insideShell(gx, gy int) bool {
	idx := g.index(gx, gy)
	switch g.shellCache[idx] {
	case 1:
		return true
	case 2:
		return false
	}
	inside := helper.PointInside(g.CellCenter(model.GridCell{X: gx, Y: gy}), g.boundary)
	if inside {
		g.shellCache[idx] = 1
	} else {
		g.shellCache[idx] = 2
	}
	return inside
}

func (g *GridSystem) index(gx, gy int) int {
	return gy*g.Width + gx
}

func clampIndex(i, size int) int {
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
