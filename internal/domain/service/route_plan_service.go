package service

import (
	"container/heap"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"PlazaNav-App/internal/domain/model"
)

// RoutePlanService は占有グリッド上の最短歩行経路を求めるドメインサービス
type RoutePlanService interface {
	FindPath(grid *GridSystem, start, end orb.Point) (*model.RoutePlan, error)
}

type routePlanService struct{}

// NewRoutePlanService は新しいRoutePlanServiceインスタンスを作成
func NewRoutePlanService() RoutePlanService {
	return &routePlanService{}
}

// neighborMove 8近傍への移動と移動コスト
type neighborMove struct {
	dx, dy int
	cost   float64
}

// 斜め移動は両側の直交セルが歩行可能かを確認しない（1セル幅の斜めの隙間を通り抜けられる）
var neighborMoves = []neighborMove{
	{1, 0, 1}, {-1, 0, 1}, {0, 1, 1}, {0, -1, 1},
	{1, 1, math.Sqrt2}, {1, -1, math.Sqrt2}, {-1, 1, math.Sqrt2}, {-1, -1, math.Sqrt2},
}

// octileDistance は8近傍移動モデルでの許容的かつ一貫したヒューリスティック
func octileDistance(a, b model.GridCell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
}

// openNode はオープンリストの要素
type openNode struct {
	index int
	f     float64
	seq   uint64 // 同じ f の場合は先入れ先出し
}

// openQueue は f 値で並ぶ優先度付きキュー
type openQueue []openNode

func (q openQueue) Len() int { return len(q) }
func (q openQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}
func (q openQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *openQueue) Push(x interface{}) {
	*q = append(*q, x.(openNode))
}

func (q *openQueue) Pop() interface{} {
	old := *q
	n := len(old)
	node := old[n-1]
	*q = old[:n-1]
	return node
}

// FindPath は start から end までの経路を A* で探索する
// 端点が歩行不可なら探索前に PreconditionError、探索が尽きたら UnreachableError を返す
func (s *routePlanService) FindPath(grid *GridSystem, start, end orb.Point) (*model.RoutePlan, error) {
	sx, sy := grid.WorldToGrid(start[0], start[1])
	if !grid.IsWalkable(sx, sy) {
		return nil, &model.PreconditionError{Endpoint: model.EndpointStart}
	}
	ex, ey := grid.WorldToGrid(end[0], end[1])
	if !grid.IsWalkable(ex, ey) {
		return nil, &model.PreconditionError{Endpoint: model.EndpointEnd}
	}

	goal := model.GridCell{X: ex, Y: ey}
	startIdx := grid.index(sx, sy)
	goalIdx := grid.index(ex, ey)

	size := grid.Width * grid.Height
	gScore := make([]float64, size)
	cameFrom := make([]int, size)
	closed := make([]bool, size)
	for i := range gScore {
		gScore[i] = math.Inf(1)
		cameFrom[i] = -1
	}
	gScore[startIdx] = 0

	open := &openQueue{}
	var seq uint64
	heap.Push(open, openNode{index: startIdx, f: octileDistance(model.GridCell{X: sx, Y: sy}, goal), seq: seq})

	for open.Len() > 0 {
		current := heap.Pop(open).(openNode)
		if closed[current.index] {
			continue
		}
		if current.index == goalIdx {
			return s.buildPlan(grid, cameFrom, goalIdx), nil
		}
		closed[current.index] = true

		cell := model.GridCell{X: current.index % grid.Width, Y: current.index / grid.Width}
		for _, move := range neighborMoves {
			next := cell.Offset(move.dx, move.dy)
			if !grid.IsWalkable(next.X, next.Y) {
				continue
			}
			ni := grid.index(next.X, next.Y)
			if closed[ni] {
				continue
			}
			tentative := gScore[current.index] + move.cost
			if tentative >= gScore[ni] {
				continue
			}
			gScore[ni] = tentative
			cameFrom[ni] = current.index
			seq++
			heap.Push(open, openNode{
				index: ni,
				f:     tentative + octileDistance(next, goal),
				seq:   seq,
			})
		}
	}

	return nil, &model.UnreachableError{}
}

// buildPlan は先行リンクをたどって経路を復元し、ワールド座標に変換する
// 距離は内部の g コストではなく折れ線のユークリッド長を再計算する
func (s *routePlanService) buildPlan(grid *GridSystem, cameFrom []int, goalIdx int) *model.RoutePlan {
	var cells []model.GridCell
	for idx := goalIdx; idx != -1; idx = cameFrom[idx] {
		cells = append(cells, model.GridCell{X: idx % grid.Width, Y: idx / grid.Width})
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}

	path := make(orb.LineString, len(cells))
	for i, c := range cells {
		path[i] = grid.CellCenter(c)
	}

	return &model.RoutePlan{
		Cells:    cells,
		Path:     path,
		Distance: planar.Length(path),
	}
}
