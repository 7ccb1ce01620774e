package service

import (
	"fmt"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"PlazaNav-App/internal/domain/helper"
	"PlazaNav-App/internal/domain/model"
)

// 一括検証のエラーメッセージ（先頭に "[Store 5] " のようなラベルが付く）
const (
	BatchErrorBoundary = "exceeds boundary"
	BatchErrorVoid     = "enters void/atrium"
	BatchErrorFixed    = "overlaps fixed area"
	BatchErrorInvalid  = "invalid geometry: "
)

// indexPadding は境界がちょうど接する形状も検索にかかるよう矩形を広げる幅
const indexPadding = 1e-6

// BatchValidator は同時に編集された複数の形状をまとめて検証する
type BatchValidator interface {
	Validate(floor model.FloorGeometry, updates []model.Obstacle) model.ValidationResult
}

type batchValidator struct {
	facilityRadius float64
}

// NewBatchValidator は新しいBatchValidatorインスタンスを作成
// facilityRadius は設備（点）を膨張させる半径（0以下なら既定値）
func NewBatchValidator(facilityRadius float64) BatchValidator {
	if facilityRadius <= 0 {
		facilityRadius = model.DefaultEditFacilityRadius
	}
	return &batchValidator{facilityRadius: facilityRadius}
}

// footprintEntry はR木に登録する静的障害物
type footprintEntry struct {
	key   model.ObstacleKey
	shape orb.Polygon
	rect  rtreego.Rect
}

// Bounds implements the rtreego.Spatial interface
func (e *footprintEntry) Bounds() rtreego.Rect {
	return e.rect
}

// candidate は正規化済みの編集候補
type candidate struct {
	key   model.ObstacleKey
	shape orb.Polygon
}

// Validate はすべての違反を蓄積して返す（短絡しない）
//  1. 更新集合に含まれる (type, id) の既存障害物は置き換え対象として無視
//  2. 点の候補は facilityRadius で膨張
//  3. 候補ごとに外周・吹き抜け・固定エリアをチェック
//  4. 候補同士のペアをチェック（設備同士は除外、キーが大きい側が報告）
func (v *batchValidator) Validate(floor model.FloorGeometry, updates []model.Obstacle) model.ValidationResult {
	errs := make([]string, 0)

	superseded := make(map[model.ObstacleKey]struct{}, len(updates))
	for _, u := range updates {
		superseded[u.Key()] = struct{}{}
	}

	index := v.buildStaticIndex(floor.Obstacles, superseded)

	// 候補ごとのエラーは入力順にまとめて並べる
	candidates := make([]candidate, 0, len(updates))
	for _, u := range updates {
		shape, err := v.footprint(u)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s %s%s", u.Label(), BatchErrorInvalid, err.Error()))
			continue
		}
		c := candidate{key: u.Key(), shape: shape}
		errs = append(errs, v.checkStatic(c, floor.FloorPlan, index)...)
		candidates = append(candidates, c)
	}

	for _, a := range candidates {
		for _, b := range candidates {
			if a.key == b.key {
				continue
			}
			if a.key.Type == model.ObstacleFacility && b.key.Type == model.ObstacleFacility {
				continue
			}
			// 重複を避けるため、キーが大きい側だけが報告する
			if !b.key.Less(a.key) {
				continue
			}
			if helper.InteriorsIntersect(a.shape, b.shape) {
				errs = append(errs, fmt.Sprintf("%s overlaps %s", a.key.Label(), b.key.Label()))
			}
		}
	}

	return model.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// checkStatic は1つの候補を外周・吹き抜け・静的障害物と照合する
func (v *batchValidator) checkStatic(c candidate, floor model.FloorPlan, index *rtreego.Rtree) []string {
	var errs []string
	label := c.key.Label()

	if !helper.Contains(floor.OuterShell, c.shape) {
		errs = append(errs, label+" "+BatchErrorBoundary)
	}

	for _, void := range floor.Voids {
		if helper.InteriorsIntersect(c.shape, void) {
			errs = append(errs, label+" "+BatchErrorVoid)
			break
		}
	}

	rect, err := paddedRect(c.shape.Bound())
	if err != nil {
		return errs
	}
	for _, hit := range index.SearchIntersect(rect) {
		entry := hit.(*footprintEntry)
		if helper.InteriorsIntersect(c.shape, entry.shape) {
			errs = append(errs, label+" "+BatchErrorFixed)
			break
		}
	}

	return errs
}

// buildStaticIndex は置き換え対象でない既存障害物をR木に登録する
// 形状が不正な既存障害物は衝突判定に使えないため登録しない
func (v *batchValidator) buildStaticIndex(obstacles []model.Obstacle, superseded map[model.ObstacleKey]struct{}) *rtreego.Rtree {
	tree := rtreego.NewTree(2, 4, 16)
	for _, o := range obstacles {
		if _, ok := superseded[o.Key()]; ok {
			continue
		}
		shape, err := v.footprint(o)
		if err != nil {
			continue
		}
		rect, err := paddedRect(shape.Bound())
		if err != nil {
			continue
		}
		tree.Insert(&footprintEntry{key: o.Key(), shape: shape, rect: rect})
	}
	return tree
}

// footprint は種別と形状の組み合わせを確認してから衝突判定用のポリゴンを返す
func (v *batchValidator) footprint(o model.Obstacle) (orb.Polygon, error) {
	_, isPoint := o.Shape.(orb.Point)
	if o.IsFacility() && !isPoint {
		return nil, fmt.Errorf("facility shape must be a point")
	}
	if !o.IsFacility() && isPoint {
		return nil, fmt.Errorf("%s shape must be a polygon", o.Type.WireName())
	}
	return helper.Footprint(o.Shape, v.facilityRadius)
}

// paddedRect は orb.Bound を少し広げた rtreego.Rect に変換する
func paddedRect(b orb.Bound) (rtreego.Rect, error) {
	minX, minY := b.Min[0]-indexPadding, b.Min[1]-indexPadding
	width := b.Max[0] - b.Min[0] + 2*indexPadding
	height := b.Max[1] - b.Min[1] + 2*indexPadding
	return rtreego.NewRect(rtreego.Point{minX, minY}, []float64{width, height})
}
