package helper

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/peterstace/simplefeatures/geom"
)

// AreaTolerance 重なりとみなす最小面積（平方メートル、1mm²）
// 大きな投影座標の丸め誤差で生じる細長い隙間や重なりはこれ以下に収まる
const AreaTolerance = 1e-6

// 点の境界判定に使う許容誤差（絶対値と座標の大きさに対する相対値）
const (
	minBoundaryTolerance      = 1e-9
	relativeBoundaryTolerance = 1e-12
)

// ExteriorRing はポリゴンの外側リングを閉じた状態で返す（連続する重複点は除去）
func ExteriorRing(p orb.Polygon) orb.Ring {
	if len(p) == 0 {
		return nil
	}
	return normalizeRing(p[0])
}

func normalizeRing(r orb.Ring) orb.Ring {
	if len(r) == 0 {
		return nil
	}
	out := make(orb.Ring, 0, len(r)+1)
	for _, pt := range r {
		if len(out) > 0 && out[len(out)-1] == pt {
			continue
		}
		out = append(out, pt)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil
	}
	return append(out, out[0])
}

// toLocal は外側リングを origin 基準に平行移動して simplefeatures のポリゴンに変換する
// EPSG:2385 のような桁の大きい座標でも差分は正確に計算できるため、判定は局所座標で行う
func toLocal(p orb.Polygon, origin orb.Point) geom.Polygon {
	r := ExteriorRing(p)
	coords := make([]float64, 0, 2*len(r))
	for _, pt := range r {
		coords = append(coords, pt[0]-origin[0], pt[1]-origin[1])
	}
	ring := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	return geom.NewPolygon([]geom.LineString{ring})
}

// localPair は2つのポリゴンを共通の原点で変換する
func localPair(a, b orb.Polygon) (geom.Geometry, geom.Geometry) {
	origin := ExteriorRing(a).Bound().Union(ExteriorRing(b).Bound()).Min
	return toLocal(a, origin).AsGeometry(), toLocal(b, origin).AsGeometry()
}

func usable(p orb.Polygon) bool {
	return len(ExteriorRing(p)) >= 4
}

// ValidatePolygon はポリゴンが単純な閉リングで面積を持つか検証する
func ValidatePolygon(p orb.Polygon) error {
	if len(p) == 0 {
		return errors.New("shape is empty")
	}
	if len(p) > 1 {
		return errors.New("interior rings are not supported, model voids as separate polygons")
	}
	for _, pt := range p[0] {
		if math.IsNaN(pt[0]) || math.IsNaN(pt[1]) || math.IsInf(pt[0], 0) || math.IsInf(pt[1], 0) {
			return errors.New("coordinates must be finite")
		}
	}
	r := normalizeRing(p[0])
	if len(r) < 4 {
		return errors.New("ring needs at least 3 distinct vertices")
	}
	local := toLocal(p, r.Bound().Min)
	if err := local.Validate(); err != nil {
		return fmt.Errorf("ring is not simple: %w", err)
	}
	if local.Area() == 0 {
		return errors.New("ring has zero area")
	}
	return nil
}

// locatePoint は点のリングに対する位置を返す（-1: 外部, 0: 境界, 1: 内部）
// 境界との距離の許容誤差は座標の大きさに比例させる
func locatePoint(p orb.Point, r orb.Ring) int {
	tol := math.Max(minBoundaryTolerance, relativeBoundaryTolerance*math.Max(math.Abs(p[0]), math.Abs(p[1])))
	for i := 0; i+1 < len(r); i++ {
		if planar.DistanceFromSegment(r[i], r[i+1], p) <= tol {
			return 0
		}
	}
	if planar.RingContains(r, p) {
		return 1
	}
	return -1
}

// PointInside は点がポリゴン内部にあるか（境界上は含まない）
func PointInside(p orb.Point, poly orb.Polygon) bool {
	r := ExteriorRing(poly)
	if len(r) < 4 {
		return false
	}
	return locatePoint(p, r) == 1
}

// PointCovered は点がポリゴン内部または境界上にあるか
func PointCovered(p orb.Point, poly orb.Polygon) bool {
	r := ExteriorRing(poly)
	if len(r) < 4 {
		return false
	}
	return locatePoint(p, r) >= 0
}

// Intersects は2ポリゴンが1点でも共有するか（境界の接触を含む）
func Intersects(a, b orb.Polygon) bool {
	if !usable(a) || !usable(b) {
		return false
	}
	if !ExteriorRing(a).Bound().Intersects(ExteriorRing(b).Bound()) {
		return false
	}
	ga, gb := localPair(a, b)
	return geom.Intersects(ga, gb)
}

// InteriorsIntersect は2ポリゴンの内部同士が重なるか（intersects かつ touches でない）
// 共通部分の面積が AreaTolerance 以下なら境界の接触とみなす
func InteriorsIntersect(a, b orb.Polygon) bool {
	if !Intersects(a, b) {
		return false
	}
	ga, gb := localPair(a, b)
	overlap, err := geom.Intersection(ga, gb)
	if err != nil {
		touches, terr := geom.Touches(ga, gb)
		return terr != nil || !touches
	}
	return overlap.Area() > AreaTolerance
}

// Touches は2ポリゴンが境界でのみ接しているか
func Touches(a, b orb.Polygon) bool {
	return Intersects(a, b) && !InteriorsIntersect(a, b)
}

// Contains は outer が inner を完全に含むか（inner のどの点も outer の外部にない）
// はみ出した部分の面積が AreaTolerance 以下なら含まれるとみなす
func Contains(outer, inner orb.Polygon) bool {
	if !usable(outer) || !usable(inner) {
		return false
	}
	gOuter, gInner := localPair(outer, inner)
	outside, err := geom.Difference(gInner, gOuter)
	if err != nil {
		covers, cerr := geom.Covers(gOuter, gInner)
		return cerr == nil && covers
	}
	return outside.Area() <= AreaTolerance
}
