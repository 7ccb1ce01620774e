package helper

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// DefaultBufferSegments 円近似の分割数（1象限あたり8分割）
const DefaultBufferSegments = 32

// BufferPoint は点を半径 radius の円近似ポリゴンに膨張させる
func BufferPoint(center orb.Point, radius float64, segments int) orb.Polygon {
	if segments < 4 {
		segments = DefaultBufferSegments
	}
	ring := make(orb.Ring, 0, segments+1)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		ring = append(ring, orb.Point{
			center[0] + radius*math.Cos(angle),
			center[1] + radius*math.Sin(angle),
		})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// Footprint は衝突判定に使う面形状を返す
// 点は radius で膨張させ、ポリゴンはそのまま返す
func Footprint(shape orb.Geometry, radius float64) (orb.Polygon, error) {
	switch g := shape.(type) {
	case nil:
		return nil, fmt.Errorf("shape is empty")
	case orb.Point:
		if radius <= 0 {
			return nil, fmt.Errorf("buffer radius must be positive")
		}
		poly := BufferPoint(g, radius, DefaultBufferSegments)
		if err := ValidatePolygon(poly); err != nil {
			return nil, err
		}
		return poly, nil
	case orb.Polygon:
		if err := ValidatePolygon(g); err != nil {
			return nil, err
		}
		return g, nil
	case orb.Ring:
		poly := orb.Polygon{g}
		if err := ValidatePolygon(poly); err != nil {
			return nil, err
		}
		return poly, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %s", shape.GeoJSONType())
	}
}
