package model

import (
	"fmt"

	"github.com/paulmach/orb"
)

// FloorPlan 1フロア分の外周ポリゴンと吹き抜け（void）のスナップショット
type FloorPlan struct {
	OuterShell orb.Polygon   // 外周（外側リングのみ使用）
	Voids      []orb.Polygon // 吹き抜け・中庭（穴ではなく独立したポリゴン）
}

// FloorGeometry ジオメトリ提供元から取得するフロアの完全なスナップショット
type FloorGeometry struct {
	FloorID int64
	FloorPlan
	Obstacles []Obstacle
}

// ObstacleKey 種別とIDの組で障害物を一意に識別する
type ObstacleKey struct {
	Type ObstacleType
	ID   int64
}

// Less はIDの数値順、同じIDなら種別順で比較する
func (k ObstacleKey) Less(other ObstacleKey) bool {
	if k.ID != other.ID {
		return k.ID < other.ID
	}
	return k.Type < other.Type
}

// Label はエラーメッセージ用のラベル（例: "[Store 5]"）
func (k ObstacleKey) Label() string {
	return fmt.Sprintf("[%s %d]", k.Type, k.ID)
}

// Obstacle 店舗・設備・その他エリア・イベントエリアを表すタグ付きバリアント
// Facility は orb.Point、それ以外は orb.Polygon を Shape に持つ
type Obstacle struct {
	Type  ObstacleType
	ID    int64
	Shape orb.Geometry
}

// Key は障害物のキーを返す
func (o Obstacle) Key() ObstacleKey {
	return ObstacleKey{Type: o.Type, ID: o.ID}
}

// Label はエラーメッセージ用のラベルを返す
func (o Obstacle) Label() string {
	return o.Key().Label()
}

// IsFacility は設備（点）かどうか
func (o Obstacle) IsFacility() bool {
	return o.Type == ObstacleFacility
}
