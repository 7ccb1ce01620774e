package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ObstacleType はフロア上の占有エリアの種別
type ObstacleType int

// ObstacleTypeConstants はアプリケーションで使用する障害物種別の定数
const (
	ObstacleStore ObstacleType = iota + 1
	ObstacleFacility
	ObstacleOther
	ObstacleEvent
)

// デフォルトの設備バッファ半径（メートル）
const (
	DefaultRouteFacilityRadius = 0.5
	DefaultEditFacilityRadius  = 0.3
)

// ObstacleTypeNameMap は種別からラベル表記へのマッピング
var ObstacleTypeNameMap = map[ObstacleType]string{
	ObstacleStore:    "Store",
	ObstacleFacility: "Facility",
	ObstacleOther:    "Other",
	ObstacleEvent:    "Event",
}

// obstacleTypeAliases はワイヤ表記（元データのテーブル名を含む）から種別へのマッピング
var obstacleTypeAliases = map[string]ObstacleType{
	"store":     ObstacleStore,
	"storearea": ObstacleStore,
	"facility":  ObstacleFacility,
	"other":     ObstacleOther,
	"otherarea": ObstacleOther,
	"event":     ObstacleEvent,
	"eventarea": ObstacleEvent,
}

// String はラベル表記を返す（例: "Store"）
func (t ObstacleType) String() string {
	if name, ok := ObstacleTypeNameMap[t]; ok {
		return name
	}
	return fmt.Sprintf("ObstacleType(%d)", int(t))
}

// WireName はJSONで使う小文字表記を返す（例: "store"）
func (t ObstacleType) WireName() string {
	return strings.ToLower(t.String())
}

// ParseObstacleType は文字列から種別を解決する
func ParseObstacleType(s string) (ObstacleType, error) {
	if t, ok := obstacleTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown obstacle type %q", s)
}

func (t ObstacleType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.WireName())
}

func (t *ObstacleType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("obstacle type must be a string: %w", err)
	}
	parsed, err := ParseObstacleType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
