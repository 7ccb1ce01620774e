package model

import "fmt"

// 経路探索の端点名
const (
	EndpointStart = "Start"
	EndpointEnd   = "End"
)

// InputError 呼び出し側が修正できる入力エラー（座標・ジオメトリ構文など）
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NotFoundError 参照先のフロア（マップ）が存在しない
type NotFoundError struct {
	Resource string
	ID       string
	Reason   string // 空なら存在しない
}

func (e *NotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %s %s", e.Resource, e.ID, e.Reason)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// PreconditionError 経路の端点が歩行可能セル上にない（探索前に判定）
type PreconditionError struct {
	Endpoint string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s node is not walkable", e.Endpoint)
}

// UnreachableError 探索が尽きても始点と終点がつながらなかった
type UnreachableError struct{}

func (e *UnreachableError) Error() string {
	return "no walkable path between start and end"
}

// ResourceLimitError グリッドのセル数が上限を超える
type ResourceLimitError struct {
	Cells int64
	Limit int
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("grid of %d cells exceeds the limit of %d cells", e.Cells, e.Limit)
}
