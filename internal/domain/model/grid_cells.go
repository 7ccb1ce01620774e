package model

// GridCell 占有グリッド上のセル（整数インデックス）
type GridCell struct {
	X int `json:"x"` // 列インデックス
	Y int `json:"y"` // 行インデックス
}

// Offset は指定量だけずらしたセルを返す
func (c GridCell) Offset(dx, dy int) GridCell {
	return GridCell{X: c.X + dx, Y: c.Y + dy}
}
