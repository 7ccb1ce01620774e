package repository

import (
	"context"

	"PlazaNav-App/internal/domain/model"
)

// FloorGeometryRepository フロアの外周・吹き抜け・障害物のスナップショットを提供する
// フロアが存在しない、または外周が未設定の場合は *model.NotFoundError を返す
type FloorGeometryRepository interface {
	GetFloorGeometry(ctx context.Context, floorID int64) (*model.FloorGeometry, error)
}
