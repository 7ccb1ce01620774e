package repository

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"PlazaNav-App/internal/domain/model"
	"PlazaNav-App/internal/domain/repository"
)

const floorGeometriesCollection = "floorGeometries"

// FirestoreFloorGeometryRepository Firestore の floorGeometries/{id} ドキュメントからフロアを読み込む
type FirestoreFloorGeometryRepository struct {
	client *firestore.Client
}

// NewFirestoreFloorGeometryRepository 新しいFirestoreFloorGeometryRepositoryインスタンスを作成
func NewFirestoreFloorGeometryRepository(client *firestore.Client) repository.FloorGeometryRepository {
	return &FirestoreFloorGeometryRepository{
		client: client,
	}
}

// FirestoreFloorGeometry Firestore に保存するフロアドキュメント（ジオメトリは WKT）
type FirestoreFloorGeometry struct {
	Detail    string                   `firestore:"detail"`
	Obstacles []FirestoreFloorObstacle `firestore:"obstacles"`
}

// FirestoreFloorObstacle フロアドキュメント内の障害物
type FirestoreFloorObstacle struct {
	Type string `firestore:"type"`
	ID   int64  `firestore:"id"`
	WKT  string `firestore:"wkt"`
}

func (r *FirestoreFloorGeometryRepository) GetFloorGeometry(ctx context.Context, floorID int64) (*model.FloorGeometry, error) {
	doc, err := r.client.Collection(floorGeometriesCollection).Doc(strconv.FormatInt(floorID, 10)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, floorNotFound(floorID)
		}
		return nil, fmt.Errorf("フロアドキュメントの取得に失敗しました: %w", err)
	}

	var data FirestoreFloorGeometry
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}

	floor, err := data.ToFloorGeometry(floorID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ マップ %d を読み込み（Firestore）: void=%d, obstacles=%d", floorID, len(floor.Voids), len(floor.Obstacles))
	return floor, nil
}

// ToFloorGeometry はドキュメントをドメインモデルに変換する
func (d *FirestoreFloorGeometry) ToFloorGeometry(floorID int64) (*model.FloorGeometry, error) {
	if d.Detail == "" {
		return nil, floorNotInitialized(floorID)
	}
	g, err := ParseWKT(d.Detail)
	if err != nil {
		return nil, fmt.Errorf("マップ %d の detail 解析失敗: %w", floorID, err)
	}
	plan, err := SplitFloorDetail(g)
	if err != nil {
		return nil, floorNotInitialized(floorID)
	}

	floor := &model.FloorGeometry{FloorID: floorID, FloorPlan: plan}
	for _, o := range d.Obstacles {
		shape, err := ParseWKT(o.WKT)
		if err != nil {
			log.Printf("⚠️ %s %d をスキップ: %v", o.Type, o.ID, err)
			continue
		}
		obstacle, err := BuildObstacle(o.Type, o.ID, shape)
		if err != nil {
			log.Printf("⚠️ %s %d をスキップ: %v", o.Type, o.ID, err)
			continue
		}
		floor.Obstacles = append(floor.Obstacles, obstacle)
	}
	return floor, nil
}
