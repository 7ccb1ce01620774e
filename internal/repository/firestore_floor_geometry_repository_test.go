package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PlazaNav-App/internal/config"
	"PlazaNav-App/internal/domain/model"
	"PlazaNav-App/internal/infrastructure/firestore"
)

func TestFirestoreFloorGeometry_ToFloorGeometry(t *testing.T) {
	doc := &FirestoreFloorGeometry{
		Detail: "GEOMETRYCOLLECTION(POLYGON((0 0,20 0,20 20,0 20,0 0)),POLYGON((8 8,12 8,12 12,8 12,8 8)))",
		Obstacles: []FirestoreFloorObstacle{
			{Type: "store", ID: 1, WKT: "POLYGON((2 2,4 2,4 4,2 4,2 2))"},
			{Type: "facility", ID: 2, WKT: "POINT(5 5)"},
			{Type: "store", ID: 3, WKT: "not wkt"},
		},
	}

	floor, err := doc.ToFloorGeometry(7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), floor.FloorID)
	assert.Len(t, floor.Voids, 1)
	require.Len(t, floor.Obstacles, 2, "解析できない障害物はスキップ")
	assert.Equal(t, model.ObstacleFacility, floor.Obstacles[1].Type)

	_, err = (&FirestoreFloorGeometry{}).ToFloorGeometry(8)
	var notFound *model.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

// TestFirestoreFloorGeometryRepository_Integration は実際のFirestoreに接続する
func TestFirestoreFloorGeometryRepository_Integration(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_IDが設定されていません。統合テストをスキップします。")
	}

	ctx := context.Background()
	client, err := firestore.NewFirestoreClient(ctx, &config.Config{
		FirestoreProjectID:       projectID,
		FirestoreCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	})
	require.NoError(t, err)
	defer client.Close()

	repo := NewFirestoreFloorGeometryRepository(client.GetClient())
	_, err = repo.GetFloorGeometry(ctx, -1)
	var notFound *model.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}
