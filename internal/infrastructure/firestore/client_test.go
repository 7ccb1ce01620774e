package firestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PlazaNav-App/internal/config"
)

func TestClientOptions(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(keyFile, []byte(`{}`), 0o600))

	tests := []struct {
		name string
		cfg  config.Config
		want int
	}{
		{"認証ファイル未指定", config.Config{}, 0},
		{"認証ファイルあり", config.Config{FirestoreCredentialsFile: keyFile}, 1},
		{"認証ファイルが存在しない", config.Config{FirestoreCredentialsFile: filepath.Join(t.TempDir(), "missing.json")}, 0},
		{"Cloud Run上ではファイルを使わない", config.Config{FirestoreCredentialsFile: keyFile, OnCloudRun: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, clientOptions(&tt.cfg), tt.want)
		})
	}
}

func TestNewFirestoreClient_RequiresProjectID(t *testing.T) {
	_, err := NewFirestoreClient(context.Background(), &config.Config{})
	assert.Error(t, err)
}
