package firestore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"PlazaNav-App/internal/config"
)

// FirestoreClient フロア文書を保持する Firestore への接続
type FirestoreClient struct {
	client    *firestore.Client
	projectID string
}

// NewFirestoreClient は設定からクライアントを作成する
func NewFirestoreClient(ctx context.Context, cfg *config.Config) (*FirestoreClient, error) {
	if cfg.FirestoreProjectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_IDが設定されていません")
	}

	client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("Firestoreクライアントの作成に失敗: %w", err)
	}

	log.Printf("✅ Firestore client initialized for project: %s", cfg.FirestoreProjectID)
	return &FirestoreClient{client: client, projectID: cfg.FirestoreProjectID}, nil
}

// clientOptions は認証方法を決める
// Cloud Run 上、または認証ファイルが指定されていない・見つからない場合はデフォルト認証
func clientOptions(cfg *config.Config) []option.ClientOption {
	if cfg.OnCloudRun {
		log.Printf("☁️ Cloud Run環境: デフォルト認証を使用")
		return nil
	}
	if cfg.FirestoreCredentialsFile == "" {
		return nil
	}
	if _, err := os.Stat(cfg.FirestoreCredentialsFile); err != nil {
		log.Printf("⚠️ 認証ファイル %s が見つかりません。デフォルト認証を使用します", cfg.FirestoreCredentialsFile)
		return nil
	}
	log.Printf("📄 Using credentials file: %s", cfg.FirestoreCredentialsFile)
	return []option.ClientOption{option.WithCredentialsFile(cfg.FirestoreCredentialsFile)}
}

// HealthCheck はコレクション一覧を1件読めるか確認する
func (fc *FirestoreClient) HealthCheck(ctx context.Context) error {
	_, err := fc.client.Collections(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("Firestore(%s)への接続確認に失敗: %w", fc.projectID, err)
	}
	return nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
