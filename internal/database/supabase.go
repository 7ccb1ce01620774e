package database

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"PlazaNav-App/internal/config"
)

// healthCheckTable 接続確認で読むテーブル
const healthCheckTable = "floor_geometries"

// SupabaseClient フロアのテーブルを提供する Supabase への接続
type SupabaseClient struct {
	Client *supabase.Client
	schema string
}

// NewSupabaseClient は設定の URL・匿名キー・スキーマからクライアントを作成する
func NewSupabaseClient(cfg *config.Config) (*SupabaseClient, error) {
	if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URLとSUPABASE_ANON_KEYが必要です")
	}
	schema := cfg.SupabaseSchema
	if schema == "" {
		schema = config.DefaultSupabaseSchema
	}

	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, &supabase.ClientOptions{Schema: schema})
	if err != nil {
		return nil, fmt.Errorf("Supabaseクライアントの初期化に失敗: %w", err)
	}

	return &SupabaseClient{Client: client, schema: schema}, nil
}

func (sc *SupabaseClient) GetClient() *supabase.Client {
	return sc.Client
}

// HealthCheck はフロアのテーブルを1行読めるか確認する
func (sc *SupabaseClient) HealthCheck(ctx context.Context) error {
	if sc.Client == nil {
		return fmt.Errorf("Supabaseクライアントが初期化されていません")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := sc.Client.From(healthCheckTable).Select("map_id", "", false).Limit(1, "").Execute(); err != nil {
		return fmt.Errorf("%s.%s の読み込みに失敗: %w", sc.schema, healthCheckTable, err)
	}
	return nil
}
