package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"PlazaNav-App/internal/domain/model"
)

// ジオメトリの取得元
const (
	SourcePostgres  = "postgres"
	SourceSupabase  = "supabase"
	SourceFirestore = "firestore"
	SourceFile      = "file"
)

// 既定値
const (
	DefaultPort           = "8080"
	DefaultGridResolution = 0.5
	DefaultMaxGridCells   = 1_000_000
	DefaultGeometryDir    = "data/floors"
	DefaultSupabaseSchema = "public"
)

// Config サーバー設定
type Config struct {
	Port           string
	GeometrySource string

	DatabaseURL        string
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseSchema     string
	FirestoreProjectID string
	GeometryDir        string

	// Firestore の認証ファイル（空ならデフォルト認証）
	FirestoreCredentialsFile string
	// Cloud Run 上では認証ファイルを使わない
	OnCloudRun bool

	RouteGridResolution float64
	RouteFacilityRadius float64
	EditFacilityRadius  float64
	MaxGridCells        int
}

// LoadDotEnv は .env を読み込む（存在しなければ環境変数のみを使う）
func LoadDotEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Printf("⚠️ .env file not found, using system environment variables")
	}
}

// Load は環境変数から設定を読み込む
// 数値として不正な値は警告を出して既定値を使う
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", DefaultPort),
		GeometrySource:     strings.ToLower(getEnv("GEOMETRY_SOURCE", SourcePostgres)),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseSchema:     getEnv("SUPABASE_SCHEMA", DefaultSupabaseSchema),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		GeometryDir:        getEnv("GEOMETRY_DIR", DefaultGeometryDir),

		FirestoreCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		OnCloudRun:               os.Getenv("K_SERVICE") != "",

		RouteGridResolution: getPositiveFloat("ROUTE_GRID_RESOLUTION", DefaultGridResolution),
		RouteFacilityRadius: getPositiveFloat("ROUTE_FACILITY_RADIUS", model.DefaultRouteFacilityRadius),
		EditFacilityRadius:  getPositiveFloat("EDIT_FACILITY_RADIUS", model.DefaultEditFacilityRadius),
		MaxGridCells:        getInt("MAX_GRID_CELLS", DefaultMaxGridCells),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate はジオメトリ取得元ごとの必須設定を確認する
func (c *Config) Validate() error {
	switch c.GeometrySource {
	case SourcePostgres:
		if c.DatabaseURL == "" && c.SupabaseURL == "" {
			return fmt.Errorf("GEOMETRY_SOURCE=postgres にはDATABASE_URLまたはSUPABASE_URLが必要です")
		}
	case SourceSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return fmt.Errorf("GEOMETRY_SOURCE=supabase にはSUPABASE_URLとSUPABASE_ANON_KEYが必要です")
		}
	case SourceFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("GEOMETRY_SOURCE=firestore にはFIRESTORE_PROJECT_IDが必要です")
		}
	case SourceFile:
		if c.GeometryDir == "" {
			return fmt.Errorf("GEOMETRY_SOURCE=file にはGEOMETRY_DIRが必要です")
		}
	default:
		return fmt.Errorf("未知のGEOMETRY_SOURCE: %q", c.GeometrySource)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getPositiveFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		log.Printf("⚠️ %s=%q は正の数ではありません。既定値 %v を使用します", key, raw, def)
		return def
	}
	return v
}

// getInt は整数の設定値を読む（0以下は上限なしを意味する）
func getInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ %s=%q は整数ではありません。既定値 %d を使用します", key, raw, def)
		return def
	}
	return v
}
