package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"PlazaNav-App/internal/config"
	"PlazaNav-App/internal/database"
	domainRepo "PlazaNav-App/internal/domain/repository"
	"PlazaNav-App/internal/domain/service"
	"PlazaNav-App/internal/handler"
	infraDB "PlazaNav-App/internal/infrastructure/database"
	"PlazaNav-App/internal/infrastructure/firestore"
	"PlazaNav-App/internal/repository"
	"PlazaNav-App/internal/usecase"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	ctx := context.Background()
	floorRepo, healthCheck, cleanup, err := newFloorGeometryRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("ジオメトリ取得元の初期化に失敗: %v", err)
	}
	defer cleanup()

	// Dependency injection
	routePlanUseCase := usecase.NewRoutePlanUseCase(floorRepo, service.NewRoutePlanService(), usecase.RouteSettings{
		Resolution:     cfg.RouteGridResolution,
		FacilityRadius: cfg.RouteFacilityRadius,
		MaxGridCells:   cfg.MaxGridCells,
	})
	layoutValidationUseCase := usecase.NewLayoutValidationUseCase(
		floorRepo,
		service.NewBatchValidator(cfg.EditFacilityRadius),
		service.NewPlacementValidator(),
		cfg.EditFacilityRadius,
	)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(
		handler.NewRoutePlanHandler(routePlanUseCase),
		handler.NewLayoutValidationHandler(layoutValidationUseCase),
		handler.NewHealthHandler(cfg.GeometrySource, healthCheck),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 PlazaNav-App server starting on :%s (geometry source: %s, resolution: %.2fm)", cfg.Port, cfg.GeometrySource, cfg.RouteGridResolution)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("サーバーの起動に失敗: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("🛑 サーバーを停止しています...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ サーバー停止時のエラー: %v", err)
	}
}

// newFloorGeometryRepository は GEOMETRY_SOURCE に応じたリポジトリを作成する
func newFloorGeometryRepository(ctx context.Context, cfg *config.Config) (domainRepo.FloorGeometryRepository, handler.HealthCheckFunc, func(), error) {
	noop := func() {}

	switch cfg.GeometrySource {
	case config.SourcePostgres:
		client, err := infraDB.NewPostgreSQLClient(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, noop, err
		}
		log.Printf("✅ PostgreSQL connection successful!")
		return repository.NewPostgresFloorGeometryRepository(client), client.HealthCheck, func() { client.Close() }, nil

	case config.SourceSupabase:
		client, err := database.NewSupabaseClient(cfg)
		if err != nil {
			return nil, nil, noop, err
		}
		log.Printf("✅ Supabase client initialized")
		return repository.NewSupabaseFloorGeometryRepository(client), client.HealthCheck, noop, nil

	case config.SourceFirestore:
		client, err := firestore.NewFirestoreClient(ctx, cfg)
		if err != nil {
			return nil, nil, noop, err
		}
		return repository.NewFirestoreFloorGeometryRepository(client.GetClient()), client.HealthCheck, func() { client.Close() }, nil

	default:
		log.Printf("📄 GeoJSONファイルからフロアを読み込みます: %s", cfg.GeometryDir)
		check := func(ctx context.Context) error {
			_, err := os.Stat(cfg.GeometryDir)
			return err
		}
		return repository.NewFileFloorGeometryRepository(cfg.GeometryDir), check, noop, nil
	}
}
