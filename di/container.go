package di

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"floorwatch/api"
	"floorwatch/api/floor"
	"floorwatch/config"
	"floorwatch/dao/redis"
	"floorwatch/db"
	"floorwatch/server"
	"floorwatch/server/handlers"
	services "floorwatch/service"
)

// Container holds all application dependencies.
type Container struct {
	Config               config.Config
	Logger               *zap.Logger
	ReferenceData        config.ReferenceData
	RedisClient          db.RedisClient
	RedisDashboardDao    *redis.RedisDashboardDAO
	FloorAPI             floor.FloorAPI
	PollerRegistry       *services.PollerRegistry
	DashboardService     *services.DashboardService
	SummaryService       *services.SummaryService
	DashboardHandler     *handlers.DashboardHandler
	ReportHandler        *handlers.ReportHandler
	FormHandler          *handlers.FormHandler
	MuxRouter            *mux.Router
	Router               *server.Router
	FloorwatchHttpServer *server.FloorwatchHttpServer
}

// NewLogger builds the process logger: development output in the mock
// environment, JSON otherwise, debug level on request.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Env == config.ENV_MOCK {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

// NewContainer initializes and wires up all dependencies. Pollers live until
// ctx is done.
func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	logger.Info("initializing container", zap.String("env", cfg.Env))

	referenceData, err := config.LoadReferenceData(cfg.ReferenceDataPath)
	if err != nil {
		return nil, err
	}

	redisClient, err := newRedisClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	floorAPI, err := newFloorAPI(cfg, logger)
	if err != nil {
		return nil, err
	}

	redisDashboardDao := redis.NewRedisDashboardDAO(redisClient, cfg.CacheTTL)

	pollerRegistry := services.NewPollerRegistry(ctx, floorAPI, redisDashboardDao, cfg.PollerIdleTimeout, logger)
	dashboardService := services.NewDashboardService(redisDashboardDao, pollerRegistry, logger)
	summaryService := services.NewSummaryService(floorAPI, logger)

	dashboardHandler := handlers.NewDashboardHandler(dashboardService, referenceData, logger)
	reportHandler := handlers.NewReportHandler(summaryService, dashboardService, logger)
	formHandler := handlers.NewFormHandler(floorAPI, config.TOAST_TTL, logger)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(dashboardHandler, reportHandler, formHandler, muxRouter, logger)
	httpServer := server.NewFloorwatchHttpServer(router, muxRouter, cfg.ListenAddr, cfg.ShutdownTimeout, logger)

	return &Container{
		Config:               cfg,
		Logger:               logger,
		ReferenceData:        referenceData,
		RedisClient:          redisClient,
		RedisDashboardDao:    redisDashboardDao,
		FloorAPI:             floorAPI,
		PollerRegistry:       pollerRegistry,
		DashboardService:     dashboardService,
		SummaryService:       summaryService,
		DashboardHandler:     dashboardHandler,
		ReportHandler:        reportHandler,
		FormHandler:          formHandler,
		MuxRouter:            muxRouter,
		Router:               router,
		FloorwatchHttpServer: httpServer,
	}, nil
}

func newRedisClient(ctx context.Context, cfg config.Config, logger *zap.Logger) (db.RedisClient, error) {
	if cfg.Env == config.ENV_MOCK {
		logger.Info("using in-memory redis")
		return db.NewMockRedisClient(ctx), nil
	}

	redisInternalClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	redisClient := db.NewGoRedisClient(ctx, redisInternalClient)
	if err := redisClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return redisClient, nil
}

func newFloorAPI(cfg config.Config, logger *zap.Logger) (floor.FloorAPI, error) {
	if cfg.Env != config.ENV_PROD {
		if cfg.MockFixturePath == "" {
			logger.Info("using empty mock floor api")
			return floor.NewFloorApiClientMock(), nil
		}
		logger.Info("using mock floor api", zap.String("fixture", cfg.MockFixturePath))
		return floor.NewFloorApiClientMockFromFile(cfg.MockFixturePath)
	}

	logger.Info("using floor api", zap.String("base_url", cfg.UpstreamBaseURL))
	httpClient := api.NewHTTPClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	return floor.NewFloorApiClient(httpClient), nil
}

// Close releases the container's connections and stops every poller.
func (c *Container) Close() error {
	c.PollerRegistry.StopAll()
	return c.RedisClient.Close()
}
