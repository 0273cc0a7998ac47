package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ifportal/portal-estudante/internal/api/middleware"
	"github.com/ifportal/portal-estudante/internal/config"
	"github.com/ifportal/portal-estudante/internal/repository"
	"github.com/ifportal/portal-estudante/internal/services"
	"github.com/ifportal/portal-estudante/internal/suap"
)

// NewRouter wires the full application: upstream client, session store,
// cache, services, middleware stack, and every route group.
func NewRouter(cfg *config.AppConfig, logger *slog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	client := suap.NewClient(cfg.SUAP, logger)

	var sessions repository.SessionRepository
	var cacheBackend services.CacheBackend
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sessions = repository.NewRedisSessionRepository(rdb)
		cacheBackend = services.NewRedisCacheBackend(rdb, "portal:cache:")
	} else {
		sessions = repository.NewMemorySessionRepository()
		cacheBackend = services.NewMemoryCacheBackend()
	}

	cache := services.NewCacheManager(cacheBackend, cfg.Session.TTL, logger)
	classify := services.NewClassifier(services.ClassifierPolicy(cfg.ClassifierPolicy))
	dashboards := services.NewDashboardService(client, cache, classify, logger)
	sessionMW := middleware.NewSessionMiddleware(sessions, cfg.Session)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(logger, "/health", "/ping"))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	NewHealthHandler(cfg.Environment).RegisterRoutes(router)
	NewAuthHandler(client, sessions, dashboards, sessionMW, cfg.Session).RegisterRoutes(router)
	NewDashboardHandler(dashboards, sessions, sessionMW, cfg.Session).RegisterRoutes(router)
	NewReportHandler(dashboards, sessionMW).RegisterRoutes(router)
	NewStudentHandler(dashboards, sessionMW).RegisterRoutes(router)

	return router
}
