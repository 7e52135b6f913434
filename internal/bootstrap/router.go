package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/hourly-labs/timetrack-backend/internal/api/http"
	"github.com/hourly-labs/timetrack-backend/internal/api/http/middleware"
	"github.com/hourly-labs/timetrack-backend/internal/auth"
	"github.com/hourly-labs/timetrack-backend/internal/logging"
	projecthttp "github.com/hourly-labs/timetrack-backend/internal/projects/http"
	projectrepo "github.com/hourly-labs/timetrack-backend/internal/projects/repository"
	projectsvc "github.com/hourly-labs/timetrack-backend/internal/projects/service"
	taghttp "github.com/hourly-labs/timetrack-backend/internal/tags/http"
	tagrepo "github.com/hourly-labs/timetrack-backend/internal/tags/repository"
	timehttp "github.com/hourly-labs/timetrack-backend/internal/timetracking/http"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/repository"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/service"
	"github.com/hourly-labs/timetrack-backend/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Logger      logging.Logger

	DB       *sql.DB
	DBPinger httpapi.Pinger
	// Redis is optional; nil disables the history cache.
	Redis           *redis.Client
	HistoryCacheTTL time.Duration

	Tokens             *auth.TokenManager
	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int

	// Clock defaults to the system clock.
	Clock service.Clock
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	logger := dep.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(dep.RateLimitPerMinute, dep.RateLimitBurst)))

	var cachePinger httpapi.Pinger
	var cache service.HistoryCache
	if dep.Redis != nil {
		cachePinger = RedisPinger{Client: dep.Redis}
		cache = repository.NewHistoryCache(dep.Redis, dep.HistoryCacheTTL)
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DBPinger, cachePinger)
	healthHandler.RegisterRoutes(r)

	// every owner-scoped route first makes sure the caller has a users row
	authed := []gin.HandlerFunc{
		auth.RequireUser(dep.Tokens),
		auth.WithUser(users.NewRepo(dep.DB), logger),
	}

	repos := repository.NewPostgresRepositoryManager()
	lifecycle := service.NewLifecycleService(dep.DB, repos, dep.Clock, cache, logger)
	agg := service.NewAggregationService(repos.Entries(dep.DB), dep.Clock, cache, logger)
	query := service.NewQueryService(repos.Entries(dep.DB), repos.TagLinks(dep.DB))
	timehttp.New(lifecycle, agg, query, logger).Register(r.Group("/time", authed...))

	projects := projectsvc.NewProjectService(projectrepo.NewProjectRepository(dep.DB))
	projecthttp.New(projects, logger).Register(r.Group("/projects", authed...))

	taghttp.New(tagrepo.NewTagRepository(dep.DB), logger).Register(r.Group("/tags", authed...))

	return r
}
