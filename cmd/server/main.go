package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nikhilporwal7/ResumeHelper/internal/config"
	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
	"github.com/nikhilporwal7/ResumeHelper/internal/handler"
	"github.com/nikhilporwal7/ResumeHelper/internal/middleware"
	"github.com/nikhilporwal7/ResumeHelper/internal/service"
	"github.com/nikhilporwal7/ResumeHelper/internal/storage"
	"github.com/nikhilporwal7/ResumeHelper/pkg/database"
	redisclient "github.com/nikhilporwal7/ResumeHelper/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	store, cleanup := setupStorage(cfg)
	defer cleanup()

	var cache *goredis.Client
	if cfg.RedisURL != "" {
		client, err := redisclient.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		cache = client
	} else {
		log.Warn().Msg("REDIS_URL not set, aggregate caching disabled")
	}

	resumeService := service.NewResumeService(store, cache, cfg.CacheTTL)
	archiveService := service.NewArweaveService(cfg.ArweaveGateway, cfg.ArweaveProcessID)

	resumeHandler := handler.NewResumeHandler(resumeService)
	archiveHandler := handler.NewArchiveHandler(archiveService)

	router := setupRouter(cfg, resumeHandler, archiveHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server startup failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupLogging(cfg *config.Config) {
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// setupStorage picks the backing store: postgres when DATABASE_URL is set,
// the in-memory store otherwise.
func setupStorage(cfg *config.Config) (domain.ResumeStorage, func()) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory storage")
		return storage.NewMemoryStorage(), func() {}
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	return storage.NewPostgresStorage(db), func() { db.Close() }
}

func setupRouter(cfg *config.Config, resumeHandler *handler.ResumeHandler, archiveHandler *handler.ArchiveHandler) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(middleware.OptionalAuth(cfg.JWTSecret))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "healthy",
				"timestamp": time.Now().Unix(),
			})
		})

		resumes := api.Group("/resumes")
		{
			resumes.GET("", resumeHandler.ListResumes)
			resumes.GET("/:id", resumeHandler.GetResume)
			resumes.POST("", resumeHandler.CreateResume)
			resumes.PUT("/:id", resumeHandler.UpdateResume)
			resumes.DELETE("/:id", resumeHandler.DeleteResume)
			resumes.POST("/:id/ats-score", resumeHandler.RecalculateScore)
		}

		api.POST("/ats/analyze", resumeHandler.Analyze)

		archive := api.Group("/archive")
		{
			archive.POST("/resumes", archiveHandler.PublishResume)
			archive.GET("/resumes", archiveHandler.ListArchivedResumes)
			archive.GET("/resumes/:txId", archiveHandler.GetArchivedResume)
		}
	}

	return router
}
