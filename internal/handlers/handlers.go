package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/megumiii12/athlete/internal/config"
	"github.com/megumiii12/athlete/internal/middleware"
	"github.com/megumiii12/athlete/internal/repository"
	"github.com/megumiii12/athlete/internal/service"
	"github.com/megumiii12/athlete/internal/vitals"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	auth     *service.AuthService
	readings *service.ReadingService
	db       *pgxpool.Pool
	cache    *redis.Client
	sessions *repository.SessionRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, classifier vitals.Classifier, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	readingRepo := repository.NewReadingRepository(db)

	auth := service.NewAuthService(userRepo, sessionRepo, cfg, log)
	readings := service.NewReadingService(readingRepo, classifier, cache, cfg, log)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		auth:     auth,
		readings: readings,
		db:       db,
		cache:    cache,
		sessions: sessionRepo,
	}
}

// SessionRepository exposes the session repo for background jobs.
func (h HandlerSet) SessionRepository() *repository.SessionRepository {
	return h.sessions
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.POST("/reset-password", h.ResetPassword)

		protected := v1.Group("/auth")
		protected.Use(middleware.SessionAuth(h.cfg.Security.SessionCookie, h.auth))
		protected.GET("/verify", h.Verify)
	}

	readings := v1.Group("/readings")
	// Device ingestion stays outside the auth group on purpose: sensors
	// that cannot hold tokens post here with a self-declared athlete id.
	readings.POST("/device", h.IngestDeviceReading)

	authed := readings.Group("")
	authed.Use(middleware.SessionAuth(h.cfg.Security.SessionCookie, h.auth))
	authed.POST("", h.IngestReading)
	authed.GET("/latest", h.LatestReading)
	authed.GET("/history", h.ReadingHistory)
	authed.GET("/abnormal", h.AbnormalReadingHistory)
}
