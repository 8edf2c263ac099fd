// Package main runs the park event application site: public event pages and
// application forms, plus the JWT-protected admin API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kikuna-park/backend/config"
	"github.com/kikuna-park/backend/internal/applications"
	"github.com/kikuna-park/backend/internal/auth"
	"github.com/kikuna-park/backend/internal/changelog"
	"github.com/kikuna-park/backend/internal/events"
	"github.com/kikuna-park/backend/internal/middleware"
	"github.com/kikuna-park/backend/internal/volunteers"
	"github.com/kikuna-park/backend/pkg/database"
	"github.com/kikuna-park/backend/pkg/redis"
	"github.com/kikuna-park/backend/pkg/response"
	"github.com/kikuna-park/backend/web"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.Admin.JWTSecret, cfg.Admin.JWTExpireHours)
	authHandler := auth.NewHandler(cfg.Admin.PasswordHash, jwtService, logger)

	// Events
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, logger)

	// Applications
	appRepo := applications.NewRepository(pool)
	drafts := applications.NewRedisDraftStore(rdb.Client, time.Duration(cfg.Session.MaxAgeSeconds)*time.Second)
	recorder := applications.NewRecorder(appRepo)
	controller := applications.NewController(eventRepo, drafts, recorder, logger)
	appHandler := applications.NewHandler(controller, logger)

	// Volunteers
	volunteerRepo := volunteers.NewRepository(pool)
	volunteerHandler := volunteers.NewHandler(volunteers.NewRegistrar(volunteerRepo), volunteerRepo, logger)

	// Admin back office
	changeRepo := changelog.NewRepository(pool)
	adminHandler := applications.NewAdminHandler(appRepo, eventRepo, changeRepo, logger)

	templates, err := web.Templates()
	if err != nil {
		logger.Fatal("templates", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.SetHTMLTemplate(templates)

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public site
	public := router.Group("")
	public.Use(middleware.Session(cfg.Session.SecureCookie, cfg.Session.MaxAgeSeconds))
	{
		public.GET("/", eventHandler.Home)
		public.GET("/apply/:slug/:kind", appHandler.ShowForm)
		public.POST("/apply/:slug/:kind", appHandler.Confirm)
		public.POST("/apply/:slug/:kind/edit", appHandler.EditBack)
		public.POST("/apply/:slug/:kind/submit", appHandler.Submit)
		public.GET("/register", volunteerHandler.ShowForm)
		public.POST("/register", volunteerHandler.Register)
	}

	// Admin API
	admin := router.Group("/admin")
	admin.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	admin.POST("/login", authHandler.Login)
	protected := admin.Group("")
	protected.Use(middleware.AdminJWT(jwtService))
	{
		protected.GET("/applications", adminHandler.List)
		protected.GET("/applications/export", adminHandler.Export)
		protected.GET("/applications/:id", adminHandler.Detail)
		protected.PATCH("/applications/:id", adminHandler.Update)
		protected.DELETE("/applications/:id", adminHandler.Delete)

		protected.GET("/volunteers", volunteerHandler.AdminList)
		protected.GET("/volunteers/export", volunteerHandler.Export)

		protected.GET("/events", eventHandler.AdminList)
		protected.POST("/events", eventHandler.AdminCreate)
		protected.PATCH("/events/:id", eventHandler.AdminUpdate)
		protected.DELETE("/events/:id", eventHandler.AdminDelete)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
