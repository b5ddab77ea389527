// Package server assembles the HTTP API from the configured components.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"go.uber.org/zap"

	"todo-tracker/backend/internal/cache"
	"todo-tracker/backend/internal/config"
	"todo-tracker/backend/internal/database"
	"todo-tracker/backend/internal/handlers"
	"todo-tracker/backend/internal/i18n"
	"todo-tracker/backend/internal/middleware"
	"todo-tracker/backend/internal/monitoring"
	"todo-tracker/backend/internal/services"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *database.DatabasePool
	cache   *cache.Store
	limiter *middleware.IPRateLimiter
	metrics *monitoring.Metrics
	router  *gin.Engine
}

// Open connects to the database, migrates it when configured, and attaches
// the Redis cache when it is enabled.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	pool, err := database.NewDatabasePool(database.PoolConfigFrom(cfg, logger))
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("driver", cfg.Database.Driver).Wrap(err)
	}

	if cfg.Database.AutoMigrate {
		if err := pool.Migrate(ctx); err != nil {
			_ = pool.Close()
			return nil, oops.Code("MIGRATION_FAILED").Wrap(err)
		}
		logger.Info("database schema migrated")
	}

	var store *cache.Store
	if cfg.Cache.Enabled {
		store = cache.NewStore(cache.NewRedisCache(cache.CacheConfigFrom(cfg)), nil, nil)
		if err := store.Health(ctx); err != nil {
			logger.Warn("redis unreachable, serving from the database until it recovers",
				zap.String("addr", cfg.GetRedisAddr()),
				zap.Error(err),
			)
		}
	}

	return New(cfg, logger, pool, store), nil
}

// New wires services, handlers and middleware around an open pool. store
// may be nil, in which case task lists are always read from the database.
func New(cfg *config.Config, logger *zap.Logger, pool *database.DatabasePool, store *cache.Store) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty, logins will fail until it is set")
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		db:      pool,
		cache:   store,
		metrics: monitoring.NewMetrics(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	cfg := s.cfg

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	health := monitoring.NewHealthChecker(s.metrics)
	health.Register("database", s.db.Health)
	health.RegisterStats("database", s.db.Stats)

	hasher := services.NewPasswordHasher(cfg.Auth.BCryptCost)
	tokens := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var taskService services.TaskService = services.NewTaskService(s.db.DB)
	var hooks []services.AccountDeletedHook
	if s.cache != nil {
		cached := services.NewCachedTaskService(taskService, s.cache, cfg.Cache.TTL, s.logger)
		taskService = cached
		hooks = append(hooks, cached.ForgetUser)

		s.metrics.Registry().MustRegister(s.cache.Metrics())
		health.Register("cache", s.cache.Health)
		health.RegisterStats("cache", s.cache.Stats)
	}
	userService := services.NewUserService(s.db.DB, hasher, hooks...)

	gate := middleware.NewSessionGate(tokens, middleware.SessionOptions{
		CookieName: cfg.Auth.CookieName,
		TTL:        cfg.Auth.TokenTTL,
		Secure:     cfg.IsProduction(),
	}, s.logger)
	localizer := i18n.NewLocalizer(cfg.Locale.Default)

	authHandler := handlers.NewAuthHandler(userService, tokens, gate, s.logger)
	taskHandler := handlers.NewTaskHandler(taskService, gate, s.logger)
	userHandler := handlers.NewUserHandler(userService, gate, s.logger)
	prefsHandler := handlers.NewPreferencesHandler(localizer, cfg.IsProduction())

	router := gin.New()
	// X-Forwarded-For is honored only from the configured proxies, so the
	// per-IP limiter keys on an address the client cannot choose.
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		s.logger.Error("invalid trusted proxies, ignoring forwarded headers",
			zap.Strings("trusted_proxies", cfg.Server.TrustedProxies),
			zap.Error(err),
		)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		middleware.RequestID(),
		middleware.RecoveryWithLog(s.logger),
		middleware.RequestLogger(s.logger),
		s.metrics.Middleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		localizer.Middleware(),
	)

	router.GET("/healthz/liveness", health.LivenessHandler())
	router.GET("/healthz/readiness", health.ReadinessHandler())
	router.GET("/health", health.HealthHandler())
	router.GET("/metrics", s.metrics.Handler())

	if cfg.RateLimit.Enabled {
		s.limiter = middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMin,
			Burst:             cfg.RateLimit.BurstSize,
			CleanupInterval:   cfg.RateLimit.CleanupInterval,
		}, s.metrics.Registry())
	}
	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if s.limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{s.limiter.Middleware(), h}
	}

	auth := router.Group("/auth")
	{
		auth.POST("/register", limited(authHandler.Register)...)
		auth.POST("/login", limited(authHandler.Login)...)
		auth.POST("/logout", authHandler.Logout)
	}

	todos := router.Group("/todos")
	{
		todos.GET("", taskHandler.GetTasks)
		todos.POST("", taskHandler.CreateTask)
		todos.GET("/:id", taskHandler.GetTaskByID)
		todos.PATCH("/:id", taskHandler.UpdateTask)
		todos.DELETE("/:id", taskHandler.DeleteTask)
	}

	user := router.Group("/user")
	{
		user.GET("/profile", userHandler.GetUserProfile)
		user.PATCH("/profile", userHandler.UpdateUserProfile)
		user.PATCH("/password", userHandler.ChangePassword)
		user.DELETE("", userHandler.DeleteAccount)
	}

	router.GET("/preferences", prefsHandler.GetPreferences)
	router.PUT("/preferences", prefsHandler.UpdatePreferences)

	return router
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("server listening", zap.String("addr", addr), zap.String("environment", s.cfg.Server.Environment))

	select {
	case err := <-errCh:
		if err != nil {
			return oops.Code("LISTEN_FAILED").With("addr", addr).Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.With("operation", "shutdown").Wrap(err)
	}
	return nil
}

// Close releases the rate limiter, the cache and the database pool.
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Close()
	}
	var errs []error
	if s.cache != nil {
		errs = append(errs, s.cache.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
