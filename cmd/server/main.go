// Package main is the entry point for the College Match Hub API server.
//
// The service matches SEE graduates to +2 college programs: students record
// their subject marks, the service keeps an aggregate GPA, and the matching
// endpoints rank colleges by eligibility and preference fit.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure admission and catalog logic without external dependencies
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: PostgreSQL repositories, Redis cache, JWT tokens
// - Interface: HTTP REST API
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/unihub/college-match-hub/config"
	"github.com/unihub/college-match-hub/internal/application/command"
	"github.com/unihub/college-match-hub/internal/application/eventhandler"
	"github.com/unihub/college-match-hub/internal/application/query"
	"github.com/unihub/college-match-hub/internal/infrastructure/auth"
	"github.com/unihub/college-match-hub/internal/infrastructure/messaging"
	"github.com/unihub/college-match-hub/internal/infrastructure/persistence/postgres"
	"github.com/unihub/college-match-hub/internal/infrastructure/persistence/redis"
	httpserver "github.com/unihub/college-match-hub/internal/interface/http"
	"github.com/unihub/college-match-hub/internal/interface/http/handlers"
	"github.com/unihub/college-match-hub/pkg/logger"
	"github.com/unihub/college-match-hub/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	logOpts := logger.DefaultOptions()
	logOpts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		logOpts.Level = logger.LevelDebug
	}
	log := logger.New(logOpts)

	log.Info("starting College Match Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := retry.DoWithData(ctx, func(ctx context.Context) (*postgres.Connection, error) {
		return postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	}, retry.WithMaxAttempts(5))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.AutoMigrate {
		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations completed")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (optional catalog cache)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, catalog cache disabled", logger.Err(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	studentRepo := postgres.NewStudentRepository(dbConn)
	markRepo := postgres.NewMarkRepository(dbConn)
	collegeRepo := postgres.NewCollegeRepository(dbConn)
	courseRepo := postgres.NewCourseRepository(dbConn)

	// The matching queries read the whole catalog; route them through the
	// Redis snapshot when available.
	var collegeReader query.CollegeReader = collegeRepo
	var catalogCache *redis.CatalogCache
	if redisCache != nil {
		catalogCache = redis.NewCatalogCache(redisCache)
		collegeReader = redis.NewCachedCollegeReader(collegeRepo, catalogCache)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBus := messaging.NewEventBus(log)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close(context.Background())
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. AUTH
	// ─────────────────────────────────────────────────────────────────────────
	tokenService, err := auth.NewTokenService(auth.Config{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.Issuer,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	registerCmd := command.NewRegisterStudentHandler(studentRepo, eventBus)
	loginCmd := command.NewLoginHandler(studentRepo, tokenService)
	refreshCmd := command.NewRefreshTokenHandler(studentRepo, tokenService)
	logoutCmd := command.NewLogoutHandler(studentRepo)
	updateProfileCmd := command.NewUpdateProfileHandler(studentRepo, eventBus)
	updatePrefsCmd := command.NewUpdatePreferencesHandler(studentRepo, eventBus)
	recordMarkCmd := command.NewRecordMarkHandler(studentRepo, markRepo, eventBus)
	retractMarkCmd := command.NewRetractMarkHandler(markRepo, eventBus)
	recomputeGPACmd := command.NewRecomputeGPAHandler(studentRepo, eventBus)
	manageCatalogCmd := command.NewManageCatalogHandler(collegeRepo, courseRepo, eventBus)

	searchQuery := query.NewSearchCollegesHandler(collegeReader, studentRepo)
	recommendationsQuery := query.NewGetRecommendationsHandler(collegeReader, studentRepo)
	summaryQuery := query.NewGetAcademicSummaryHandler(studentRepo)
	profileQuery := query.NewGetStudentProfileHandler(studentRepo)
	listCollegesQuery := query.NewListCollegesHandler(collegeRepo)
	getCollegeQuery := query.NewGetCollegeHandler(collegeRepo)
	listCoursesQuery := query.NewListCoursesHandler(courseRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event handlers...")

	markChanged := eventhandler.NewOnMarkChangedHandler(recomputeGPACmd, log)
	for _, et := range markChanged.EventTypes() {
		if err := eventBus.Subscribe(et, markChanged.Handle); err != nil {
			return fmt.Errorf("failed to subscribe mark handler: %w", err)
		}
	}

	if catalogCache != nil {
		catalogChanged := eventhandler.NewOnCatalogChangedHandler(catalogCache, log)
		for _, et := range catalogChanged.EventTypes() {
			if err := eventBus.Subscribe(et, catalogChanged.Handle); err != nil {
				return fmt.Errorf("failed to subscribe catalog handler: %w", err)
			}
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
	if redisCache != nil {
		healthChecker.AddCheck("cache", handlers.NewCacheCheck(redisCache))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 12. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	httpDeps := httpserver.Dependencies{
		RegisterStudent:   registerCmd,
		Login:             loginCmd,
		RefreshToken:      refreshCmd,
		Logout:            logoutCmd,
		UpdateProfile:     updateProfileCmd,
		UpdatePreferences: updatePrefsCmd,
		RecordMark:        recordMarkCmd,
		RetractMark:       retractMarkCmd,
		RecomputeGPA:      recomputeGPACmd,
		ManageCatalog:     manageCatalogCmd,

		SearchColleges:     searchQuery,
		GetRecommendations: recommendationsQuery,
		GetAcademicSummary: summaryQuery,
		GetStudentProfile:  profileQuery,
		ListColleges:       listCollegesQuery,
		GetCollege:         getCollegeQuery,
		ListCourses:        listCoursesQuery,

		TokenVerifier: tokenService,
		Logger:        log,
		HealthChecker: healthChecker,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 13. START
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", logger.String("address", httpServer.Address()))
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("College Match Hub is running", logger.String("http_address", httpServer.Address()))

	// ─────────────────────────────────────────────────────────────────────────
	// 14. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	}

	log.Info("starting graceful shutdown...", logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	// Event bus and connections close via defers.
	log.Info("shutdown completed")
	return nil
}
