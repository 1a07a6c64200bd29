package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"skillup_backend/internal/config"
	"skillup_backend/internal/controller"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/service"
	"skillup_backend/pkg/configwatcher"
	"skillup_backend/pkg/database"
	"skillup_backend/pkg/logger"
	"skillup_backend/pkg/monitoring"
	"skillup_backend/pkg/security"
	"skillup_backend/pkg/seed"
	"skillup_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	limiters        []*security.Limiter
	stop            chan struct{}
	configCallbacks []func(*config.Config)
}

type repositories struct {
	course      *repository.CourseRepository
	learner     *repository.LearnerRepository
	enrollment  *repository.EnrollmentRepository
	certificate *repository.CertificateRepository
}

type services struct {
	catalog     *service.CatalogService
	learner     *service.LearnerService
	enrollment  *service.EnrollmentService
	certificate *service.CertificateService
	storage     *service.StorageService
}

type controllers struct {
	course      *controller.CourseController
	learner     *controller.LearnerController
	enrollment  *controller.EnrollmentController
	certificate *controller.CertificateController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) courseCache(rdb *redis.Client) repository.CourseCache {
	if rdb != nil {
		return repository.NewRedisCourseCache(rdb, a.Config.Catalog.CacheTTL())
	}
	return repository.NewMemoryCourseCache()
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		course:      repository.NewCourseRepository(db, a.courseCache(rdb)),
		learner:     repository.NewLearnerRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		certificate: repository.NewCertificateRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	catalog := service.NewCatalogService(repos.course)
	storage := service.NewStorageService(cfg)

	return &services{
		catalog:    catalog,
		learner:    service.NewLearnerService(repos.learner),
		enrollment: service.NewEnrollmentService(repos.enrollment, catalog),
		certificate: service.NewCertificateService(
			db,
			repos.certificate,
			repos.enrollment,
			repos.learner,
			catalog,
			storage,
			service.NewPNGQRRenderer(256),
			cfg.Certificate,
		),
		storage: storage,
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		course:      controller.NewCourseController(s.catalog),
		learner:     controller.NewLearnerController(s.learner),
		enrollment:  controller.NewEnrollmentController(s.enrollment),
		certificate: controller.NewCertificateController(s.certificate),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) newLimiter(maxRequests int) *security.Limiter {
	window := time.Duration(a.Config.RateLimit.WindowMinutes) * time.Minute
	l := security.NewLimiter(maxRequests, window)
	a.limiters = append(a.limiters, l)
	return l
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.newLimiter(cfg.RateLimit.MaxRequests).Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// importCourses 启动时导入课程目录，已存在的课程不覆盖
func (a *App) importCourses(s *services) {
	dir := a.Config.SeedDir
	if dir == "" {
		dir = a.Config.Catalog.SeedDir
	}
	if dir == "" {
		return
	}

	courses, err := seed.LoadCourses(dir)
	if err != nil {
		logger.Log.Error("Failed to load course definitions", zap.String("dir", dir), zap.Error(err))
		return
	}
	imported, err := s.catalog.Import(context.Background(), courses)
	if err != nil {
		logger.Log.Error("Failed to import courses", zap.Error(err))
		return
	}
	logger.Log.Info("Courses imported", zap.Int("imported", imported), zap.Int("total", len(courses)))
}

func (a *App) startBackgroundTasks(s *services) {
	interval := time.Duration(a.Config.Certificate.ReconcileIntervalSeconds) * time.Second
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-a.stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				repaired, err := s.certificate.ReconcileOrphans(ctx)
				cancel()
				if err != nil {
					logger.Log.Error("certificate reconcile error", zap.Error(err))
					continue
				}
				if repaired > 0 {
					logger.Log.Info("certificate reconcile finished", zap.Int("repaired", repaired))
				}
			}
		}
	}()
}

func (a *App) watchConfig() {
	if a.ConfigDir == "" {
		return
	}
	path := filepath.Join(a.ConfigDir, "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return
	}

	a.RegisterConfigCallback(func(cfg *config.Config) {
		logger.SetLevel(cfg.Server.Mode)
		logger.Log.Info("Log level updated", zap.String("mode", cfg.Server.Mode))
	})

	go func() {
		err := configwatcher.WatchConfig(path, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		}, a.stop)
		if err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		DB:        db,
		stop:      make(chan struct{}),
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 课程缓存退化为进程内缓存
		logger.Log.Warn("Redis unavailable, using in-memory course cache", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, db)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("skillup-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.importCourses(services)
	app.startBackgroundTasks(services)
	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	close(a.stop)
	for _, l := range a.limiters {
		l.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
