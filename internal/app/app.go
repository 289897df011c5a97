package app

import (
	"context"
	"log"
	"net/http"
	"nudo_backend/internal/config"
	"nudo_backend/internal/controller"
	"nudo_backend/internal/repository"
	"nudo_backend/internal/service"
	"nudo_backend/internal/util"
	"nudo_backend/pkg/database"
	"nudo_backend/pkg/logger"
	"nudo_backend/pkg/monitoring"
	"nudo_backend/pkg/security"
	"nudo_backend/pkg/tracing"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	zone       *repository.ZoneRepository
	session    *repository.SessionRepository
	weeklyStat *repository.WeeklyStatRepository
}

type services struct {
	storage     *service.StorageService
	user        *service.UserService
	zone        *service.ZoneService
	session     *service.SessionService
	leaderboard *service.LeaderboardService
	trophy      *service.TrophyService
}

type controllers struct {
	user        *controller.UserController
	zone        *controller.ZoneController
	session     *controller.SessionController
	leaderboard *controller.LeaderboardController
	trophy      *controller.TrophyController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// OnConfigReload 配置热加载入口，由 pkg/configwatcher 触发
func (a *App) OnConfigReload(cfg *config.Config) {
	logger.Log.Info("Config reloaded")
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		zone:       repository.NewZoneRepository(db),
		session:    repository.NewSessionRepository(db),
		weeklyStat: repository.NewWeeklyStatRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	loc, err := time.LoadLocation(cfg.Season.Timezone)
	if err != nil {
		// LoadConfig 已校验过，到这里属于程序错误
		logger.Log.Fatal("Invalid season timezone", zap.Error(err))
	}
	weekStartsOn := util.ParseWeekStartsOn(cfg.Season.WeekStartsOn)

	s := &services{}
	s.storage = service.NewStorageService(cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.zone = service.NewZoneService(repos.zone)
	s.session = service.NewSessionService(repos.session, repos.zone, repos.user, repos.weeklyStat, rdb, loc, weekStartsOn)
	s.leaderboard = service.NewLeaderboardService(repos.weeklyStat, repos.user, rdb, loc, weekStartsOn)
	s.trophy = service.NewTrophyService(repos.session, repos.zone, cfg.Season.AcademicWindows, loc)
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		user:        controller.NewUserController(s.user),
		zone:        controller.NewZoneController(s.zone, a.Config),
		session:     controller.NewSessionController(s.session),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		trophy:      controller.NewTrophyController(s.trophy),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	service.SetWeeklyCap(cfg.Scoring.WeeklyCapMinutes)

	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 排行榜缓存可降级，Redis 不可用不阻塞启动
		logger.Log.Warn("Failed to initialize redis, leaderboard cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("nudo-api", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 计分上限支持热加载，窗口/时区调整需要重启
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		service.SetWeeklyCap(newCfg.Scoring.WeeklyCapMinutes)
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
