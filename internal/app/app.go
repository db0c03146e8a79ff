package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/controller"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/service"
	"skillswap_backend/pkg/database"
	"skillswap_backend/pkg/logger"
	"skillswap_backend/pkg/monitoring"
	"skillswap_backend/pkg/security"
	"skillswap_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user          *repository.UserRepository
	skill         *repository.SkillRepository
	exchange      *repository.ExchangeRepository
	session       *repository.SessionRepository
	review        *repository.ReviewRepository
	activity      *repository.ActivityRepository
	directMessage *repository.DirectMessageRepository
}

type services struct {
	user       *service.UserService
	skill      *service.SkillService
	activity   *service.ActivityService
	review     *service.ReviewService
	match      *service.MatchService
	exchange   *service.ExchangeService
	session    *service.SessionService
	sessionHub *service.SessionHub
}

type controllers struct {
	user     *controller.UserController
	skill    *controller.SkillController
	match    *controller.MatchController
	exchange *controller.ExchangeController
	session  *controller.SessionController
	review   *controller.ReviewController
	realtime *controller.RealtimeController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		skill:         repository.NewSkillRepository(db),
		exchange:      repository.NewExchangeRepository(db),
		session:       repository.NewSessionRepository(db),
		review:        repository.NewReviewRepository(db),
		activity:      repository.NewActivityRepository(db),
		directMessage: repository.NewDirectMessageRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.user = service.NewUserService(repos.user)
	s.skill = service.NewSkillService(repos.skill)
	s.activity = service.NewActivityService(repos.activity, repos.user)
	s.review = service.NewReviewService(repos.review, repos.exchange)
	s.match = service.NewMatchService(repos.skill, repos.user, s.review)
	s.exchange = service.NewExchangeService(repos.exchange, repos.skill, s.activity, cfg.Exchange.DefaultTotalSessions)
	s.session = service.NewSessionService(repos.session, s.exchange)

	s.sessionHub = service.NewSessionHub(rdb, repos.session, repos.directMessage, repos.user)
	go s.sessionHub.Run()

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		user:     controller.NewUserController(s.user, s.activity),
		skill:    controller.NewSkillController(s.skill),
		match:    controller.NewMatchController(s.match),
		exchange: controller.NewExchangeController(s.exchange),
		session:  controller.NewSessionController(s.session),
		review:   controller.NewReviewController(s.review),
		realtime: controller.NewRealtimeController(s.sessionHub, repos.directMessage),
		health:   controller.NewHealthController(db),
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
	logger.InitLogger(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("skillswap-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// ApplyConfig 热更新可以安全动态调整的配置项，其余字段重启后生效
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config.Exchange = cfg.Exchange
	a.Config.RateLimit = cfg.RateLimit

	if a.services != nil && a.services.exchange != nil && cfg.Exchange.DefaultTotalSessions > 0 {
		a.services.exchange.DefaultTotalSessions = cfg.Exchange.DefaultTotalSessions
	}

	logger.Log.Info("Configuration reloaded",
		zap.Int("defaultTotalSessions", cfg.Exchange.DefaultTotalSessions))
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

	// 清理 WebSocket连接和Redis在线状态
	if a.services != nil && a.services.sessionHub != nil {
		a.services.sessionHub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
