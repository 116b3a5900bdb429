package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hexaboard_backend/internal/config"
	"hexaboard_backend/internal/controller"
	"hexaboard_backend/internal/repository"
	"hexaboard_backend/internal/service"
	"hexaboard_backend/pkg/database"
	"hexaboard_backend/pkg/logger"
	"hexaboard_backend/pkg/monitoring"
	"hexaboard_backend/pkg/security"
	"hexaboard_backend/pkg/tracing"

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
	user       *repository.UserRepository
	department *repository.DepartmentRepository
	course     *repository.CourseRepository
	assignment *repository.AssignmentRepository
	loginLog   *repository.LoginLogRepository
	chat       *repository.ChatRepository
	outbox     *repository.OutboxRepository
}

type services struct {
	auth         *service.AuthService
	department   *service.DepartmentService
	fresher      *service.FresherService
	course       *service.CourseService
	stats        *service.StatsService
	chatbot      *service.ChatbotService
	notification *service.NotificationService
	storage      service.StorageProvider
}

type controllers struct {
	auth       *controller.AuthController
	fresher    *controller.FresherController
	department *controller.DepartmentController
	course     *controller.CourseController
	chatbot    *controller.ChatbotController
	stats      *controller.StatsController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		department: repository.NewDepartmentRepository(db),
		course:     repository.NewCourseRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		loginLog:   repository.NewLoginLogRepository(db),
		chat:       repository.NewChatRepository(db, rdb),
		outbox:     repository.NewOutboxRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	storage, err := service.NewStorageProvider(cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	s.storage = storage

	mailer := service.NewSendGridMailer(cfg.Mail)
	s.notification = service.NewNotificationService(repos.outbox, mailer, cfg.Mail)

	s.auth = service.NewAuthService(repos.user, repos.loginLog, cfg)
	s.department = service.NewDepartmentService(repos.department, repos.user)
	s.fresher = service.NewFresherService(repos.user, s.department, s.notification)
	s.course = service.NewCourseService(repos.course, repos.assignment, repos.user)
	s.stats = service.NewStatsService(repos.user, repos.course, repos.assignment, repos.loginLog, rdb)

	ai := service.NewAIService(cfg.AI)
	s.chatbot = service.NewChatbotService(repos.chat, repos.course, repos.assignment, repos.user, repos.department, ai)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		fresher:    controller.NewFresherController(s.fresher, s.course, s.stats),
		department: controller.NewDepartmentController(s.department),
		course:     controller.NewCourseController(s.course, s.storage),
		chatbot:    controller.NewChatbotController(s.chatbot),
		stats:      controller.NewStatsController(s.stats),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	// Outbox dispatcher: drains queued mail every 30 seconds.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		for range ticker.C {
			s.notification.DispatchPending(20)
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("hexaboard", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

// ApplyConfig picks up the runtime-safe settings from a reloaded config.
func (a *App) ApplyConfig(newCfg *config.Config) {
	if a.services == nil {
		return
	}
	if newCfg.Mail.MaxAttempts > 0 {
		a.services.notification.MaxAttempts = newCfg.Mail.MaxAttempts
	}
	logger.Log.Info("configuration reloaded")
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

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

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
