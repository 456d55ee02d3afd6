package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/gatherly/server/cmd/server/docs" // swagger docs
	"github.com/gatherly/server/internal/module/auth"
	"github.com/gatherly/server/internal/module/event"
	sharedcache "github.com/gatherly/server/internal/shared/cache"
	"github.com/gatherly/server/internal/shared/config"
	"github.com/gatherly/server/internal/shared/database"
	"github.com/gatherly/server/internal/shared/events"
	"github.com/gatherly/server/internal/shared/logger"
	"github.com/gatherly/server/internal/shared/middleware"
	"github.com/gatherly/server/internal/utils/metrics"
)

// App represents the application.
type App struct {
	config    *config.Config
	db        *gorm.DB
	redis     redis.UniversalClient
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger

	eventBus *events.Bus
	metrics  *metrics.Metrics

	authHandler  *auth.Handler
	authService  *auth.Service
	eventHandler *event.Handler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New("gatherly"),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrate(&auth.User{}, &event.Event{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	app.db = db

	// Redis is optional; without it login throttling is disabled.
	if cfg.Redis.Address != "" {
		redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("redis connection failed, login throttling disabled", logger.Err(err))
		} else {
			app.redis = redisClient
		}
	}

	app.router = app.setupRouter()

	if err := app.initModules(); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	app.registerRoutes()

	return app, nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Metrics(a.metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// initModules initializes all application modules.
func (a *App) initModules() error {
	a.eventBus = events.NewBus(a.zapLogger)
	a.registerEventHandlers()

	if err := a.initAuthModule(); err != nil {
		return fmt.Errorf("init auth module: %w", err)
	}
	if err := a.initEventModule(); err != nil {
		return fmt.Errorf("init event module: %w", err)
	}

	return nil
}

// registerEventHandlers subscribes the metrics recorder to the domain
// events.
func (a *App) registerEventHandlers() {
	a.eventBus.Register(events.NewHandlerFunc(
		[]string{
			events.AttendeeInvitedType,
			events.CollaboratorInvitedType,
			events.AttendeeRespondedType,
			events.CollaboratorRespondedType,
		},
		func(e events.Event) error {
			switch ev := e.(type) {
			case *events.AttendeeInvitedEvent:
				a.metrics.RecordInvitations("attendee", ev.Invited)
			case *events.CollaboratorInvitedEvent:
				a.metrics.RecordInvitations("collaborator", ev.Invited)
			case *events.AttendeeRespondedEvent:
				a.metrics.RecordResponse("attendee", ev.Status)
			case *events.CollaboratorRespondedEvent:
				a.metrics.RecordResponse("collaborator", ev.Status)
			}
			return nil
		},
	))
}

// initAuthModule initializes the auth module.
func (a *App) initAuthModule() error {
	userRepo := auth.NewRepository(a.db)

	jwtManager := auth.NewJWTManager(&auth.JWTConfig{
		Secret:      a.config.Auth.JWTSecret,
		TokenExpiry: a.config.Auth.TokenExpiry,
		Issuer:      "gatherly",
	})

	a.authService = auth.NewService(userRepo, jwtManager, a.zapLogger, a.metrics)

	var limiter *auth.LoginLimiter
	if a.redis != nil {
		limiter = auth.NewLoginLimiter(a.redis, a.config.Auth.LoginRateLimit, a.config.Auth.LoginRateWindow)
	}

	a.authHandler = auth.NewHandler(a.authService, limiter, a.zapLogger)
	return nil
}

// initEventModule initializes the event module.
func (a *App) initEventModule() error {
	eventRepo := event.NewRepository(a.db)
	userRepo := auth.NewRepository(a.db)

	eventService := event.NewService(eventRepo, userRepo, a.eventBus, a.zapLogger)
	a.eventHandler = event.NewHandler(eventService)
	return nil
}

// registerRoutes registers routes for all modules.
func (a *App) registerRoutes() {
	v1 := a.router.Group("/api/v1")

	// Public routes
	publicRouter := v1.Group("")
	a.authHandler.RegisterRoutes(publicRouter)

	// Protected routes
	protectedRouter := v1.Group("")
	protectedRouter.Use(a.authHandler.AuthMiddleware())
	a.authHandler.RegisterProtectedRoutes(protectedRouter)
	a.eventHandler.RegisterRoutes(protectedRouter)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop stops the application and releases resources.
func (a *App) Stop() {
	if a.zapLogger != nil {
		_ = a.zapLogger.Sync()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = database.Close(a.db)
	}
}
