package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/config"
	blogHandler "realestate-backend/internal/domains/blog/handler"
	blogRepo "realestate-backend/internal/domains/blog/repository"
	blogService "realestate-backend/internal/domains/blog/service"
	clientHandler "realestate-backend/internal/domains/client/handler"
	clientRepo "realestate-backend/internal/domains/client/repository"
	clientService "realestate-backend/internal/domains/client/service"
	leadHandler "realestate-backend/internal/domains/lead/handler"
	leadRepo "realestate-backend/internal/domains/lead/repository"
	leadService "realestate-backend/internal/domains/lead/service"
	userHandler "realestate-backend/internal/domains/user/handler"
	userRepo "realestate-backend/internal/domains/user/repository"
	userService "realestate-backend/internal/domains/user/service"
	infraCache "realestate-backend/internal/infrastructure/cache"
	"realestate-backend/internal/infrastructure/database"
	"realestate-backend/internal/infrastructure/queue"
	"realestate-backend/internal/infrastructure/storage"
	"realestate-backend/pkg/cache"
	"realestate-backend/pkg/jwt"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the API process. Build order is
// config, infrastructure, repositories, services, handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	Revocations *jwt.RevocationStore
	AsynqClient *asynq.Client
	Enqueuer    queue.Enqueuer
	Storage     storage.ObjectStorage
	Images      *storage.ImageProcessor

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo   userRepo.Repository
	LeadRepo   leadRepo.Repository
	ClientRepo clientRepo.Repository
	BlogRepo   blogRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService   userService.Service
	LeadService   leadService.Service
	ClientService clientService.Service
	BlogService   blogService.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler   *userHandler.UserHandler
	LeadHandler   *leadHandler.LeadHandler
	ClientHandler *clientHandler.ClientHandler
	BlogHandler   *blogHandler.BlogHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	db := database.NewPostgresDB(cfg.Database.DBConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 2: REDIS (cache, revocations, rate limits)
	// ========================================
	c.Redis = infraCache.NewRedisClient(cfg.Redis)
	if err := c.Redis.Connect(ctx); err != nil {
		// Cache reads and token revocation degrade gracefully without Redis.
		log.Warn().Err(err).Msg("Redis connection failed, continuing without cache")
	}
	c.Cache = infraCache.NewRedisCache(c.Redis.Client)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	c.Revocations = jwt.NewRevocationStore(c.Cache)

	// ========================================
	// STEP 3: BACKGROUND JOBS
	// ========================================
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	c.Enqueuer = queue.NewAsynqEnqueuer(c.AsynqClient)

	// ========================================
	// STEP 4: OBJECT STORAGE
	// ========================================
	store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = store
	c.Images = storage.NewImageProcessor()

	// ========================================
	// STEP 5: DOMAINS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.LeadRepo = leadRepo.NewPostgresRepository(pool)
	c.ClientRepo = clientRepo.NewPostgresRepository(pool)
	c.BlogRepo = blogRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.Cache, c.JWTManager, c.Revocations, c.Enqueuer)
	c.LeadService = leadService.NewLeadService(c.LeadRepo, c.Enqueuer, c.Config.Import.MaxRows)
	c.ClientService = clientService.NewClientService(c.ClientRepo, c.Config.Import.MaxRows)
	c.BlogService = blogService.NewBlogService(c.BlogRepo, c.Cache, c.Storage, c.Images, c.Enqueuer)
}

func (c *Container) initHandlers() {
	locale := c.Config.App.DisplayLocale

	c.UserHandler = userHandler.NewUserHandler(c.UserService, userHandler.Options{
		Locale:       locale,
		CookieSecure: c.Config.JWT.CookieSecure,
		AccessTTL:    c.Config.JWT.AccessTokenExpiry,
		RefreshTTL:   c.Config.JWT.RefreshTokenExpiry,
	})
	c.LeadHandler = leadHandler.NewLeadHandler(c.LeadService, locale, c.Config.Import.MaxFileBytes)
	c.ClientHandler = clientHandler.NewClientHandler(c.ClientService, locale, c.Config.Import.MaxFileBytes)
	c.BlogHandler = blogHandler.NewBlogHandler(c.BlogService, locale)
}

// Cleanup releases connections during graceful shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}

	log.Info().Msg("Container cleanup completed")
}
