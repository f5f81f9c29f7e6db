// Package store assembles the draft and session repositories selected by configuration.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/survey-portal/internal/cache"
	"github.com/SAP-F-2025/survey-portal/internal/config"
	"github.com/SAP-F-2025/survey-portal/internal/repositories"
	"github.com/SAP-F-2025/survey-portal/internal/repositories/memory"
	"github.com/SAP-F-2025/survey-portal/internal/repositories/postgres"
	"github.com/SAP-F-2025/survey-portal/internal/repositories/redisrepo"
)

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	DraftStore  string
	DraftTTL    time.Duration
	Logger      *slog.Logger
}

// PortalRepository implements the main Repository interface
type PortalRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	drafts   repositories.DraftRepository
	sessions repositories.SessionRepository
}

// NewPortalRepository wires the draft backend named by DraftStore. Sessions live
// in redis when a client is configured and in memory otherwise.
func NewPortalRepository(cfg RepositoryConfig) (*PortalRepository, error) {
	cacheManager := cache.NewCacheManager(cfg.RedisClient)
	repo := &PortalRepository{
		db:           cfg.DB,
		redisClient:  cfg.RedisClient,
		cacheManager: cacheManager,
	}

	switch cfg.DraftStore {
	case config.DraftStoreRedis:
		if cfg.RedisClient == nil {
			return nil, errors.New("redis draft store requires REDIS_URL")
		}
		repo.drafts = redisrepo.NewDraftRedis(cacheManager.Drafts, cfg.DraftTTL)
	case config.DraftStorePostgres:
		if cfg.DB == nil {
			return nil, errors.New("postgres draft store requires DATABASE_URL")
		}
		repo.drafts = postgres.NewDraftPostgreSQL(cfg.DB, cfg.DraftTTL)
	case config.DraftStoreMemory, "":
		repo.drafts = memory.NewDraftStore(cfg.DraftTTL)
	default:
		return nil, fmt.Errorf("unknown draft store %q", cfg.DraftStore)
	}

	if cfg.RedisClient != nil {
		repo.sessions = redisrepo.NewSessionRedis(cacheManager.Sessions)
	} else {
		repo.sessions = memory.NewSessionStore()
	}
	return repo, nil
}

func (r *PortalRepository) Drafts() repositories.DraftRepository {
	return r.drafts
}

func (r *PortalRepository) Sessions() repositories.SessionRepository {
	return r.sessions
}

// Cache exposes the cache helpers shared with the services
func (r *PortalRepository) Cache() *cache.CacheManager {
	return r.cacheManager
}

// Ping checks the health of database and cache connections
func (r *PortalRepository) Ping(ctx context.Context) error {
	if r.db != nil {
		sqlDB, err := r.db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}
	return nil
}

// Close closes all connections
func (r *PortalRepository) Close() error {
	if r.db != nil {
		sqlDB, err := r.db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}
	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   *PortalRepository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(cfg RepositoryConfig) *RepositoryManager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &RepositoryManager{config: cfg}
}

// Initialize tests the connections and prepares the selected draft backend
func (rm *RepositoryManager) Initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if rm.config.DB != nil {
		sqlDB, err := rm.config.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
	}

	repo, err := NewPortalRepository(rm.config)
	if err != nil {
		return err
	}

	if drafts, ok := repo.drafts.(*postgres.DraftPostgreSQL); ok {
		if err := drafts.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate drafts table: %w", err)
		}
		purged, err := drafts.PurgeExpired(ctx)
		if err != nil {
			rm.config.Logger.Warn("Failed to purge expired drafts", "error", err)
		} else if purged > 0 {
			rm.config.Logger.Info("Purged expired drafts", "count", purged)
		}
	}

	rm.repo = repo
	rm.config.Logger.Info("Repositories initialized",
		"draft_store", rm.config.DraftStore,
		"redis", rm.config.RedisClient != nil,
		"database", rm.config.DB != nil)
	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// Portal returns the concrete repository, including the cache helpers
func (rm *RepositoryManager) Portal() *PortalRepository {
	return rm.repo
}

// HealthCheck performs health check on all repositories
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return errors.New("repository not initialized")
	}
	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repositories
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- rm.repo.Close() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
