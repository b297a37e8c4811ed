package repositories

import (
	"taskdeck/internal/core/ports"
	"taskdeck/internal/infrastructure/repositories/memory"
	redisrepo "taskdeck/internal/infrastructure/repositories/redis"
	"taskdeck/pkg/cache"
	"taskdeck/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory creates repositories with fallback support
type RepositoryFactory struct {
	useRedis     bool
	redisClient  *redis.Client
	projectCache *cache.Cache
	logger       *zap.SugaredLogger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		useRedis: cfg.Redis.Enabled,
		logger:   logger,
	}

	if cfg.Redis.Enabled {
		client, err := redisrepo.NewRedisClient(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory repositories",
				"error", err,
			)
			factory.useRedis = false
		} else {
			factory.redisClient = client
			logger.Info("using Redis repositories")
		}
	}

	if !factory.useRedis {
		logger.Info("using memory repositories")
	}

	if cfg.Cache.Enabled {
		factory.projectCache = cache.NewCache(cfg.Cache.ProjectTTL)
	}

	return factory, nil
}

// CreateProjectRepository creates a project repository. The membership check
// reads the project on every guarded request, so reads go through a
// short-lived cache when enabled.
func (f *RepositoryFactory) CreateProjectRepository() ports.ProjectRepository {
	var repo ports.ProjectRepository
	if f.useRedis && f.redisClient != nil {
		repo = redisrepo.NewRedisProjectRepository(f.redisClient)
	} else {
		repo = memory.NewMemoryProjectRepository()
	}
	if f.projectCache != nil {
		repo = NewCachedProjectRepository(repo, f.projectCache)
	}
	return repo
}

func (f *RepositoryFactory) CreateBoardRepository() ports.BoardRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisBoardRepository(f.redisClient)
	}
	return memory.NewMemoryBoardRepository()
}

func (f *RepositoryFactory) CreateTaskRepository() ports.TaskRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisTaskRepository(f.redisClient)
	}
	return memory.NewMemoryTaskRepository()
}

func (f *RepositoryFactory) CreateCommentRepository() ports.CommentRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisCommentRepository(f.redisClient)
	}
	return memory.NewMemoryCommentRepository()
}

func (f *RepositoryFactory) CreateSubtaskRepository() ports.SubtaskRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisSubtaskRepository(f.redisClient)
	}
	return memory.NewMemorySubtaskRepository()
}

func (f *RepositoryFactory) CreateUserRepository() ports.UserRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisUserRepository(f.redisClient)
	}
	return memory.NewMemoryUserRepository()
}

func (f *RepositoryFactory) CreateNotificationRepository() ports.NotificationRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisNotificationRepository(f.redisClient)
	}
	return memory.NewMemoryNotificationRepository()
}

// RedisClient exposes the shared client for health checks. Nil when the
// factory is backed by the in-memory store.
func (f *RepositoryFactory) RedisClient() *redis.Client {
	if !f.useRedis {
		return nil
	}
	return f.redisClient
}

// Close closes the Redis connection and stops the read cache.
func (f *RepositoryFactory) Close() error {
	if f.projectCache != nil {
		f.projectCache.Stop()
	}
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	return nil
}
