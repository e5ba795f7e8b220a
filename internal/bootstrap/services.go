package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/ibmec/pict-api/config"
	"github.com/ibmec/pict-api/internal/adapters/identityrules"
	"github.com/ibmec/pict-api/internal/adapters/localfs"
	"github.com/ibmec/pict-api/internal/core"
	"github.com/ibmec/pict-api/internal/data"
	"github.com/ibmec/pict-api/internal/observability/metrics"
	"github.com/ibmec/pict-api/internal/ports"
	"github.com/ibmec/pict-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth       *service.AuthService
	Identities *service.IdentityService
	Projects   *service.ProjectService
	Documents  *service.DocumentService
	Activities *service.ActivityService
	Profiles   *service.ProfileService
	Settings   *service.SettingsService
	Metrics    *metrics.Metrics
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *pgxpool.Pool
	RedisClient redis.UniversalClient // optional
	Provider    ports.AuthProvider
	// Registerer receives the Prometheus collectors; nil disables metrics.
	Registerer prometheus.Registerer
	Logger     *slog.Logger
}

type serviceRepositories struct {
	students   *data.StudentRepo
	advisors   *data.AdvisorRepo
	admins     *data.AdminRepo
	projects   *data.ProjectRepo
	documents  *data.DocumentRepo
	comments   *data.CommentRepo
	activities *data.ActivityRepo
	cache      core.CacheRepository
}

func buildRepositories(db *pgxpool.Pool, redisClient redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{
		students:   data.NewStudentRepo(db),
		advisors:   data.NewAdvisorRepo(db),
		admins:     data.NewAdminRepo(db),
		projects:   data.NewProjectRepo(db),
		documents:  data.NewDocumentRepo(db),
		comments:   data.NewCommentRepo(db),
		activities: data.NewActivityRepo(db),
	}
	if redisClient != nil {
		repos.cache = data.NewRedisCacheRepo(redisClient)
	}
	return repos
}

func newDirectoryCache(cache core.CacheRepository, cfg config.CacheConfig) *core.AdvisorDirectoryCache {
	if cache == nil {
		return nil
	}
	return core.NewAdvisorDirectoryCache(core.AdvisorDirectoryCacheOptions{
		Cache:     cache,
		KeyPrefix: cfg.KeyPrefix,
		TTL:       cfg.AdvisorsTTL,
	})
}

// NewServices wires repositories, stores and services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database pool is required")
	}
	if deps.Provider == nil {
		return ServiceContainer{}, errors.New("auth provider is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var m *metrics.Metrics
	if deps.Registerer != nil {
		m = metrics.New(deps.Registerer)
	}

	files, err := localfs.NewFileStore(cfg.Storage.UploadsDir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("file store: %w", err)
	}
	settings, err := localfs.NewSettingsStore(cfg.Storage.DataDir)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("settings store: %w", err)
	}
	tokens, err := BuildTokenService(cfg.Auth.Session)
	if err != nil {
		return ServiceContainer{}, err
	}

	repos := buildRepositories(deps.DB, deps.RedisClient)
	directory := newDirectoryCache(repos.cache, cfg.Cache)

	identities := service.NewIdentityService(service.IdentityServiceOptions{
		Students:  repos.students,
		Advisors:  repos.advisors,
		Roles:     identityrules.New(cfg.Auth.Identity),
		Directory: directory,
		Metrics:   m,
		Logger:    logger,
	})

	return ServiceContainer{
		Identities: identities,
		Metrics:    m,
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Provider: deps.Provider,
			States: BuildStateStore(AuthConfig{
				Auth:        cfg.Auth,
				RedisClient: deps.RedisClient,
				KeyPrefix:   cfg.Cache.KeyPrefix,
				Logger:      logger,
			}),
			Identities:  identities,
			Tokens:      tokens,
			FrontendURL: cfg.HTTP.FrontendURL,
			StateTTL:    cfg.Auth.Session.StateTTL,
			Metrics:     m,
			Logger:      logger,
		}),
		Projects: service.NewProjectService(service.ProjectServiceOptions{
			Projects:  repos.projects,
			Advisors:  repos.advisors,
			Settings:  settings,
			Directory: directory,
			Metrics:   m,
			Logger:    logger,
		}),
		Documents: service.NewDocumentService(service.DocumentServiceOptions{
			Projects:   repos.projects,
			Documents:  repos.documents,
			Comments:   repos.comments,
			Activities: repos.activities,
			Files:      files,
			Metrics:    m,
			Logger:     logger,
		}),
		Activities: service.NewActivityService(service.ActivityServiceOptions{
			Projects:   repos.projects,
			Activities: repos.activities,
		}),
		Profiles: service.NewProfileService(service.ProfileServiceOptions{
			Students:  repos.students,
			Advisors:  repos.advisors,
			Admins:    repos.admins,
			Directory: directory,
			Logger:    logger,
		}),
		Settings: service.NewSettingsService(service.SettingsServiceOptions{
			Store:  settings,
			Files:  files,
			Logger: logger,
		}),
	}, nil
}
