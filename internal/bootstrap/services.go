package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/RikVoorhaar/routing-game-sub002/config"
	"github.com/RikVoorhaar/routing-game-sub002/internal/adapters/jobgen"
	"github.com/RikVoorhaar/routing-game-sub002/internal/adapters/routing"
	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/data"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/upgrade"
	"github.com/RikVoorhaar/routing-game-sub002/internal/eligibility"
	"github.com/RikVoorhaar/routing-game-sub002/internal/observability/statsd"
	"github.com/RikVoorhaar/routing-game-sub002/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	GameStates  *service.GameStateService
	JobQueries  *service.JobQueryService
	ActiveJobs  *service.ActiveJobService
	Completions *service.CompletionService
	Purchases   *service.PurchaseService
	RoutePlans  *service.RoutePlanService

	CacheRepo *data.RedisCacheRepo
	// Metrics owns the StatsD connection; callers close it on shutdown.
	Metrics *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
	Metrics     statsd.Sink
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	GameStateRepo *data.GameStateRepo
	EmployeeRepo  *data.EmployeeRepo
	JobRepo       *data.JobRepo
	ActiveJobRepo *data.ActiveJobRepo
	CacheRepo     *data.RedisCacheRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient, logger *slog.Logger) *serviceRepositories {
	repos := &serviceRepositories{
		GameStateRepo: data.NewGameStateRepo(db, logger),
		EmployeeRepo:  data.NewEmployeeRepo(db),
		JobRepo:       data.NewJobRepo(db, logger),
		ActiveJobRepo: data.NewActiveJobRepo(db, logger),
	}
	if redisClient != nil {
		repos.CacheRepo = data.NewRedisCacheRepo(redisClient)
	}
	return repos
}

// InitServices wires repositories, adapters, and services from configuration.
func InitServices(deps ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
		cfg.Sanitize()
	}

	repos := buildRepositories(deps.DB, deps.RedisClient, logger)

	catalog, err := upgrade.LoadDefault()
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("load upgrade catalog: %w", err)
	}

	sink, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Metrics.Enabled,
		Address: cfg.Metrics.Address,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build statsd client: %w", err)
	}

	planner, err := routing.NewClient(routing.Config{
		BaseURL: cfg.Routing.BaseURL,
		Timeout: cfg.Routing.Timeout,
	}, logger)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build routing client: %w", err)
	}

	// Two cache tiers: a per-process traveler tier and, when Redis is
	// available, a shared tier all processes read through.
	traveler := core.NewMemoryRouteCache(cfg.RouteCache.TravelerTTL)
	var shared core.RouteCache
	if repos.CacheRepo != nil {
		shared = core.NewKVRouteCache(repos.CacheRepo, cfg.RouteCache.SharedTTL)
	}

	factors := cfg.Reward.Factors()

	routePlans := service.NewRoutePlanService(service.RoutePlanServiceOptions{
		Planner:  planner,
		Traveler: traveler,
		Shared:   shared,
		Config: service.RoutePlanConfig{
			PlanTimeout: cfg.Routing.Timeout,
			Factors:     factors,
		},
		Logger:  logger,
		Metrics: sink,
	})

	activeJobs := service.NewActiveJobService(service.ActiveJobServiceOptions{
		Repos: service.ActiveJobRepos{
			GameStates: repos.GameStateRepo,
			Employees:  repos.EmployeeRepo,
			Jobs:       repos.JobRepo,
			ActiveJobs: repos.ActiveJobRepo,
		},
		Eligibility: eligibility.NewChecker(eligibility.NewStaticTable()),
		Routes:      routePlans,
		Logger:      logger,
	})

	completions := service.NewCompletionService(service.CompletionServiceOptions{
		Repos: service.CompletionRepos{
			GameStates: repos.GameStateRepo,
			Employees:  repos.EmployeeRepo,
			Jobs:       repos.JobRepo,
			ActiveJobs: repos.ActiveJobRepo,
		},
		Config: service.CompletionConfig{
			Factors:        factors,
			MaxConcurrency: cfg.Completion.MaxConcurrency,
		},
		Logger:  logger,
		Metrics: sink,
	})

	return ServiceContainer{
		GameStates: service.NewGameStateService(service.GameStateServiceOptions{
			GameStates: repos.GameStateRepo,
			Employees:  repos.EmployeeRepo,
			Logger:     logger,
		}),
		JobQueries: service.NewJobQueryService(service.JobQueryServiceOptions{
			Jobs:      repos.JobRepo,
			Employees: repos.EmployeeRepo,
			Logger:    logger,
		}),
		ActiveJobs:  activeJobs,
		Completions: completions,
		Purchases: service.NewPurchaseService(service.PurchaseServiceOptions{
			GameStates: repos.GameStateRepo,
			Catalog:    catalog,
			Logger:     logger,
		}),
		RoutePlans: routePlans,
		CacheRepo:  repos.CacheRepo,
		Metrics:    sink,
	}, nil
}

// BuildJobGenRunner constructs the background job generator from configuration.
func BuildJobGenRunner(deps ServiceDeps) (*jobgen.Runner, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		return nil, fmt.Errorf("job generator requires configuration")
	}

	generator := jobgen.NewGenerator(jobgen.GeneratorConfig{
		Region: geo.BoundingBox{
			South: cfg.JobGen.MinLat,
			West:  cfg.JobGen.MinLon,
			North: cfg.JobGen.MaxLat,
			East:  cfg.JobGen.MaxLon,
		},
		MaxTier: cfg.JobGen.MaxTier,
	})

	return jobgen.NewRunner(jobgen.RunnerOptions{
		Jobs:      data.NewJobRepo(deps.DB, logger),
		Generator: generator,
		Logger:    logger,
		Metrics:   deps.Metrics,
		Interval:  cfg.JobGen.Interval,
		BatchSize: cfg.JobGen.BatchSize,
		MaxJobAge: cfg.JobGen.MaxJobAge,
		Seed:      cfg.JobGen.Seed,
	})
}
