package httpx

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	GameStates  StateReader
	JobQueries  JobQuerier
	ActiveJobs  ActiveJobManager
	Completions Completer
	Purchases   Purchaser

	// Health-check dependencies
	DB    *sql.DB
	Cache core.CacheRepository

	Logger *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{Svc: services.JobQueries, Logger: logger}
	activeHandlers := &ActiveJobHandlers{
		Jobs:        services.ActiveJobs,
		Completions: services.Completions,
		States:      services.GameStates,
		Logger:      logger,
	}
	stateHandlers := &GameStateHandlers{
		States:    services.GameStates,
		Purchases: services.Purchases,
		Logger:    logger,
	}
	healthHandlers := &HealthHandlers{DB: services.DB, Cache: services.Cache, Logger: logger}

	mux.HandleFunc("GET /healthz", healthHandlers.Health)
	mux.HandleFunc("HEAD /healthz", healthHandlers.Health)

	mux.HandleFunc("GET /api/jobs/tile/{z}/{x}/{y}", jobHandlers.TileJobs)
	mux.HandleFunc("GET /api/employees/{id}/jobs/nearest", jobHandlers.NearestJobs)

	mux.HandleFunc("POST /api/employees/{id}/active-job", activeHandlers.Assign)
	mux.HandleFunc("POST /api/active-jobs/{id}/start", activeHandlers.Start)
	mux.HandleFunc("POST /api/active-jobs/{id}/complete", activeHandlers.Complete)
	mux.HandleFunc("DELETE /api/active-jobs/{id}", activeHandlers.Cancel)

	mux.HandleFunc("GET /api/game-states/{id}", stateHandlers.Get)
	mux.HandleFunc("GET /api/game-states/{id}/employees", stateHandlers.Employees)
	mux.HandleFunc("GET /api/game-states/{id}/active-jobs", activeHandlers.ListByGameState)
	mux.HandleFunc("POST /api/game-states/{id}/complete-all", activeHandlers.CompleteAll)

	mux.HandleFunc("GET /api/upgrades", stateHandlers.Catalog)
	mux.HandleFunc("POST /api/game-states/{id}/upgrades", stateHandlers.Purchase)

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
