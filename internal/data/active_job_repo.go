package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/data/pgxutil"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// ActiveJobRepo persists in-progress assignments. The one-active-job-per-
// employee invariant lives in the active_jobs_employee_id_key unique index:
// two concurrent assigns for the same employee race at the database, and the
// loser surfaces as a Conflict via MapDBError.
type ActiveJobRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewActiveJobRepo creates a new ActiveJobRepo.
func NewActiveJobRepo(db *sql.DB, logger *slog.Logger) *ActiveJobRepo {
	return &ActiveJobRepo{DB: db, logger: logger}
}

const activeJobColumns = `
  id,
  employee_id,
  job_id,
  start_lat,
  start_lon,
  end_lat,
  end_lon,
  started_at,
  route,
  route_duration_ms,
  route_distance_m,
  created_at
`

func scanActiveJob(row rowScanner) (*model.ActiveJob, error) {
	var (
		a        model.ActiveJob
		routeRaw []byte
	)
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.JobID,
		&a.Start.Lat,
		&a.Start.Lon,
		&a.End.Lat,
		&a.End.Lon,
		&a.StartedAt,
		&routeRaw,
		&a.RouteDurationMS,
		&a.RouteDistanceM,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(routeRaw) > 0 {
		if err := json.Unmarshal(routeRaw, &a.Route); err != nil {
			return nil, fmt.Errorf("decode route column: %w", err)
		}
	}
	return &a, nil
}

// Create inserts a new assignment.
func (r *ActiveJobRepo) Create(ctx context.Context, active *model.ActiveJob) (*model.ActiveJob, error) {
	routeRaw, err := json.Marshal(active.Route)
	if err != nil {
		return nil, fmt.Errorf("encode route: %w", err)
	}

	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO active_jobs (
			id, employee_id, job_id,
			start_lat, start_lon, end_lat, end_lon,
			route, route_duration_ms, route_distance_m
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+activeJobColumns,
		active.ID, active.EmployeeID, active.JobID,
		active.Start.Lat, active.Start.Lon, active.End.Lat, active.End.Lon,
		routeRaw, active.RouteDurationMS, active.RouteDistanceM,
	)
	created, err := scanActiveJob(row)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "active job created",
			"active_job_id", created.ID,
			"employee_id", created.EmployeeID,
			"job_id", created.JobID,
		)
	}
	return created, nil
}

// GetByID fetches an assignment by id.
func (r *ActiveJobRepo) GetByID(ctx context.Context, id string) (*model.ActiveJob, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+activeJobColumns+` FROM active_jobs WHERE id = $1`, id)
	a, err := scanActiveJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("active job %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return a, nil
}

// GetByEmployee fetches the assignment for an employee, if any.
func (r *ActiveJobRepo) GetByEmployee(ctx context.Context, employeeID string) (*model.ActiveJob, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+activeJobColumns+` FROM active_jobs WHERE employee_id = $1`, employeeID)
	a, err := scanActiveJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("no active job for employee %s", employeeID)
		}
		return nil, apperrors.MapDBError(err)
	}
	return a, nil
}

// ListByGameState returns all assignments whose employees belong to the game state.
func (r *ActiveJobRepo) ListByGameState(ctx context.Context, gameStateID string) ([]*model.ActiveJob, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+qualifiedActiveJobColumns+`
		FROM active_jobs a
		JOIN employees e ON e.id = a.employee_id
		WHERE e.game_state_id = $1
		ORDER BY a.created_at`,
		gameStateID,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	defer rows.Close()

	out := []*model.ActiveJob{}
	for rows.Next() {
		a, scanErr := scanActiveJob(rows)
		if scanErr != nil {
			return nil, apperrors.MapDBError(scanErr)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

const qualifiedActiveJobColumns = `
  a.id, a.employee_id, a.job_id,
  a.start_lat, a.start_lon, a.end_lat, a.end_lon,
  a.started_at, a.route, a.route_duration_ms, a.route_distance_m, a.created_at
`

// Start sets started_at only when still null and returns the row either
// way. COALESCE keeps the first timestamp, so a repeated start is harmless
// and never resets elapsed-time calculations.
func (r *ActiveJobRepo) Start(ctx context.Context, id string, now time.Time) (*model.ActiveJob, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE active_jobs
		SET started_at = COALESCE(started_at, $2)
		WHERE id = $1
		RETURNING `+activeJobColumns,
		id, now,
	)
	a, err := scanActiveJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("active job %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return a, nil
}

// Delete removes an assignment without touching the economy record.
func (r *ActiveJobRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM active_jobs WHERE id = $1`, id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n == 0 {
		return apperrors.NotFoundf("active job %s not found", id)
	}
	return nil
}

// CompleteAndRelocate deletes the assignment and moves its employee to the
// destination as one transaction: either the employee arrives and the
// assignment is gone, or neither happened.
func (r *ActiveJobRepo) CompleteAndRelocate(
	ctx context.Context,
	id string,
	employeeID string,
	dest geo.Coordinate,
) error {
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			res, execErr := tx.ExecContext(ctx, `DELETE FROM active_jobs WHERE id = $1`, id)
			if execErr != nil {
				return execErr
			}
			n, raErr := res.RowsAffected()
			if raErr != nil {
				return raErr
			}
			if n == 0 {
				return apperrors.NotFoundf("active job %s not found", id)
			}

			_, execErr = tx.ExecContext(ctx, `
				UPDATE employees
				SET lat = $2, lon = $3, updated_at = now()
				WHERE id = $1`,
				employeeID, dest.Lat, dest.Lon,
			)
			return execErr
		},
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return err
		}
		return apperrors.MapDBError(err)
	}
	return nil
}

var _ core.ActiveJobRepository = (*ActiveJobRepo)(nil)
