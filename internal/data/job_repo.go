package data

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

const defaultJobQueryLimit = 50

// JobRepo provides read access to generated jobs plus the insert/prune
// operations used by the job generator.
type JobRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *sql.DB, logger *slog.Logger) *JobRepo {
	return &JobRepo{DB: db, logger: logger}
}

const jobColumns = `
  id,
  lat,
  lon,
  category,
  tier,
  reward_basis::float8,
  distance_m,
  created_at
`

func scanJob(row rowScanner) (*model.Job, error) {
	var j model.Job
	err := row.Scan(
		&j.ID,
		&j.Location.Lat,
		&j.Location.Lon,
		&j.Category,
		&j.Tier,
		&j.RewardBasis,
		&j.DistanceM,
		&j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobRepo) queryJobs(ctx context.Context, query string, args ...any) ([]*model.Job, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	defer rows.Close()

	// empty result is an empty slice, not an error
	out := []*model.Job{}
	for rows.Next() {
		j, scanErr := scanJob(rows)
		if scanErr != nil {
			return nil, apperrors.MapDBError(scanErr)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return defaultJobQueryLimit
	}
	return limit
}

// GetByID fetches a job by id.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("job %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return j, nil
}

// ListInBounds returns jobs inside the bounding box, ordered by descending
// distance metric. Zoom validation happens at the HTTP boundary; by the time
// a box reaches this query it is already legitimate.
func (r *JobRepo) ListInBounds(
	ctx context.Context,
	box geo.BoundingBox,
	q core.JobQuery,
) ([]*model.Job, error) {
	return r.queryJobs(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE lat BETWEEN $1 AND $2
		  AND lon BETWEEN $3 AND $4
		ORDER BY distance_m DESC
		LIMIT $5`,
		box.South, box.North, box.West, box.East, clampLimit(q.Limit),
	)
}

// ListNearestByTier returns the closest jobs of exactly the given tier,
// ascending by distance from origin. The ORDER BY uses an equirectangular
// approximation: cheap per row and monotonic with great-circle distance at
// game-map scale, so no haversine recomputation per row.
func (r *JobRepo) ListNearestByTier(
	ctx context.Context,
	origin geo.Coordinate,
	tier int,
	q core.JobQuery,
) ([]*model.Job, error) {
	return r.queryJobs(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE tier = $3
		ORDER BY pow(lat - $1, 2) + pow((lon - $2) * cos(radians($1)), 2) ASC
		LIMIT $4`,
		origin.Lat, origin.Lon, tier, clampLimit(q.Limit),
	)
}

// Insert adds a batch of generated jobs.
func (r *JobRepo) Insert(ctx context.Context, jobs []*model.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	for _, j := range jobs {
		if err := j.Validate(); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid generated job")
		}
	}

	// single multi-row INSERT would need dynamic SQL; generation batches are
	// small, so per-row statements inside one transaction are fine
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, j := range jobs {
		if _, execErr := tx.ExecContext(ctx, `
			INSERT INTO jobs (id, lat, lon, category, tier, reward_basis, distance_m)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			j.ID, j.Location.Lat, j.Location.Lon, int(j.Category), j.Tier, j.RewardBasis, j.DistanceM,
		); execErr != nil {
			return apperrors.MapDBError(execErr)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperrors.MapDBError(err)
	}

	if r.logger != nil {
		r.logger.DebugContext(ctx, "jobs inserted", "count", len(jobs))
	}
	return nil
}

// DeleteOlderThan prunes generated jobs older than the cutoff that no
// active assignment references.
func (r *JobRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM jobs
		WHERE created_at < $1
		  AND NOT EXISTS (SELECT 1 FROM active_jobs WHERE active_jobs.job_id = jobs.id)`,
		cutoff,
	)
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return n, nil
}

// CountInBounds reports how many jobs sit inside the box.
func (r *JobRepo) CountInBounds(ctx context.Context, box geo.BoundingBox) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `
		SELECT count(*) FROM jobs
		WHERE lat BETWEEN $1 AND $2
		  AND lon BETWEEN $3 AND $4`,
		box.South, box.North, box.West, box.East,
	).Scan(&n)
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return n, nil
}

var _ core.JobRepository = (*JobRepo)(nil)
