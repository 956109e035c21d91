package data

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// EmployeeRepo provides database operations for employees.
type EmployeeRepo struct {
	DB *sql.DB
}

// NewEmployeeRepo creates a new EmployeeRepo.
func NewEmployeeRepo(db *sql.DB) *EmployeeRepo {
	return &EmployeeRepo{DB: db}
}

const employeeColumns = `
  id,
  game_state_id,
  name,
  lat,
  lon,
  driving_level,
  vehicle_class,
  max_speed_kmh,
  created_at,
  updated_at
`

func scanEmployee(row rowScanner) (*model.Employee, error) {
	var e model.Employee
	err := row.Scan(
		&e.ID,
		&e.GameStateID,
		&e.Name,
		&e.Location.Lat,
		&e.Location.Lon,
		&e.DrivingLevel,
		&e.VehicleClass,
		&e.MaxSpeedKMH,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID fetches an employee by id.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("employee %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return e, nil
}

// ListByGameState returns all employees owned by a game state.
func (r *EmployeeRepo) ListByGameState(ctx context.Context, gameStateID string) ([]*model.Employee, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE game_state_id = $1 ORDER BY created_at`,
		gameStateID,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	defer rows.Close()

	var out []*model.Employee
	for rows.Next() {
		e, scanErr := scanEmployee(rows)
		if scanErr != nil {
			return nil, apperrors.MapDBError(scanErr)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

var _ core.EmployeeRepository = (*EmployeeRepo)(nil)
