package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBErrorNil(t *testing.T) {
	assert.NoError(t, MapDBError(nil))
}

func TestMapDBErrorNoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMapDBErrorContext(t *testing.T) {
	assert.Equal(t, ErrCodeTimeout, GetCode(MapDBError(context.DeadlineExceeded)))
	assert.Equal(t, ErrCodeCanceled, GetCode(MapDBError(context.Canceled)))
}

func TestMapDBErrorUniqueViolation(t *testing.T) {
	t.Run("active job uniqueness", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: "active_jobs_employee_id_key",
			Detail:         `Key (employee_id)=(abc) already exists.`,
		}
		err := MapDBError(pgErr)
		require.True(t, IsConflict(err))
		assert.Contains(t, err.Error(), "active job")
	})

	t.Run("generic unique with field from detail", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:   pgerrcode.UniqueViolation,
			Detail: `Key (player_id)=(p1) already exists.`,
		}
		err := MapDBError(pgErr)
		require.True(t, IsConflict(err))
		assert.Equal(t, "player_id", GetField(err))
	})
}

func TestMapDBErrorForeignKeyViolation(t *testing.T) {
	t.Run("missing parent maps to not found", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:   pgerrcode.ForeignKeyViolation,
			Detail: `Key (job_id)=(j1) is not present in table "jobs".`,
		}
		err := MapDBError(pgErr)
		require.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "job")
	})

	t.Run("referenced parent maps to conflict", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:   pgerrcode.ForeignKeyViolation,
			Detail: `Key (id)=(e1) is still referenced from table "active_jobs".`,
		}
		err := MapDBError(pgErr)
		assert.True(t, IsConflict(err))
	})
}

func TestMapDBErrorCheckViolation(t *testing.T) {
	t.Run("money check maps to insufficient funds", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           pgerrcode.CheckViolation,
			ConstraintName: "game_states_money_check",
		}
		err := MapDBError(pgErr)
		assert.True(t, IsInsufficientFunds(err))
	})

	t.Run("other check maps to validation", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           pgerrcode.CheckViolation,
			ConstraintName: "jobs_tier_check",
			ColumnName:     "tier",
		}
		err := MapDBError(pgErr)
		require.True(t, IsValidation(err))
		assert.Equal(t, "tier", GetField(err))
	})
}

func TestMapDBErrorNotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       pgerrcode.NotNullViolation,
		ColumnName: "lat",
	}
	err := MapDBError(pgErr)
	require.True(t, IsValidation(err))
	assert.Equal(t, "lat", GetField(err))
}

func TestMapDBErrorUnknownPgError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.DivisionByZero, Message: "division by zero"}
	err := MapDBError(pgErr)
	require.True(t, IsInternal(err))
	// internal details stay out of the caller-facing message
	assert.NotContains(t, err.Error(), "SELECT")
}

func TestMapDBErrorPassthrough(t *testing.T) {
	plain := errors.New("not a db error")
	assert.Equal(t, plain, MapDBError(plain))
}
