package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Regular expressions for parsing PgError.Detail messages.
var (
	// reKeyField extracts field name from unique violation detail: "Key (field)=(value) already exists.".
	reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// reNotPresent detects missing parent: "... is not present in table ...".
	reNotPresent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
	// reReferencedFrom detects parent deletion: "... is still referenced from table ...".
	reReferencedFrom = regexp.MustCompile(`is still referenced from table "?([^"]+)"?`)
)

// MapDBError maps database errors to AppError instances.
// It handles the common failure shapes the repositories can surface:
// - pgx.ErrNoRows → NotFound
// - Unique constraint violations → Conflict (one active job per employee, duplicate ids)
// - Foreign key violations → NotFound/Conflict depending on direction
// - Check constraint violations → Validation (negative money, tier zero)
// - NOT NULL violations → Validation
// - Context timeouts/cancellations → Timeout/Canceled
//
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "Resource not found",
			Cause:   err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	return err
}

// mapPgError maps PostgreSQL-specific errors to AppError instances.
func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return mapUniqueViolation(pgErr)
	case pgerrcode.ForeignKeyViolation:
		return mapForeignKeyViolation(pgErr)
	case pgerrcode.CheckViolation:
		return mapCheckViolation(pgErr)
	case pgerrcode.NotNullViolation:
		return mapNotNullViolation(pgErr)
	default:
		// Internal message stays generic; query text and details never reach callers.
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}

// mapUniqueViolation maps unique constraint violations to Conflict errors.
func mapUniqueViolation(pgErr *pgconn.PgError) error {
	// The one-active-job-per-employee invariant lives in a unique index on
	// active_jobs.employee_id; surface it with a message the caller can act on.
	if strings.Contains(strings.ToLower(pgErr.ConstraintName), "active_jobs_employee") {
		return &AppError{
			Code:    ErrCodeConflict,
			Message: "Employee already has an active job.",
			Cause:   pgErr,
		}
	}

	var field string
	if pgErr.ColumnName != "" {
		field = pgErr.ColumnName
	}
	if field == "" && pgErr.Detail != "" {
		if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			field = m[1]
		}
	}

	return &AppError{
		Code:    ErrCodeConflict,
		Message: "This value already exists.",
		Field:   field,
		Cause:   pgErr,
	}
}

// mapForeignKeyViolation maps foreign key constraint violations.
// Inserting a child with a missing parent (employee, job, game state) reads as
// NotFound to the caller; deleting a referenced parent reads as Conflict.
func mapForeignKeyViolation(pgErr *pgconn.PgError) error {
	if pgErr.Detail != "" {
		if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			return &AppError{
				Code:    ErrCodeNotFound,
				Message: "Referenced " + mapTableToDomain(m[1]) + " does not exist.",
				Cause:   pgErr,
			}
		}
		if m := reReferencedFrom.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			return &AppError{
				Code:    ErrCodeConflict,
				Message: "Cannot delete because this item is in use by " + mapTableToDomain(m[1]) + ".",
				Cause:   pgErr,
			}
		}
	}

	return &AppError{
		Code:    ErrCodeConflict,
		Message: "Cannot complete operation because this item is in use.",
		Cause:   pgErr,
	}
}

// mapNotNullViolation maps NOT NULL constraint violations to Validation errors.
func mapNotNullViolation(pgErr *pgconn.PgError) error {
	if pgErr.ColumnName != "" {
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "This field is required.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	}
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Required field is missing. Please check your input.",
		Cause:   pgErr,
	}
}

// mapCheckViolation maps CHECK constraint violations to Validation errors.
// The money >= 0 check on game_states is the interesting one: a concurrent
// deduction racing past the application-level funds check lands here.
func mapCheckViolation(pgErr *pgconn.PgError) error {
	if strings.Contains(strings.ToLower(pgErr.ConstraintName), "money") {
		return &AppError{
			Code:    ErrCodeInsufficientFunds,
			Message: "Not enough money.",
			Cause:   pgErr,
		}
	}
	if pgErr.ColumnName != "" {
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "This field has an invalid value.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	}
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Invalid data. Please check your input.",
		Cause:   pgErr,
	}
}

// mapTableToDomain maps internal table names to user-friendly domain names.
func mapTableToDomain(tableName string) string {
	tableName = strings.ToLower(strings.TrimSpace(tableName))

	domainMap := map[string]string{
		"game_states": "game state",
		"employees":   "employee",
		"jobs":        "job",
		"active_jobs": "active job",
	}
	if name, ok := domainMap[tableName]; ok {
		return name
	}
	return strings.ReplaceAll(tableName, "_", " ")
}
