package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// GameStateRepo provides database operations for per-player economy records.
//
// Every mutation here is a single conditional UPDATE evaluated by Postgres.
// Money and XP arithmetic never happens on values read into process memory,
// so two concurrent completions or purchases against the same record cannot
// lose an update.
type GameStateRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewGameStateRepo creates a new GameStateRepo.
func NewGameStateRepo(db *sql.DB, logger *slog.Logger) *GameStateRepo {
	return &GameStateRepo{DB: db, logger: logger}
}

const gameStateColumns = `
  id,
  player_id,
  money::float8,
  xp,
  upgrades,
  seed,
  created_at,
  updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGameState(row rowScanner) (*model.GameState, error) {
	var (
		g           model.GameState
		xpRaw       []byte
		upgradesRaw []byte
	)
	err := row.Scan(
		&g.ID,
		&g.PlayerID,
		&g.Money,
		&xpRaw,
		&upgradesRaw,
		&g.Seed,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(xpRaw) > 0 {
		if err := json.Unmarshal(xpRaw, &g.XP); err != nil {
			return nil, fmt.Errorf("decode xp column: %w", err)
		}
	}
	if len(upgradesRaw) > 0 {
		if err := json.Unmarshal(upgradesRaw, &g.Upgrades); err != nil {
			return nil, fmt.Errorf("decode upgrades column: %w", err)
		}
	}
	return &g, nil
}

// GetByID fetches a game state by id.
func (r *GameStateRepo) GetByID(ctx context.Context, id string) (*model.GameState, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+gameStateColumns+` FROM game_states WHERE id = $1`, id)
	g, err := scanGameState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("game state %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return g, nil
}

// applyDeltaSQL folds money and per-category XP increments into the row in
// one statement. The correlated subquery reads the row's current xp value,
// so a missing category key starts from zero and concurrent increments
// serialize on the row without a read-modify-write in process.
const applyDeltaSQL = `
  UPDATE game_states
  SET money = money + $2,
      xp = xp || COALESCE((
        SELECT jsonb_object_agg(inc.key, COALESCE((game_states.xp ->> inc.key)::bigint, 0) + inc.value::bigint)
        FROM jsonb_each_text($3::jsonb) AS inc
      ), '{}'::jsonb),
      updated_at = now()
  WHERE id = $1
  RETURNING ` + gameStateColumns

// ApplyDelta implements core.GameStateRepository.
func (r *GameStateRepo) ApplyDelta(
	ctx context.Context,
	id string,
	delta model.EconomyDelta,
) (*model.GameState, error) {
	xpJSON, err := json.Marshal(delta.XP)
	if err != nil {
		return nil, fmt.Errorf("encode xp delta: %w", err)
	}
	if delta.XP == nil {
		xpJSON = []byte(`{}`)
	}

	row := r.DB.QueryRowContext(ctx, applyDeltaSQL, id, delta.Money, xpJSON)
	g, scanErr := scanGameState(row)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("game state %s not found", id)
		}
		return nil, apperrors.MapDBError(scanErr)
	}

	if r.logger != nil {
		r.logger.DebugContext(ctx, "economy delta applied",
			"game_state_id", id,
			"money_delta", delta.Money,
			"xp_categories", len(delta.XP),
		)
	}
	return g, nil
}

// purchaseUpgradeSQL deducts cost and appends the upgrade id in one guarded
// statement. Both changes commit together or not at all; the WHERE guards
// make the statement a no-op when funds ran out or the upgrade raced in.
const purchaseUpgradeSQL = `
  UPDATE game_states
  SET money = money - $3,
      upgrades = upgrades || to_jsonb($2::text),
      updated_at = now()
  WHERE id = $1
    AND money >= $3
    AND NOT upgrades @> to_jsonb($2::text)
  RETURNING ` + gameStateColumns

// PurchaseUpgrade implements core.GameStateRepository. A false result with
// nil error means a guard failed; the caller re-reads the row to classify
// the failure precisely.
func (r *GameStateRepo) PurchaseUpgrade(
	ctx context.Context,
	id, upgradeID string,
	cost float64,
) (*model.GameState, bool, error) {
	row := r.DB.QueryRowContext(ctx, purchaseUpgradeSQL, id, upgradeID, cost)
	g, err := scanGameState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, apperrors.MapDBError(err)
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "upgrade purchased",
			"game_state_id", id,
			"upgrade_id", upgradeID,
			"cost", cost,
		)
	}
	return g, true, nil
}

var _ core.GameStateRepository = (*GameStateRepo)(nil)
