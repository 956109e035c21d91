package data_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/data"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"
	"github.com/RikVoorhaar/routing-game-sub002/internal/testutil"
)

func TestJobRepoInsertAndGet(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := data.NewJobRepo(db, nil)
		ctx := context.Background()

		job := &model.Job{
			ID:          uuid.NewString(),
			Location:    geo.Coordinate{Lat: 52.09, Lon: 5.12},
			Category:    model.CategoryGrocery,
			Tier:        2,
			RewardBasis: 3.5,
			DistanceM:   2200,
		}
		require.NoError(t, repo.Insert(ctx, []*model.Job{job}))

		got, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, job.Tier, got.Tier)
		assert.Equal(t, job.Category, got.Category)
		assert.InDelta(t, 3.5, got.RewardBasis, 1e-9)

		_, err = repo.GetByID(ctx, uuid.NewString())
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestJobRepoInsertRejectsInvalidJob(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := data.NewJobRepo(db, nil)
		ctx := context.Background()

		bad := &model.Job{
			ID:       uuid.NewString(),
			Location: geo.Coordinate{Lat: 52.09, Lon: 5.12},
			Category: model.CategoryGrocery,
			Tier:     0, // tier zero is invalid by definition
		}
		err := repo.Insert(ctx, []*model.Job{bad})
		assert.True(t, apperrors.IsValidation(err), "got %v", err)

		n, countErr := repo.CountInBounds(ctx, geo.BoundingBox{South: -90, West: -180, North: 90, East: 180})
		require.NoError(t, countErr)
		assert.Zero(t, n)
	})
}

func TestJobRepoListInBounds(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := data.NewJobRepo(db, nil)
		ctx := context.Background()

		inside1 := testutil.SeedJob(t, db, testutil.JobFixture{Lat: 52.10, Lon: 5.10, DistanceM: 1000})
		inside2 := testutil.SeedJob(t, db, testutil.JobFixture{Lat: 52.12, Lon: 5.14, DistanceM: 3000})
		testutil.SeedJob(t, db, testutil.JobFixture{Lat: 53.5, Lon: 6.5, DistanceM: 2000}) // outside

		box := geo.BoundingBox{South: 52.0, West: 5.0, North: 52.2, East: 5.2}
		jobs, err := repo.ListInBounds(ctx, box, core.JobQuery{Limit: 10})
		require.NoError(t, err)
		require.Len(t, jobs, 2)

		// longest distance metric first
		assert.Equal(t, inside2, jobs[0].ID)
		assert.Equal(t, inside1, jobs[1].ID)

		// limit applies after ordering
		jobs, err = repo.ListInBounds(ctx, box, core.JobQuery{Limit: 1})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, inside2, jobs[0].ID)
	})
}

func TestJobRepoListNearestByTier(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := data.NewJobRepo(db, nil)
		ctx := context.Background()

		origin := geo.Coordinate{Lat: 52.09, Lon: 5.12}
		near := testutil.SeedJob(t, db, testutil.JobFixture{Lat: 52.091, Lon: 5.121, Tier: 2})
		far := testutil.SeedJob(t, db, testutil.JobFixture{Lat: 52.20, Lon: 5.30, Tier: 2})
		testutil.SeedJob(t, db, testutil.JobFixture{Lat: 52.0901, Lon: 5.1201, Tier: 1}) // closest but wrong tier

		jobs, err := repo.ListNearestByTier(ctx, origin, 2, core.JobQuery{Limit: 10})
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, near, jobs[0].ID)
		assert.Equal(t, far, jobs[1].ID)

		jobs, err = repo.ListNearestByTier(ctx, origin, 5, core.JobQuery{Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})
}

func TestJobRepoDeleteOlderThanSparesAssignedJobs(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		jobs := data.NewJobRepo(db, nil)
		activeJobs := data.NewActiveJobRepo(db, nil)
		ctx := context.Background()

		old := time.Now().Add(-2 * time.Hour)
		stale := testutil.SeedJob(t, db, testutil.JobFixture{Lat: 52.09, Lon: 5.12, CreatedAt: old})
		assigned := testutil.SeedJob(t, db, testutil.JobFixture{Lat: 52.10, Lon: 5.13, CreatedAt: old})
		fresh := testutil.SeedJob(t, db, testutil.JobFixture{Lat: 52.11, Lon: 5.14})

		gsID := testutil.SeedGameState(t, db, testutil.GameStateFixture{})
		empID := testutil.SeedEmployee(t, db, testutil.EmployeeFixture{GameStateID: gsID, Lat: 52.09, Lon: 5.12})
		_, err := activeJobs.Create(ctx, &model.ActiveJob{
			ID:         uuid.NewString(),
			EmployeeID: empID,
			JobID:      assigned,
			Start:      geo.Coordinate{Lat: 52.09, Lon: 5.12},
			End:        geo.Coordinate{Lat: 52.10, Lon: 5.13},
		})
		require.NoError(t, err)

		pruned, err := jobs.DeleteOlderThan(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), pruned)

		_, err = jobs.GetByID(ctx, stale)
		assert.True(t, apperrors.IsNotFound(err))

		// the referenced and the fresh job both survive
		_, err = jobs.GetByID(ctx, assigned)
		assert.NoError(t, err)
		_, err = jobs.GetByID(ctx, fresh)
		assert.NoError(t, err)
	})
}

func TestJobRepoCountInBounds(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := data.NewJobRepo(db, nil)
		ctx := context.Background()

		testutil.SeedJob(t, db, testutil.JobFixture{Lat: 52.10, Lon: 5.10})
		testutil.SeedJob(t, db, testutil.JobFixture{Lat: 52.15, Lon: 5.15})
		testutil.SeedJob(t, db, testutil.JobFixture{Lat: 53.5, Lon: 6.5})

		n, err := repo.CountInBounds(ctx, geo.BoundingBox{South: 52.0, West: 5.0, North: 52.2, East: 5.2})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}
