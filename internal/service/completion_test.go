package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/reward"
)

type completionFixture struct {
	svc        *CompletionService
	gameStates *fakeGameStates
	employees  *fakeEmployees
	jobs       *fakeJobs
	activeJobs *fakeActiveJobs
	active     *ActiveJobService
}

func newCompletionFixture(t *testing.T) *completionFixture {
	t.Helper()
	gameStates := newFakeGameStates(&model.GameState{
		ID:       "gs-1",
		PlayerID: "player-1",
		Money:    10,
		XP:       map[string]int64{},
	})
	employees := newFakeEmployees(testEmployee())
	jobs := newFakeJobs(testJob())
	activeJobs := newFakeActiveJobs(employees)

	svc := NewCompletionService(CompletionServiceOptions{
		Repos: CompletionRepos{
			GameStates: gameStates,
			Employees:  employees,
			Jobs:       jobs,
			ActiveJobs: activeJobs,
		},
	})
	active := NewActiveJobService(ActiveJobServiceOptions{
		Repos: ActiveJobRepos{
			GameStates: gameStates,
			Employees:  employees,
			Jobs:       jobs,
			ActiveJobs: activeJobs,
		},
		Routes: newPlanService(&fakePlanner{}, nil),
	})
	return &completionFixture{
		svc:        svc,
		gameStates: gameStates,
		employees:  employees,
		jobs:       jobs,
		activeJobs: activeJobs,
		active:     active,
	}
}

func (fx *completionFixture) assign(t *testing.T, employeeID, jobID string) *model.ActiveJob {
	t.Helper()
	active, err := fx.active.Assign(context.Background(), employeeID, jobID)
	require.NoError(t, err)
	return active
}

func TestCompleteUnknownActiveJobNotFound(t *testing.T) {
	fx := newCompletionFixture(t)
	_, err := fx.svc.Complete(context.Background(), "ghost", CompleteParams{})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCompleteRejectsUnstartedJob(t *testing.T) {
	fx := newCompletionFixture(t)
	active := fx.assign(t, "emp-1", "job-1")

	_, err := fx.svc.Complete(context.Background(), active.ID, CompleteParams{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCompleteRejectsUnfinishedTravel(t *testing.T) {
	fx := newCompletionFixture(t)
	active := fx.assign(t, "emp-1", "job-1")
	_, err := fx.active.Start(context.Background(), active.ID)
	require.NoError(t, err)

	_, err = fx.svc.Complete(context.Background(), active.ID, CompleteParams{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCompleteAfterTravelElapsed(t *testing.T) {
	fx := newCompletionFixture(t)
	active := fx.assign(t, "emp-1", "job-1")
	started, err := fx.active.Start(context.Background(), active.ID)
	require.NoError(t, err)

	// advance the clock past the adjusted route duration
	fx.svc.now = func() time.Time {
		return started.StartedAt.Add(time.Duration(active.RouteDurationMS)*time.Millisecond + time.Second)
	}

	res, err := fx.svc.Complete(context.Background(), active.ID, CompleteParams{})
	require.NoError(t, err)
	require.NotNil(t, res.State)
	assert.Greater(t, res.Delta.Money, 0.0)
	assert.InDelta(t, 10+res.Delta.Money, res.State.Money, 1e-9)

	// assignment removed, employee relocated
	_, err = fx.activeJobs.GetByID(context.Background(), active.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, active.End, fx.employees.location("emp-1"))
}

func TestCompleteForceSkipsReadiness(t *testing.T) {
	fx := newCompletionFixture(t)
	active := fx.assign(t, "emp-1", "job-1")

	res, err := fx.svc.Complete(context.Background(), active.ID, CompleteParams{Force: true})
	require.NoError(t, err)
	assert.Greater(t, res.Delta.Money, 0.0)
}

func TestCompleteDeferredLeavesEconomyUntouched(t *testing.T) {
	fx := newCompletionFixture(t)
	active := fx.assign(t, "emp-1", "job-1")

	res, err := fx.svc.Complete(context.Background(), active.ID, CompleteParams{
		Force:            true,
		DeferStateUpdate: true,
	})
	require.NoError(t, err)
	assert.Nil(t, res.State)
	assert.Greater(t, res.Delta.Money, 0.0)

	gs, err := fx.gameStates.GetByID(context.Background(), "gs-1")
	require.NoError(t, err)
	assert.InDelta(t, 10, gs.Money, 1e-9, "deferred completion must not write the economy record")
}

func TestCompleteRewardMatchesPureComputation(t *testing.T) {
	fx := newCompletionFixture(t)
	active := fx.assign(t, "emp-1", "job-1")

	job, err := fx.jobs.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	want := reward.Compute(job, active, reward.DefaultFactors())

	res, err := fx.svc.Complete(context.Background(), active.ID, CompleteParams{Force: true})
	require.NoError(t, err)
	assert.InDelta(t, want.Money, res.Delta.Money, 1e-9)
	assert.Equal(t, want.XP, res.Delta.XP)
}

// rendezvousActiveJobs holds every reader at the barrier until all expected
// callers have fetched the assignment, forcing them to race the claim.
type rendezvousActiveJobs struct {
	*fakeActiveJobs
	arrive *sync.WaitGroup
}

func (g *rendezvousActiveJobs) GetByID(ctx context.Context, id string) (*model.ActiveJob, error) {
	a, err := g.fakeActiveJobs.GetByID(ctx, id)
	g.arrive.Done()
	g.arrive.Wait()
	return a, err
}

func TestCompleteDuplicateRequestCreditsOnce(t *testing.T) {
	fx := newCompletionFixture(t)
	active := fx.assign(t, "emp-1", "job-1")

	var arrive sync.WaitGroup
	arrive.Add(2)
	svc := NewCompletionService(CompletionServiceOptions{
		Repos: CompletionRepos{
			GameStates: fx.gameStates,
			Employees:  fx.employees,
			Jobs:       fx.jobs,
			ActiveJobs: &rendezvousActiveJobs{fakeActiveJobs: fx.activeJobs, arrive: &arrive},
		},
	})

	type outcome struct {
		res *CompletionResult
		err error
	}
	outcomes := make(chan outcome, 2)
	for i := 0; i < 2; i++ {
		go func() {
			res, err := svc.Complete(context.Background(), active.ID, CompleteParams{Force: true})
			outcomes <- outcome{res: res, err: err}
		}()
	}

	var won *CompletionResult
	var lost error
	for i := 0; i < 2; i++ {
		o := <-outcomes
		if o.err == nil {
			require.Nil(t, won, "only one duplicate completion may succeed")
			won = o.res
		} else {
			lost = o.err
		}
	}
	require.NotNil(t, won)
	assert.True(t, apperrors.IsNotFound(lost), "the losing duplicate must see the assignment gone")

	assert.Equal(t, 1, fx.gameStates.applyCalls, "the reward must be credited exactly once")
	gs, err := fx.gameStates.GetByID(context.Background(), "gs-1")
	require.NoError(t, err)
	assert.InDelta(t, 10+won.Delta.Money, gs.Money, 1e-9)
}

func TestCompleteFailedClaimCreditsNothing(t *testing.T) {
	fx := newCompletionFixture(t)
	active := fx.assign(t, "emp-1", "job-1")
	fx.activeJobs.failComplete[active.ID] = apperrors.Internal("storage hiccup")

	_, err := fx.svc.Complete(context.Background(), active.ID, CompleteParams{Force: true})
	require.Error(t, err)

	// a retry after the transient failure must be able to pay out once
	assert.Equal(t, 0, fx.gameStates.applyCalls)
	gs, getErr := fx.gameStates.GetByID(context.Background(), "gs-1")
	require.NoError(t, getErr)
	assert.InDelta(t, 10, gs.Money, 1e-9)

	delete(fx.activeJobs.failComplete, active.ID)
	res, err := fx.svc.Complete(context.Background(), active.ID, CompleteParams{Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, fx.gameStates.applyCalls)
	assert.InDelta(t, 10+res.Delta.Money, res.State.Money, 1e-9)
}

func addWorker(t *testing.T, fx *completionFixture, empID, jobID string, tier int) *model.ActiveJob {
	t.Helper()
	emp := testEmployee()
	emp.ID = empID
	emp.DrivingLevel = 3
	emp.VehicleClass = 3
	fx.employees.employees[emp.ID] = emp

	job := testJob()
	job.ID = jobID
	job.Tier = tier
	require.NoError(t, fx.jobs.Insert(context.Background(), []*model.Job{job}))
	return fx.assign(t, empID, jobID)
}

func TestCompleteAllAppliesOneCombinedDelta(t *testing.T) {
	fx := newCompletionFixture(t)
	a1 := fx.assign(t, "emp-1", "job-1")
	a2 := addWorker(t, fx, "emp-2", "job-2", 2)

	res, err := fx.svc.CompleteAll(context.Background(), "gs-1")
	require.NoError(t, err)
	assert.Len(t, res.Completed, 2)
	assert.Zero(t, res.Failed)
	require.NotNil(t, res.State)

	var total float64
	for _, c := range res.Completed {
		total += c.Delta.Money
	}
	assert.InDelta(t, 10+total, res.State.Money, 1e-9)
	assert.Equal(t, 1, fx.gameStates.applyCalls, "batch must write the economy record once")

	for _, id := range []string{a1.ID, a2.ID} {
		_, err := fx.activeJobs.GetByID(context.Background(), id)
		assert.True(t, apperrors.IsNotFound(err))
	}
}

func TestCompleteAllSkipsFailedItems(t *testing.T) {
	fx := newCompletionFixture(t)
	fx.assign(t, "emp-1", "job-1")
	stuck := addWorker(t, fx, "emp-2", "job-2", 1)
	fx.activeJobs.failComplete[stuck.ID] = apperrors.Internal("storage hiccup")

	res, err := fx.svc.CompleteAll(context.Background(), "gs-1")
	require.NoError(t, err)
	assert.Len(t, res.Completed, 1)
	assert.Equal(t, 1, res.Failed)
	require.NotNil(t, res.State)
}

func TestCompleteAllErrorsWhenNothingCompletes(t *testing.T) {
	fx := newCompletionFixture(t)
	only := fx.assign(t, "emp-1", "job-1")
	fx.activeJobs.failComplete[only.ID] = apperrors.Internal("storage hiccup")

	_, err := fx.svc.CompleteAll(context.Background(), "gs-1")
	require.Error(t, err)

	gs, getErr := fx.gameStates.GetByID(context.Background(), "gs-1")
	require.NoError(t, getErr)
	assert.InDelta(t, 10, gs.Money, 1e-9)
}

func TestCompleteAllEmptyStateIsNoop(t *testing.T) {
	fx := newCompletionFixture(t)

	res, err := fx.svc.CompleteAll(context.Background(), "gs-1")
	require.NoError(t, err)
	assert.Empty(t, res.Completed)
	assert.Zero(t, res.Failed)
	assert.Nil(t, res.State)
}

func TestCompleteAllUnknownGameState(t *testing.T) {
	fx := newCompletionFixture(t)
	_, err := fx.svc.CompleteAll(context.Background(), "ghost")
	assert.True(t, apperrors.IsNotFound(err))
}
