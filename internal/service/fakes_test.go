package service

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/RikVoorhaar/routing-game-sub002/internal/errors"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/geo"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// In-memory fakes mirroring the storage contracts: deltas apply atomically
// under one lock, the purchase guard is evaluated while holding it, and the
// one-active-job rule is enforced on insert.

type fakeGameStates struct {
	mu     sync.Mutex
	states map[string]*model.GameState

	applyCalls int
}

func newFakeGameStates(states ...*model.GameState) *fakeGameStates {
	f := &fakeGameStates{states: map[string]*model.GameState{}}
	for _, gs := range states {
		f.states[gs.ID] = gs
	}
	return f
}

func copyGameState(gs *model.GameState) *model.GameState {
	out := *gs
	out.XP = make(map[string]int64, len(gs.XP))
	for k, v := range gs.XP {
		out.XP[k] = v
	}
	out.Upgrades = append([]string(nil), gs.Upgrades...)
	return &out
}

func (f *fakeGameStates) GetByID(_ context.Context, id string) (*model.GameState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gs, ok := f.states[id]
	if !ok {
		return nil, apperrors.NotFoundf("game state %s not found", id)
	}
	return copyGameState(gs), nil
}

func (f *fakeGameStates) ApplyDelta(
	_ context.Context,
	id string,
	delta model.EconomyDelta,
) (*model.GameState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gs, ok := f.states[id]
	if !ok {
		return nil, apperrors.NotFoundf("game state %s not found", id)
	}
	f.applyCalls++
	gs.Money += delta.Money
	if len(delta.XP) > 0 && gs.XP == nil {
		gs.XP = map[string]int64{}
	}
	for k, v := range delta.XP {
		gs.XP[k] += v
	}
	return copyGameState(gs), nil
}

func (f *fakeGameStates) PurchaseUpgrade(
	_ context.Context,
	id, upgradeID string,
	cost float64,
) (*model.GameState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gs, ok := f.states[id]
	if !ok {
		return nil, false, nil
	}
	for _, u := range gs.Upgrades {
		if u == upgradeID {
			return nil, false, nil
		}
	}
	if gs.Money < cost {
		return nil, false, nil
	}
	gs.Money -= cost
	gs.Upgrades = append(gs.Upgrades, upgradeID)
	return copyGameState(gs), true, nil
}

var _ core.GameStateRepository = (*fakeGameStates)(nil)

type fakeEmployees struct {
	mu        sync.Mutex
	employees map[string]*model.Employee
}

func newFakeEmployees(emps ...*model.Employee) *fakeEmployees {
	f := &fakeEmployees{employees: map[string]*model.Employee{}}
	for _, e := range emps {
		f.employees[e.ID] = e
	}
	return f
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (*model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok {
		return nil, apperrors.NotFoundf("employee %s not found", id)
	}
	out := *e
	return &out, nil
}

func (f *fakeEmployees) ListByGameState(_ context.Context, gameStateID string) ([]*model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Employee{}
	for _, e := range f.employees {
		if e.GameStateID == gameStateID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeEmployees) location(id string) geo.Coordinate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.employees[id].Location
}

var _ core.EmployeeRepository = (*fakeEmployees)(nil)

type fakeJobs struct {
	mu   sync.Mutex
	jobs map[string]*model.Job
}

func newFakeJobs(jobs ...*model.Job) *fakeJobs {
	f := &fakeJobs{jobs: map[string]*model.Job{}}
	for _, j := range jobs {
		f.jobs[j.ID] = j
	}
	return f
}

func (f *fakeJobs) GetByID(_ context.Context, id string) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, apperrors.NotFoundf("job %s not found", id)
	}
	out := *j
	return &out, nil
}

func (f *fakeJobs) ListInBounds(_ context.Context, box geo.BoundingBox, q core.JobQuery) ([]*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Job{}
	for _, j := range f.jobs {
		if box.Contains(j.Location) {
			copied := *j
			out = append(out, &copied)
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeJobs) ListNearestByTier(
	_ context.Context,
	origin geo.Coordinate,
	tier int,
	q core.JobQuery,
) ([]*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Job{}
	for _, j := range f.jobs {
		if j.Tier == tier {
			copied := *j
			out = append(out, &copied)
		}
	}
	for i := range out {
		for k := i + 1; k < len(out); k++ {
			if geo.EquirectangularM(origin, out[k].Location) < geo.EquirectangularM(origin, out[i].Location) {
				out[i], out[k] = out[k], out[i]
			}
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeJobs) Insert(_ context.Context, jobs []*model.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range jobs {
		f.jobs[j.ID] = j
	}
	return nil
}

func (f *fakeJobs) DeleteOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeJobs) CountInBounds(_ context.Context, box geo.BoundingBox) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, j := range f.jobs {
		if box.Contains(j.Location) {
			n++
		}
	}
	return n, nil
}

var _ core.JobRepository = (*fakeJobs)(nil)

type fakeActiveJobs struct {
	mu        sync.Mutex
	actives   map[string]*model.ActiveJob
	employees *fakeEmployees

	failComplete map[string]error
}

func newFakeActiveJobs(emps *fakeEmployees) *fakeActiveJobs {
	return &fakeActiveJobs{
		actives:      map[string]*model.ActiveJob{},
		employees:    emps,
		failComplete: map[string]error{},
	}
}

func (f *fakeActiveJobs) Create(_ context.Context, active *model.ActiveJob) (*model.ActiveJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.actives {
		if a.EmployeeID == active.EmployeeID {
			return nil, apperrors.Conflict("Employee already has an active job.")
		}
	}
	copied := *active
	copied.CreatedAt = time.Now()
	f.actives[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (f *fakeActiveJobs) GetByID(_ context.Context, id string) (*model.ActiveJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.actives[id]
	if !ok {
		return nil, apperrors.NotFoundf("active job %s not found", id)
	}
	out := *a
	return &out, nil
}

func (f *fakeActiveJobs) GetByEmployee(_ context.Context, employeeID string) (*model.ActiveJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.actives {
		if a.EmployeeID == employeeID {
			out := *a
			return &out, nil
		}
	}
	return nil, apperrors.NotFoundf("no active job for employee %s", employeeID)
}

func (f *fakeActiveJobs) ListByGameState(_ context.Context, gameStateID string) ([]*model.ActiveJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.ActiveJob{}
	for _, a := range f.actives {
		f.employees.mu.Lock()
		emp, ok := f.employees.employees[a.EmployeeID]
		f.employees.mu.Unlock()
		if ok && emp.GameStateID == gameStateID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeActiveJobs) Start(_ context.Context, id string, now time.Time) (*model.ActiveJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.actives[id]
	if !ok {
		return nil, apperrors.NotFoundf("active job %s not found", id)
	}
	if a.StartedAt == nil {
		a.StartedAt = &now
	}
	out := *a
	return &out, nil
}

func (f *fakeActiveJobs) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.actives[id]; !ok {
		return apperrors.NotFoundf("active job %s not found", id)
	}
	delete(f.actives, id)
	return nil
}

func (f *fakeActiveJobs) CompleteAndRelocate(
	_ context.Context,
	id string,
	employeeID string,
	dest geo.Coordinate,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failComplete[id]; ok {
		return err
	}
	if _, ok := f.actives[id]; !ok {
		return apperrors.NotFoundf("active job %s not found", id)
	}
	delete(f.actives, id)

	f.employees.mu.Lock()
	if emp, ok := f.employees.employees[employeeID]; ok {
		emp.Location = dest
	}
	f.employees.mu.Unlock()
	return nil
}

var _ core.ActiveJobRepository = (*fakeActiveJobs)(nil)

type fakePlanner struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, origin, dest geo.Coordinate) (*model.Route, error)
}

func (f *fakePlanner) ShortestPath(ctx context.Context, origin, dest geo.Coordinate) (*model.Route, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(ctx, origin, dest)
	}
	return straightRoute(origin, dest), nil
}

func (f *fakePlanner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var _ core.RoutePlanner = (*fakePlanner)(nil)

func straightRoute(origin, dest geo.Coordinate) *model.Route {
	dist := geo.HaversineM(origin, dest)
	durationMS := int64(dist / 50_000 * 3600 * 1000) // 50 km/h reference speed
	return &model.Route{
		Origin:      origin,
		Destination: dest,
		Points: []model.PathPoint{
			{Lat: origin.Lat, Lon: origin.Lon, ElapsedMS: 0},
			{Lat: dest.Lat, Lon: dest.Lon, ElapsedMS: durationMS},
		},
		TotalDurationMS: durationMS,
		TotalDistanceM:  dist,
	}
}
