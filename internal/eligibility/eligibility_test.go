package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

func newEmployee(drivingLevel, vehicleClass int) *model.Employee {
	return &model.Employee{
		ID:           "e1",
		DrivingLevel: drivingLevel,
		VehicleClass: vehicleClass,
	}
}

func newJob(category model.JobCategory, tier int) *model.Job {
	return &model.Job{ID: "j1", Category: category, Tier: tier}
}

func TestCanPerformTierGate(t *testing.T) {
	checker := NewChecker(nil)
	// level 0 employee, capability for parcel held trivially
	emp := newEmployee(0, 0)

	assert.True(t, checker.CanPerform(emp, newJob(model.CategoryParcel, 1)),
		"tier-1 jobs require skill level 0")
	assert.False(t, checker.CanPerform(emp, newJob(model.CategoryParcel, 2)),
		"tier-2 jobs require skill level 1")

	leveled := newEmployee(1, 0)
	assert.True(t, checker.CanPerform(leveled, newJob(model.CategoryParcel, 2)))
}

func TestCanPerformMalformedCategoryFailsClosed(t *testing.T) {
	checker := NewChecker(nil)
	emp := newEmployee(5, 5)

	assert.False(t, checker.CanPerform(emp, newJob(model.JobCategory(-1), 1)))
	assert.False(t, checker.CanPerform(emp, newJob(model.JobCategory(model.MaxCategory+1), 1)))
}

func TestCanPerformCapabilityTable(t *testing.T) {
	checker := NewChecker(nil)

	t.Run("freight needs truck license and vehicle", func(t *testing.T) {
		bikeCourier := newEmployee(0, 1)
		assert.False(t, checker.CanPerform(bikeCourier, newJob(model.CategoryFreight, 1)))

		trucker := newEmployee(1, 3)
		assert.True(t, checker.CanPerform(trucker, newJob(model.CategoryFreight, 1)))
	})

	t.Run("hazmat needs the top license", func(t *testing.T) {
		trucker := newEmployee(1, 3)
		assert.False(t, checker.CanPerform(trucker, newJob(model.CategoryHazmat, 1)))

		certified := newEmployee(2, 3)
		assert.True(t, checker.CanPerform(certified, newJob(model.CategoryHazmat, 1)))
	})
}

func TestCanPerformNilInputs(t *testing.T) {
	checker := NewChecker(nil)
	assert.False(t, checker.CanPerform(nil, newJob(model.CategoryParcel, 1)))
	assert.False(t, checker.CanPerform(newEmployee(0, 0), nil))
}

type allowAllTable struct{}

func (allowAllTable) CanDoCategory(*model.Employee, model.JobCategory) bool { return true }

func TestCanPerformCustomTable(t *testing.T) {
	checker := NewChecker(allowAllTable{})
	emp := newEmployee(0, 0)
	assert.True(t, checker.CanPerform(emp, newJob(model.CategoryHazmat, 1)),
		"capability decision delegates to the injected table")
	assert.False(t, checker.CanPerform(emp, newJob(model.CategoryHazmat, 2)),
		"tier gate still applies on top of the table")
}

func TestCanPerformIsConcurrencySafe(t *testing.T) {
	checker := NewChecker(nil)
	emp := newEmployee(1, 3)
	job := newJob(model.CategoryFreight, 2)

	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 1000 {
				checker.CanPerform(emp, job)
			}
		}()
	}
	for range 8 {
		<-done
	}
}
