// Package eligibility decides whether an employee may perform a job.
// Pure predicate logic: no side effects, safe to call concurrently.
package eligibility

import (
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/model"
)

// CapabilityTable looks up the static per-category license and vehicle
// requirements. Implementations must be read-only after construction.
type CapabilityTable interface {
	// CanDoCategory reports whether the employee holds the capability set
	// (license tier + vehicle class) required for the category.
	CanDoCategory(emp *model.Employee, category model.JobCategory) bool
}

// requirement is the capability floor for one category.
type requirement struct {
	minLicense      int
	minVehicleClass int
}

// StaticTable is the default capability table, keyed by job category.
type StaticTable struct {
	requirements map[model.JobCategory]requirement
}

// NewStaticTable builds the default per-category requirement table.
func NewStaticTable() *StaticTable {
	return &StaticTable{
		requirements: map[model.JobCategory]requirement{
			model.CategoryParcel:    {minLicense: 0, minVehicleClass: 0},
			model.CategoryGrocery:   {minLicense: 0, minVehicleClass: 1},
			model.CategoryFurniture: {minLicense: 0, minVehicleClass: 2},
			model.CategoryFreight:   {minLicense: 1, minVehicleClass: 3},
			model.CategoryHazmat:    {minLicense: 2, minVehicleClass: 3},
		},
	}
}

// CanDoCategory implements CapabilityTable.
func (t *StaticTable) CanDoCategory(emp *model.Employee, category model.JobCategory) bool {
	req, ok := t.requirements[category]
	if !ok {
		return false
	}
	return emp.DrivingLevel >= req.minLicense && emp.VehicleClass >= req.minVehicleClass
}

// Checker evaluates the full eligibility predicate for employee/job pairs.
type Checker struct {
	table CapabilityTable
}

// NewChecker constructs a Checker. A nil table falls back to the static default.
func NewChecker(table CapabilityTable) *Checker {
	if table == nil {
		table = NewStaticTable()
	}
	return &Checker{table: table}
}

// CanPerform reports whether the employee may take the job. Rules in order:
//
//  1. The category must be a recognized enum value; malformed category data
//     fails closed.
//  2. The employee must hold the capability set for the category.
//  3. The employee's driving level must be >= max(0, tier-1): tier-1 jobs
//     require level 0, tier-2 jobs require level 1, and so on.
func (c *Checker) CanPerform(emp *model.Employee, job *model.Job) bool {
	if emp == nil || job == nil {
		return false
	}
	if !job.Category.Valid() {
		return false
	}
	if !c.table.CanDoCategory(emp, job.Category) {
		return false
	}

	required := job.Tier - 1
	if required < 0 {
		required = 0
	}
	return emp.DrivingLevel >= required
}
