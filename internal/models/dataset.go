package models

// Dataset is everything produced by one generation run.
type Dataset struct {
	RunID           string            `json:"run_id"`
	Subjects        []*Subject        `json:"subjects"`
	Classes         []*Class          `json:"classes"`
	Terms           []*Term           `json:"terms"`
	Teachers        []*Teacher        `json:"teachers"`
	Parents         []*Parent         `json:"parents"`
	Students        []*Student        `json:"students"`
	TimeAllocations []*TimeAllocation `json:"time_allocations"`
	Assessments     []*Assessment     `json:"assessments"`
}

// MaxIncomeLevel returns the highest income level among the parents, or 0.
func (d *Dataset) MaxIncomeLevel() int {
	max := 0
	for _, p := range d.Parents {
		if p.IncomeLevel > max {
			max = p.IncomeLevel
		}
	}
	return max
}

// ParentByID returns the parent with the given id.
func (d *Dataset) ParentByID(id int) (*Parent, bool) {
	for _, p := range d.Parents {
		if p.ParentID == id {
			return p, true
		}
	}
	return nil, false
}
