package structure

type costCenterKey struct {
	establishment string
	code          string
}

// Aggregator sums operation hours per (establishment, cost center) in
// first-seen order. It is not safe for concurrent use.
type Aggregator struct {
	index   map[costCenterKey]int
	entries []CostCenterAggregate
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{index: make(map[costCenterKey]int)}
}

// Add accumulates the computed hours of op.
func (a *Aggregator) Add(op Operation) {
	key := costCenterKey{establishment: op.Establishment, code: op.CostCenter.Code}
	i, ok := a.index[key]
	if !ok {
		i = len(a.entries)
		a.index[key] = i
		a.entries = append(a.entries, CostCenterAggregate{
			Establishment: op.Establishment,
			Code:          op.CostCenter.Code,
			Description:   op.CostCenter.Description,
		})
	}

	entry := &a.entries[i]
	entry.LaborHours += op.ComputedLaborHours
	entry.MachineHours += op.ComputedMachineHours
	entry.TotalHours += op.ComputedLaborHours + op.ComputedMachineHours
}

// Aggregates returns a copy of the accumulated entries.
func (a *Aggregator) Aggregates() []CostCenterAggregate {
	out := make([]CostCenterAggregate, len(a.entries))
	copy(out, a.entries)
	return out
}

// Totals sums every aggregate in insertion order.
func (a *Aggregator) Totals() Totals {
	var t Totals
	for _, e := range a.entries {
		t.TotalHours += e.TotalHours
		t.LaborHours += e.LaborHours
		t.MachineHours += e.MachineHours
	}
	return t
}
