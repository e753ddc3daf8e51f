package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_KeysDoNotCollideOnSeparator(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Operation{Establishment: "A_B", CostCenter: CodeDescription{Code: "C"}, ComputedLaborHours: 1})
	agg.Add(Operation{Establishment: "A", CostCenter: CodeDescription{Code: "B_C"}, ComputedLaborHours: 2})

	require.Len(t, agg.Aggregates(), 2)
}

func TestAggregator_FirstSeenOrderAndDescription(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Operation{Establishment: "01", CostCenter: CodeDescription{Code: "Z", Description: "first"}, ComputedLaborHours: 1, ComputedMachineHours: 2})
	agg.Add(Operation{Establishment: "01", CostCenter: CodeDescription{Code: "A", Description: "second"}, ComputedLaborHours: 0.5})
	agg.Add(Operation{Establishment: "01", CostCenter: CodeDescription{Code: "Z", Description: "later"}, ComputedMachineHours: 4})

	got := agg.Aggregates()
	require.Len(t, got, 2)

	assert.Equal(t, CostCenterAggregate{Establishment: "01", Code: "Z", Description: "first", TotalHours: 7, LaborHours: 1, MachineHours: 6}, got[0])
	assert.Equal(t, CostCenterAggregate{Establishment: "01", Code: "A", Description: "second", TotalHours: 0.5, LaborHours: 0.5}, got[1])

	totals := agg.Totals()
	assert.Equal(t, Totals{TotalHours: 7.5, LaborHours: 1.5, MachineHours: 6}, totals)
}

func TestAggregator_AggregatesIsACopy(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Operation{Establishment: "01", CostCenter: CodeDescription{Code: "X"}, ComputedLaborHours: 1})

	got := agg.Aggregates()
	got[0].LaborHours = 99

	assert.Equal(t, 1.0, agg.Aggregates()[0].LaborHours)
}
