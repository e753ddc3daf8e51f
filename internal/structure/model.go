package structure

import (
	"time"

	"github.com/Simplici0/bomengine/internal/hours"
)

const (
	ComponentTypeFinished  = "finished"
	ComponentTypeComponent = "component"
)

// Node is one item in an exploded product structure.
type Node struct {
	Code                string      `json:"code"`
	Establishment       string      `json:"establishment"`
	Description         string      `json:"description"`
	UnitOfMeasure       string      `json:"unitOfMeasure"`
	ItemType            string      `json:"itemType"`
	ParentItemType      string      `json:"parentItemType,omitempty"`
	ComponentType       string      `json:"componentType"`
	Level               int         `json:"level"`
	StructureQuantity   *float64    `json:"structureQuantity"`
	AccumulatedQuantity float64     `json:"accumulatedQuantity"`
	ValidFrom           *time.Time  `json:"validFrom,omitempty"`
	ValidTo             *time.Time  `json:"validTo,omitempty"`
	Operations          []Operation `json:"operations"`
	Children            []*Node     `json:"children"`
}

// CodeDescription pairs a code with its display description.
type CodeDescription struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Operation is a manufacturing step declared on a node, with its hours
// scaled to the node's accumulated quantity.
type Operation struct {
	Code                 string          `json:"code"`
	Description          string          `json:"description"`
	Establishment        string          `json:"establishment"`
	LaborTimeRaw         float64         `json:"laborTimeRaw"`
	MachineTimeRaw       float64         `json:"machineTimeRaw"`
	TimeUnit             hours.Unit      `json:"timeUnitCode"`
	Proportion           float64         `json:"proportion"`
	ResourceUnits        int             `json:"resourceUnits"`
	LaborHeadcount       int             `json:"laborHeadcount"`
	UnitOfMeasure        string          `json:"unitOfMeasure,omitempty"`
	CostCenter           CodeDescription `json:"costCenter"`
	MachineGroup         CodeDescription `json:"machineGroup"`
	ComputedLaborHours   float64         `json:"computedLaborHours"`
	ComputedMachineHours float64         `json:"computedMachineHours"`
}

// CostCenterAggregate holds the hours attributed to one cost center of one establishment.
type CostCenterAggregate struct {
	Establishment string  `json:"establishment"`
	Code          string  `json:"code"`
	Description   string  `json:"description"`
	TotalHours    float64 `json:"totalHours"`
	LaborHours    float64 `json:"laborHours"`
	MachineHours  float64 `json:"machineHours"`
}

// Totals is the roll-up of every cost center aggregate.
type Totals struct {
	TotalHours   float64 `json:"totalHours"`
	LaborHours   float64 `json:"laborHours"`
	MachineHours float64 `json:"machineHours"`
}

// Metadata describes how a result was produced.
type Metadata struct {
	GeneratedAt       time.Time `json:"generatedAt"`
	QueriedCode       string    `json:"queriedCode"`
	ReferenceDate     string    `json:"referenceDate"`
	RootEstablishment string    `json:"rootEstablishment"`
	LevelCount        int       `json:"levelCount"`
	NodeCount         int       `json:"nodeCount"`
	OperationCount    int       `json:"operationCount"`
}

// Result is the output of one explosion.
type Result struct {
	Root           *Node                 `json:"root"`
	CostAggregates []CostCenterAggregate `json:"costAggregates"`
	Totals         Totals                `json:"totals"`
	Metadata       Metadata              `json:"metadata"`
}

// Summary is a result without its tree.
type Summary struct {
	Metadata       Metadata              `json:"metadata"`
	CostAggregates []CostCenterAggregate `json:"costAggregates"`
	Totals         Totals                `json:"totals"`
}

// Summarize drops the tree from r.
func Summarize(r *Result) Summary {
	aggregates := make([]CostCenterAggregate, len(r.CostAggregates))
	copy(aggregates, r.CostAggregates)
	return Summary{
		Metadata:       r.Metadata,
		CostAggregates: aggregates,
		Totals:         r.Totals,
	}
}
