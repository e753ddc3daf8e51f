package structure

import (
	"strings"
	"time"
)

// PathSeparator joins codes in FlatNode paths.
const PathSeparator = "/"

// FlatNode is a Node without children, located by its breadcrumb path.
type FlatNode struct {
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
	LaborHours          float64     `json:"laborHours"`
	MachineHours        float64     `json:"machineHours"`
	Path                string      `json:"path"`
	ParentPath          *string     `json:"parentPath"`
}

// Flatten lists the tree of r in pre-order: each parent precedes its
// children, and siblings keep their order.
func Flatten(r *Result) []FlatNode {
	if r == nil || r.Root == nil {
		return nil
	}
	out := make([]FlatNode, 0, r.Metadata.NodeCount)
	return appendFlat(out, r.Root, nil)
}

func appendFlat(out []FlatNode, n *Node, ancestors []string) []FlatNode {
	var parentPath *string
	if len(ancestors) > 0 {
		p := strings.Join(ancestors, PathSeparator)
		parentPath = &p
	}

	crumbs := make([]string, len(ancestors), len(ancestors)+1)
	copy(crumbs, ancestors)
	crumbs = append(crumbs, n.Code)

	ops := make([]Operation, len(n.Operations))
	copy(ops, n.Operations)

	flat := FlatNode{
		Code:                n.Code,
		Establishment:       n.Establishment,
		Description:         n.Description,
		UnitOfMeasure:       n.UnitOfMeasure,
		ItemType:            n.ItemType,
		ParentItemType:      n.ParentItemType,
		ComponentType:       n.ComponentType,
		Level:               n.Level,
		StructureQuantity:   n.StructureQuantity,
		AccumulatedQuantity: n.AccumulatedQuantity,
		ValidFrom:           n.ValidFrom,
		ValidTo:             n.ValidTo,
		Operations:          ops,
		Path:                strings.Join(crumbs, PathSeparator),
		ParentPath:          parentPath,
	}
	for _, op := range n.Operations {
		flat.LaborHours += op.ComputedLaborHours
		flat.MachineHours += op.ComputedMachineHours
	}
	out = append(out, flat)

	for _, child := range n.Children {
		out = appendFlat(out, child, crumbs)
	}
	return out
}
