// Package export renders flattened structures for spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Simplici0/bomengine/internal/structure"
)

// Header is the first CSV row written by WriteCSV.
var Header = []string{
	"level",
	"path",
	"parent_path",
	"code",
	"description",
	"establishment",
	"item_type",
	"component_type",
	"unit_of_measure",
	"structure_quantity",
	"accumulated_quantity",
	"valid_from",
	"valid_to",
	"operations",
	"labor_hours",
	"machine_hours",
}

// WriteCSV writes one row per node, in the order given.
func WriteCSV(w io.Writer, nodes []structure.FlatNode) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, n := range nodes {
		if err := cw.Write(row(n)); err != nil {
			return fmt.Errorf("write csv row %s: %w", n.Path, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func row(n structure.FlatNode) []string {
	parentPath := ""
	if n.ParentPath != nil {
		parentPath = *n.ParentPath
	}
	structureQty := ""
	if n.StructureQuantity != nil {
		structureQty = formatFloat(*n.StructureQuantity)
	}

	return []string{
		strconv.Itoa(n.Level),
		n.Path,
		parentPath,
		n.Code,
		n.Description,
		n.Establishment,
		n.ItemType,
		n.ComponentType,
		n.UnitOfMeasure,
		structureQty,
		formatFloat(n.AccumulatedQuantity),
		formatDate(n.ValidFrom),
		formatDate(n.ValidTo),
		strconv.Itoa(len(n.Operations)),
		formatFloat(n.LaborHours),
		formatFloat(n.MachineHours),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
