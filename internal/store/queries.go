// Package store implements structure.Source over the relational structure schema.
package store

import (
	"fmt"
	"strings"
	"time"
)

// Each query takes the item code as its only parameter, written as %[1]s.
const (
	rootQuery = `
		SELECT code, establishment, description, unit_of_measure, item_type
		FROM items
		WHERE code = %[1]s
	`

	componentsQuery = `
		SELECT
			c.component_code,
			COALESCE(i.establishment, ''),
			COALESCE(i.description, ''),
			COALESCE(i.unit_of_measure, ''),
			COALESCE(i.item_type, ''),
			COALESCE(p.item_type, ''),
			c.quantity_per_parent,
			c.valid_from,
			c.valid_to
		FROM structure_components c
		LEFT JOIN items i ON i.code = c.component_code
		LEFT JOIN items p ON p.code = c.parent_code
		WHERE c.parent_code = %[1]s
		ORDER BY c.sequence, c.component_code
	`

	operationsQuery = `
		SELECT
			o.op_code,
			o.description,
			o.establishment,
			o.labor_time,
			o.machine_time,
			o.time_unit,
			o.proportion,
			o.resource_units,
			o.labor_headcount,
			o.cost_center_code,
			COALESCE(cc.description, ''),
			o.machine_group_code,
			COALESCE(mg.description, ''),
			o.unit_of_measure
		FROM operations o
		LEFT JOIN cost_centers cc ON cc.establishment = o.establishment AND cc.code = o.cost_center_code
		LEFT JOIN machine_groups mg ON mg.establishment = o.establishment AND mg.code = o.machine_group_code
		WHERE o.item_code = %[1]s
		ORDER BY o.sequence, o.op_code
	`
)

func bind(query, placeholder string) string {
	return fmt.Sprintf(query, placeholder)
}

// parseDay reads a stored YYYY-MM-DD value. Longer values such as
// timestamps are cut to their date part.
func parseDay(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if len(raw) > len(time.DateOnly) {
		raw = raw[:len(time.DateOnly)]
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("parse validity date %q: %w", raw, err)
	}
	return &day, nil
}
