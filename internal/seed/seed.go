package seed

import (
	"database/sql"
	"fmt"
)

const demoEstablishment = "01"

// DemoRootCode is the finished item created by Run.
const DemoRootCode = "BIKE-100"

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

type item struct {
	code, description, unit, itemType string
}

type component struct {
	parent, child string
	sequence      int
	quantity      float64
	validFrom     string
	validTo       string
}

type operation struct {
	item, code     string
	sequence       int
	description    string
	laborTime      float64
	machineTime    float64
	timeUnit       int
	proportion     float64
	resourceUnits  int
	laborHeadcount int
	costCenter     string
	machineGroup   string
}

var (
	demoCostCenters = [][2]string{
		{"ASM", "Final assembly"},
		{"WLD", "Welding"},
		{"PNT", "Paint shop"},
	}

	demoMachineGroups = [][2]string{
		{"BENCH", "Assembly benches"},
		{"ROBOT", "Welding robots"},
		{"BOOTH", "Paint booths"},
	}

	demoItems = []item{
		{DemoRootCode, "City bike", "UN", "FIN"},
		{"FRAME-10", "Welded frame", "UN", "SEMI"},
		{"TUBE-STEEL", "Steel tube 28mm", "M", "RAW"},
		{"WHEEL-26", "Wheel 26in", "UN", "SEMI"},
		{"SPOKE-2MM", "Spoke 2mm", "UN", "RAW"},
		{"RIM-26", "Rim 26in", "UN", "PUR"},
		{"PAINT-RED", "Red powder paint", "KG", "RAW"},
		{"SADDLE-OLD", "Saddle (discontinued)", "UN", "PUR"},
		{"SADDLE-NEW", "Saddle", "UN", "PUR"},
	}

	demoComponents = []component{
		{parent: DemoRootCode, child: "FRAME-10", sequence: 10, quantity: 1},
		{parent: DemoRootCode, child: "WHEEL-26", sequence: 20, quantity: 2},
		{parent: DemoRootCode, child: "SADDLE-OLD", sequence: 30, quantity: 1, validTo: "2023-12-31"},
		{parent: DemoRootCode, child: "SADDLE-NEW", sequence: 30, quantity: 1, validFrom: "2024-01-01"},
		{parent: "FRAME-10", child: "TUBE-STEEL", sequence: 10, quantity: 3.5},
		{parent: "FRAME-10", child: "PAINT-RED", sequence: 20, quantity: 0.4},
		{parent: "WHEEL-26", child: "SPOKE-2MM", sequence: 10, quantity: 32},
		{parent: "WHEEL-26", child: "RIM-26", sequence: 20, quantity: 1},
	}

	demoOperations = []operation{
		{item: DemoRootCode, code: "10", sequence: 10, description: "Assemble bike", laborTime: 45, machineTime: 0, timeUnit: 2, proportion: 100, resourceUnits: 1, laborHeadcount: 2, costCenter: "ASM", machineGroup: "BENCH"},
		{item: "FRAME-10", code: "10", sequence: 10, description: "Weld frame", laborTime: 0.5, machineTime: 0.75, timeUnit: 1, proportion: 100, resourceUnits: 1, laborHeadcount: 1, costCenter: "WLD", machineGroup: "ROBOT"},
		{item: "FRAME-10", code: "20", sequence: 20, description: "Paint frame", laborTime: 0.02, machineTime: 0.05, timeUnit: 4, proportion: 50, resourceUnits: 2, laborHeadcount: 1, costCenter: "PNT", machineGroup: "BOOTH"},
		{item: "WHEEL-26", code: "10", sequence: 10, description: "Lace wheel", laborTime: 1200, machineTime: 0, timeUnit: 3, proportion: 100, resourceUnits: 1, laborHeadcount: 1, costCenter: "ASM", machineGroup: "BENCH"},
	}
)

// Run loads the demo structure in an idempotent way.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureCodeTable(tx, "cost_centers", demoCostCenters, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureCodeTable(tx, "machine_groups", demoMachineGroups, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureItems(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureComponents(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureOperations(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureCodeTable(tx *sql.Tx, table string, rows [][2]string, stats *Stats) error {
	for _, row := range rows {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE establishment = ? AND code = ?)`, demoEstablishment, row[0]).Scan(&exists); err != nil {
			return fmt.Errorf("check %s existence: %w", table, err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`INSERT INTO `+table+` (establishment, code, description) VALUES (?, ?, ?)`, demoEstablishment, row[0], row[1]); err != nil {
			return fmt.Errorf("insert %s %s: %w", table, row[0], err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureItems(tx *sql.Tx, stats *Stats) error {
	for _, it := range demoItems {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM items WHERE code = ?)`, it.code).Scan(&exists); err != nil {
			return fmt.Errorf("check item existence: %w", err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO items (code, establishment, description, unit_of_measure, item_type)
			VALUES (?, ?, ?, ?, ?)
		`, it.code, demoEstablishment, it.description, it.unit, it.itemType); err != nil {
			return fmt.Errorf("insert item %s: %w", it.code, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureComponents(tx *sql.Tx, stats *Stats) error {
	for _, c := range demoComponents {
		var exists bool
		if err := tx.QueryRow(`
			SELECT EXISTS(
				SELECT 1
				FROM structure_components
				WHERE parent_code = ? AND component_code = ? AND sequence = ?
			)
		`, c.parent, c.child, c.sequence).Scan(&exists); err != nil {
			return fmt.Errorf("check component existence: %w", err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO structure_components (parent_code, component_code, sequence, quantity_per_parent, valid_from, valid_to)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.parent, c.child, c.sequence, c.quantity, nullIfEmpty(c.validFrom), nullIfEmpty(c.validTo)); err != nil {
			return fmt.Errorf("insert component %s/%s: %w", c.parent, c.child, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureOperations(tx *sql.Tx, stats *Stats) error {
	for _, op := range demoOperations {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM operations WHERE item_code = ? AND op_code = ?)`, op.item, op.code).Scan(&exists); err != nil {
			return fmt.Errorf("check operation existence: %w", err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO operations (
				item_code,
				op_code,
				sequence,
				description,
				establishment,
				labor_time,
				machine_time,
				time_unit,
				proportion,
				resource_units,
				labor_headcount,
				cost_center_code,
				machine_group_code,
				unit_of_measure
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			op.item,
			op.code,
			op.sequence,
			op.description,
			demoEstablishment,
			op.laborTime,
			op.machineTime,
			op.timeUnit,
			op.proportion,
			op.resourceUnits,
			op.laborHeadcount,
			op.costCenter,
			op.machineGroup,
			"UN",
		); err != nil {
			return fmt.Errorf("insert operation %s/%s: %w", op.item, op.code, err)
		}
		stats.Inserts++
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
