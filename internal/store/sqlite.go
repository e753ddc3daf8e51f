package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/bomengine/internal/structure"
)

var (
	sqliteRootQuery       = bind(rootQuery, "?")
	sqliteComponentsQuery = bind(componentsQuery, "?")
	sqliteOperationsQuery = bind(operationsQuery, "?")
)

// SQLite reads structures through database/sql. Any driver accepting "?"
// placeholders works; the service uses modernc.org/sqlite.
type SQLite struct {
	db *sql.DB
}

// NewSQLite returns a Source backed by db.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) FetchRoot(ctx context.Context, code string) (structure.RootRecord, bool, error) {
	var rec structure.RootRecord
	err := s.db.QueryRowContext(ctx, sqliteRootQuery, code).Scan(
		&rec.Code,
		&rec.Establishment,
		&rec.Description,
		&rec.UnitOfMeasure,
		&rec.ItemType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return structure.RootRecord{}, false, nil
	}
	if err != nil {
		return structure.RootRecord{}, false, fmt.Errorf("query root item: %w", err)
	}
	return rec, true, nil
}

func (s *SQLite) FetchComponents(ctx context.Context, code string) ([]structure.ComponentRecord, error) {
	rows, err := s.db.QueryContext(ctx, sqliteComponentsQuery, code)
	if err != nil {
		return nil, fmt.Errorf("query components: %w", err)
	}
	defer rows.Close()

	components := make([]structure.ComponentRecord, 0)
	for rows.Next() {
		var (
			rec       structure.ComponentRecord
			qty       sql.NullFloat64
			validFrom sql.NullString
			validTo   sql.NullString
		)
		if err := rows.Scan(
			&rec.Code,
			&rec.Establishment,
			&rec.Description,
			&rec.UnitOfMeasure,
			&rec.ItemType,
			&rec.ParentItemType,
			&qty,
			&validFrom,
			&validTo,
		); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		if qty.Valid {
			q := qty.Float64
			rec.QuantityPerParent = &q
		}
		if rec.ValidFrom, err = parseDay(validFrom.String); err != nil {
			return nil, err
		}
		if rec.ValidTo, err = parseDay(validTo.String); err != nil {
			return nil, err
		}
		components = append(components, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate components: %w", err)
	}

	return components, nil
}

func (s *SQLite) FetchOperations(ctx context.Context, code string) ([]structure.OperationRecord, error) {
	rows, err := s.db.QueryContext(ctx, sqliteOperationsQuery, code)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	operations := make([]structure.OperationRecord, 0)
	for rows.Next() {
		var rec structure.OperationRecord
		if err := rows.Scan(
			&rec.Code,
			&rec.Description,
			&rec.Establishment,
			&rec.LaborTime,
			&rec.MachineTime,
			&rec.TimeUnit,
			&rec.Proportion,
			&rec.ResourceUnits,
			&rec.LaborHeadcount,
			&rec.CostCenterCode,
			&rec.CostCenterDescription,
			&rec.MachineGroupCode,
			&rec.MachineGroupDescription,
			&rec.UnitOfMeasure,
		); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		operations = append(operations, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operations: %w", err)
	}

	return operations, nil
}
