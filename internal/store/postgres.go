package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Simplici0/bomengine/internal/structure"
)

var (
	pgRootQuery       = bind(rootQuery, "$1")
	pgComponentsQuery = bind(componentsQuery, "$1")
	pgOperationsQuery = bind(operationsQuery, "$1")
)

// Postgres reads structures through a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Source backed by pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) FetchRoot(ctx context.Context, code string) (structure.RootRecord, bool, error) {
	var rec structure.RootRecord
	err := p.pool.QueryRow(ctx, pgRootQuery, code).Scan(
		&rec.Code,
		&rec.Establishment,
		&rec.Description,
		&rec.UnitOfMeasure,
		&rec.ItemType,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return structure.RootRecord{}, false, nil
	}
	if err != nil {
		return structure.RootRecord{}, false, fmt.Errorf("query root item: %w", err)
	}
	return rec, true, nil
}

func (p *Postgres) FetchComponents(ctx context.Context, code string) ([]structure.ComponentRecord, error) {
	rows, err := p.pool.Query(ctx, pgComponentsQuery, code)
	if err != nil {
		return nil, fmt.Errorf("query components: %w", err)
	}
	defer rows.Close()

	components := make([]structure.ComponentRecord, 0)
	for rows.Next() {
		var (
			rec       structure.ComponentRecord
			validFrom *string
			validTo   *string
		)
		if err := rows.Scan(
			&rec.Code,
			&rec.Establishment,
			&rec.Description,
			&rec.UnitOfMeasure,
			&rec.ItemType,
			&rec.ParentItemType,
			&rec.QuantityPerParent,
			&validFrom,
			&validTo,
		); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		if validFrom != nil {
			if rec.ValidFrom, err = parseDay(*validFrom); err != nil {
				return nil, err
			}
		}
		if validTo != nil {
			if rec.ValidTo, err = parseDay(*validTo); err != nil {
				return nil, err
			}
		}
		components = append(components, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate components: %w", err)
	}

	return components, nil
}

func (p *Postgres) FetchOperations(ctx context.Context, code string) ([]structure.OperationRecord, error) {
	rows, err := p.pool.Query(ctx, pgOperationsQuery, code)
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
