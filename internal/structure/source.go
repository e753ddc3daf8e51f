package structure

import (
	"context"
	"time"
)

// RootRecord identifies the item an explosion starts from.
type RootRecord struct {
	Code          string
	Establishment string
	Description   string
	UnitOfMeasure string
	ItemType      string
}

// ComponentRecord is one direct child of an item. QuantityPerParent is nil
// when the source row carries no quantity.
type ComponentRecord struct {
	Code              string
	Establishment     string
	Description       string
	UnitOfMeasure     string
	ItemType          string
	ParentItemType    string
	QuantityPerParent *float64
	ValidFrom         *time.Time
	ValidTo           *time.Time
}

// OperationRecord is a manufacturing operation as stored in the source.
type OperationRecord struct {
	Code                    string
	Description             string
	Establishment           string
	LaborTime               float64
	MachineTime             float64
	TimeUnit                int
	Proportion              float64
	ResourceUnits           int
	LaborHeadcount          int
	CostCenterCode          string
	CostCenterDescription   string
	MachineGroupCode        string
	MachineGroupDescription string
	UnitOfMeasure           string
}

// Source is the read-only structure data the Builder explodes.
// Calls are independent: no snapshot is shared between them.
type Source interface {
	// FetchRoot returns ok=false when code does not exist.
	FetchRoot(ctx context.Context, code string) (RootRecord, bool, error)
	FetchComponents(ctx context.Context, code string) ([]ComponentRecord, error)
	FetchOperations(ctx context.Context, code string) ([]OperationRecord, error)
}
