package structure

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/bomengine/internal/hours"
)

const (
	// DefaultMaxTraversalDepth bounds the number of levels the Builder will
	// expand, regardless of what the source returns.
	DefaultMaxTraversalDepth = 50
	// DefaultConcurrency is the number of source calls in flight per frontier.
	DefaultConcurrency = 8
)

// BuilderOptions tunes a Builder. Zero values select the defaults.
type BuilderOptions struct {
	MaxTraversalDepth int
	Concurrency       int
}

// Builder explodes product structures breadth-first over a Source.
type Builder struct {
	source Source
	opts   BuilderOptions
	logger *zap.Logger
	now    func() time.Time
}

// NewBuilder returns a Builder reading from source.
func NewBuilder(source Source, opts BuilderOptions, logger *zap.Logger) *Builder {
	if opts.MaxTraversalDepth <= 0 {
		opts.MaxTraversalDepth = DefaultMaxTraversalDepth
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{source: source, opts: opts, logger: logger, now: time.Now}
}

// fetched holds the source rows for one frontier node.
type fetched struct {
	operations []OperationRecord
	components []ComponentRecord
}

// Build explodes code. Components whose validity period does not cover
// referenceDate are left out; a zero referenceDate keeps every component.
//
// Each level is fetched concurrently and merged in frontier order once every
// fetch of that level has returned, so the tree never depends on completion
// order. Any source failure aborts the build.
func (b *Builder) Build(ctx context.Context, code string, referenceDate time.Time) (*Result, error) {
	started := b.now()
	logger := b.logger.With(zap.String("code", code))

	rec, ok, err := b.source.FetchRoot(ctx, code)
	if err != nil {
		return nil, &DataAccessError{Call: "fetch root", Code: code, Err: err}
	}
	if !ok {
		return nil, &NotFoundError{Code: code}
	}

	root := &Node{
		Code:                rec.Code,
		Establishment:       rec.Establishment,
		Description:         rec.Description,
		UnitOfMeasure:       rec.UnitOfMeasure,
		ItemType:            rec.ItemType,
		ComponentType:       ComponentTypeFinished,
		Level:               0,
		AccumulatedQuantity: 1,
		Operations:          []Operation{},
		Children:            []*Node{},
	}

	day := truncateDay(referenceDate)
	agg := NewAggregator()
	nodeCount, operationCount, level := 1, 0, 0
	frontier := []*Node{root}

	for len(frontier) > 0 && level < b.opts.MaxTraversalDepth {
		if err := ctx.Err(); err != nil {
			return nil, &DataAccessError{Call: "explode", Code: code, Err: err}
		}

		// Nodes on the last permitted level keep their operations but are not expanded.
		expand := level+1 < b.opts.MaxTraversalDepth
		rows, err := b.fetchFrontier(ctx, frontier, expand)
		if err != nil {
			return nil, err
		}

		var next []*Node
		for i, parent := range frontier {
			for _, opRec := range rows[i].operations {
				op := newOperation(opRec, parent.AccumulatedQuantity)
				parent.Operations = append(parent.Operations, op)
				agg.Add(op)
				operationCount++
			}
			for _, compRec := range rows[i].components {
				if !effectiveOn(compRec, day) {
					continue
				}
				child := newChild(parent, compRec)
				parent.Children = append(parent.Children, child)
				next = append(next, child)
				nodeCount++
			}
		}

		logger.Debug("frontier expanded",
			zap.Int("level", level),
			zap.Int("width", len(frontier)),
			zap.Int("next_width", len(next)))

		frontier = next
		level++
	}

	if len(frontier) > 0 {
		logger.Warn("traversal depth cap reached",
			zap.Int("max_depth", b.opts.MaxTraversalDepth),
			zap.Int("unexpanded", len(frontier)))
	}

	result := &Result{
		Root:           root,
		CostAggregates: agg.Aggregates(),
		Totals:         agg.Totals(),
		Metadata: Metadata{
			GeneratedAt:       b.now().UTC(),
			QueriedCode:       code,
			ReferenceDate:     formatDay(day),
			RootEstablishment: root.Establishment,
			LevelCount:        level,
			NodeCount:         nodeCount,
			OperationCount:    operationCount,
		},
	}

	logger.Info("structure exploded",
		zap.Int("levels", level),
		zap.Int("nodes", nodeCount),
		zap.Int("operations", operationCount),
		zap.Duration("duration", b.now().Sub(started)))

	return result, nil
}

func (b *Builder) fetchFrontier(ctx context.Context, frontier []*Node, expand bool) ([]fetched, error) {
	rows := make([]fetched, len(frontier))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)
	for i, n := range frontier {
		code := n.Code
		g.Go(func() error {
			ops, err := b.source.FetchOperations(gctx, code)
			if err != nil {
				return &DataAccessError{Call: "fetch operations", Code: code, Err: err}
			}
			rows[i].operations = ops
			return nil
		})
		if !expand {
			continue
		}
		g.Go(func() error {
			comps, err := b.source.FetchComponents(gctx, code)
			if err != nil {
				return &DataAccessError{Call: "fetch components", Code: code, Err: err}
			}
			rows[i].components = comps
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func newOperation(rec OperationRecord, quantity float64) Operation {
	unit := hours.Unit(rec.TimeUnit)
	h := hours.Calculate(hours.Input{
		Quantity:      quantity,
		LaborTime:     rec.LaborTime,
		MachineTime:   rec.MachineTime,
		Proportion:    rec.Proportion,
		ResourceUnits: rec.ResourceUnits,
		Unit:          unit,
	})

	return Operation{
		Code:                 rec.Code,
		Description:          rec.Description,
		Establishment:        rec.Establishment,
		LaborTimeRaw:         rec.LaborTime,
		MachineTimeRaw:       rec.MachineTime,
		TimeUnit:             unit,
		Proportion:           rec.Proportion,
		ResourceUnits:        rec.ResourceUnits,
		LaborHeadcount:       rec.LaborHeadcount,
		UnitOfMeasure:        rec.UnitOfMeasure,
		CostCenter:           CodeDescription{Code: rec.CostCenterCode, Description: rec.CostCenterDescription},
		MachineGroup:         CodeDescription{Code: rec.MachineGroupCode, Description: rec.MachineGroupDescription},
		ComputedLaborHours:   h.LaborHours,
		ComputedMachineHours: h.MachineHours,
	}
}

// newChild builds the node for rec under parent. A missing quantity counts as zero.
func newChild(parent *Node, rec ComponentRecord) *Node {
	qty := 0.0
	if rec.QuantityPerParent != nil {
		qty = *rec.QuantityPerParent
	}

	return &Node{
		Code:                rec.Code,
		Establishment:       rec.Establishment,
		Description:         rec.Description,
		UnitOfMeasure:       rec.UnitOfMeasure,
		ItemType:            rec.ItemType,
		ParentItemType:      rec.ParentItemType,
		ComponentType:       ComponentTypeComponent,
		Level:               parent.Level + 1,
		StructureQuantity:   &qty,
		AccumulatedQuantity: parent.AccumulatedQuantity * qty,
		ValidFrom:           rec.ValidFrom,
		ValidTo:             rec.ValidTo,
		Operations:          []Operation{},
		Children:            []*Node{},
	}
}

func effectiveOn(rec ComponentRecord, day time.Time) bool {
	if day.IsZero() {
		return true
	}
	if rec.ValidFrom != nil && day.Before(truncateDay(*rec.ValidFrom)) {
		return false
	}
	if rec.ValidTo != nil && day.After(truncateDay(*rec.ValidTo)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
