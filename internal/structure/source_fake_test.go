package structure

import (
	"context"
	"sync"
	"time"
)

// fakeSource serves an in-memory structure and records every call.
type fakeSource struct {
	roots      map[string]RootRecord
	components map[string][]ComponentRecord
	operations map[string][]OperationRecord

	componentErrs map[string]error
	operationErrs map[string]error
	delay         func(code string) time.Duration

	mu       sync.Mutex
	calls    []string
	events   []string
	inFlight int
	maxFlow  int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		roots:         make(map[string]RootRecord),
		components:    make(map[string][]ComponentRecord),
		operations:    make(map[string][]OperationRecord),
		componentErrs: make(map[string]error),
		operationErrs: make(map[string]error),
	}
}

func (f *fakeSource) addRoot(code string) {
	f.roots[code] = RootRecord{Code: code, Establishment: "01", Description: "item " + code, UnitOfMeasure: "UN", ItemType: "FIN"}
}

func (f *fakeSource) addComponent(parent, code string, qty float64) {
	q := qty
	f.components[parent] = append(f.components[parent], ComponentRecord{
		Code:              code,
		Establishment:     "01",
		Description:       "item " + code,
		UnitOfMeasure:     "UN",
		ItemType:          "CMP",
		ParentItemType:    "FIN",
		QuantityPerParent: &q,
	})
}

func (f *fakeSource) addOperation(code string, op OperationRecord) {
	f.operations[code] = append(f.operations[code], op)
}

func (f *fakeSource) enter(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.events = append(f.events, "start "+call)
	f.inFlight++
	if f.inFlight > f.maxFlow {
		f.maxFlow = f.inFlight
	}
	f.mu.Unlock()
}

func (f *fakeSource) leave(call string) {
	f.mu.Lock()
	f.events = append(f.events, "end "+call)
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeSource) wait(ctx context.Context, code string) error {
	if f.delay == nil {
		return nil
	}
	select {
	case <-time.After(f.delay(code)):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeSource) FetchRoot(_ context.Context, code string) (RootRecord, bool, error) {
	f.enter("root:" + code)
	defer f.leave("root:" + code)
	rec, ok := f.roots[code]
	return rec, ok, nil
}

func (f *fakeSource) FetchComponents(ctx context.Context, code string) ([]ComponentRecord, error) {
	f.enter("components:" + code)
	defer f.leave("components:" + code)
	if err := f.wait(ctx, code); err != nil {
		return nil, err
	}
	if err := f.componentErrs[code]; err != nil {
		return nil, err
	}
	return f.components[code], nil
}

func (f *fakeSource) FetchOperations(ctx context.Context, code string) ([]OperationRecord, error) {
	f.enter("operations:" + code)
	defer f.leave("operations:" + code)
	if err := f.wait(ctx, code); err != nil {
		return nil, err
	}
	if err := f.operationErrs[code]; err != nil {
		return nil, err
	}
	return f.operations[code], nil
}

func (f *fakeSource) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// eventLog returns start and end markers in the order they happened.
func (f *fakeSource) eventLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func (f *fakeSource) maxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxFlow
}

// chainSource answers every item with exactly one child, forever.
type chainSource struct{}

func (chainSource) FetchRoot(_ context.Context, code string) (RootRecord, bool, error) {
	return RootRecord{Code: code, Establishment: "01"}, true, nil
}

func (chainSource) FetchComponents(_ context.Context, code string) ([]ComponentRecord, error) {
	one := 1.0
	return []ComponentRecord{{Code: code + "x", Establishment: "01", QuantityPerParent: &one}}, nil
}

func (chainSource) FetchOperations(context.Context, string) ([]OperationRecord, error) {
	return nil, nil
}

// walk visits every node with its parent (nil for the root).
func walk(n *Node, parent *Node, visit func(n, parent *Node)) {
	visit(n, parent)
	for _, c := range n.Children {
		walk(c, n, visit)
	}
}
