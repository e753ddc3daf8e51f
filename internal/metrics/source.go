package metrics

import (
	"context"

	"github.com/Simplici0/bomengine/internal/structure"
)

// Source call labels.
const (
	CallRoot       = "root"
	CallComponents = "components"
	CallOperations = "operations"
)

// InstrumentedSource records every call made to the wrapped Source.
type InstrumentedSource struct {
	next    structure.Source
	metrics *Metrics
}

// Instrument wraps next so its calls are counted and timed.
func Instrument(next structure.Source, m *Metrics) *InstrumentedSource {
	return &InstrumentedSource{next: next, metrics: m}
}

func (s *InstrumentedSource) FetchRoot(ctx context.Context, code string) (structure.RootRecord, bool, error) {
	timer := NewTimer()
	rec, ok, err := s.next.FetchRoot(ctx, code)
	s.metrics.RecordSourceCall(CallRoot, err, timer.Duration())
	return rec, ok, err
}

func (s *InstrumentedSource) FetchComponents(ctx context.Context, code string) ([]structure.ComponentRecord, error) {
	timer := NewTimer()
	comps, err := s.next.FetchComponents(ctx, code)
	s.metrics.RecordSourceCall(CallComponents, err, timer.Duration())
	return comps, err
}

func (s *InstrumentedSource) FetchOperations(ctx context.Context, code string) ([]structure.OperationRecord, error) {
	timer := NewTimer()
	ops, err := s.next.FetchOperations(ctx, code)
	s.metrics.RecordSourceCall(CallOperations, err, timer.Duration())
	return ops, err
}
