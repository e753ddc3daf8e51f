package structure

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxStructureLevels is the deepest structure the business accepts.
// Deeper results usually mean circular source data.
const DefaultMaxStructureLevels = 20

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	MaxTraversalDepth  int
	MaxStructureLevels int
	Concurrency        int
	MaxCodeLength      int
}

// Engine validates explosion requests, builds the structure and applies the
// business depth rule.
type Engine struct {
	builder   *Builder
	maxLevels int
	maxCode   int
	now       func() time.Time
}

// NewEngine returns an Engine reading from source.
func NewEngine(source Source, opts Options, logger *zap.Logger) *Engine {
	if opts.MaxStructureLevels <= 0 {
		opts.MaxStructureLevels = DefaultMaxStructureLevels
	}
	if opts.MaxCodeLength <= 0 {
		opts.MaxCodeLength = DefaultMaxCodeLength
	}

	return &Engine{
		builder: NewBuilder(source, BuilderOptions{
			MaxTraversalDepth: opts.MaxTraversalDepth,
			Concurrency:       opts.Concurrency,
		}, logger),
		maxLevels: opts.MaxStructureLevels,
		maxCode:   opts.MaxCodeLength,
		now:       time.Now,
	}
}

// Explode validates code and referenceDate, then explodes the structure.
func (e *Engine) Explode(ctx context.Context, code, referenceDate string) (*Result, error) {
	code, err := ValidateItemCode(code, e.maxCode)
	if err != nil {
		return nil, err
	}
	day, err := ValidateReferenceDate(referenceDate, e.now())
	if err != nil {
		return nil, err
	}

	result, err := e.builder.Build(ctx, code, day)
	if err != nil {
		return nil, err
	}
	if err := CheckDepth(result, e.maxLevels); err != nil {
		return nil, err
	}
	return result, nil
}

// CheckDepth rejects results with more than maxLevels levels.
func CheckDepth(r *Result, maxLevels int) error {
	if r.Metadata.LevelCount > maxLevels {
		return &BusinessRuleError{
			Rule:   RuleMaxDepthExceeded,
			Limit:  maxLevels,
			Actual: r.Metadata.LevelCount,
		}
	}
	return nil
}
