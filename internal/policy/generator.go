// Package policy assembles row-level security policies from a condition
// tree, a target table and a schema catalog.
package policy

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tordrt/rlsgen/internal/condition"
	"github.com/tordrt/rlsgen/internal/join"
	"github.com/tordrt/rlsgen/internal/schema"
)

// ErrUnresolvedJoins is returned by a strict generator when a referenced
// table could not be joined.
var ErrUnresolvedJoins = errors.New("unresolved joins")

// Generator turns Inputs into CREATE POLICY statements. The zero value is
// not usable; use NewGenerator. A Generator is safe for concurrent use.
type Generator struct {
	observer Observer
	strict   bool
	workers  int
}

// Option configures a Generator
type Option func(*Generator)

// WithObserver reports every generation to o
func WithObserver(o Observer) Option {
	return func(g *Generator) {
		g.observer = o
	}
}

// WithStrictJoins makes missing relationships fail generation instead of
// being returned as warnings.
func WithStrictJoins() Option {
	return func(g *Generator) {
		g.strict = true
	}
}

// WithWorkers bounds the concurrency of GenerateAll
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// NewGenerator creates a generator
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = NewGenerator()

// Generate generates in with the default generator
func Generate(in Input) (*Result, error) {
	return defaultGenerator.Generate(in)
}

// Generate renders in as
//
//	CREATE POLICY "<name>" ON <table> AS <TYPE> FOR <ops> TO authenticated
//	USING (EXISTS (SELECT 1 FROM <from> WHERE <where>));
//
// on a single line. Name, table and operations are not validated: empty
// values produce malformed SQL. A malformed condition tree fails the whole
// call with a *condition.InvalidConditionError.
func (g *Generator) Generate(in Input) (*Result, error) {
	start := time.Now()
	res, err := g.generate(in)
	if g.observer != nil {
		g.observer.Observe(Event{Input: in, Result: res, Err: err, Duration: time.Since(start)})
	}
	return res, err
}

func (g *Generator) generate(in Input) (*Result, error) {
	policyType, err := in.Type.SQL()
	if err != nil {
		return nil, err
	}

	tree := in.ConditionTree()
	where, err := condition.Compile(tree)
	if err != nil {
		return nil, err
	}

	plan := join.Resolve(tree, in.Table, &schema.Schema{Tables: in.Tables})
	if g.strict && len(plan.Warnings) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrUnresolvedJoins, errors.Join(plan.Warnings...))
	}
	from := plan.SQL()

	sql := fmt.Sprintf(
		`CREATE POLICY "%s" ON %s AS %s FOR %s TO authenticated USING (EXISTS (SELECT 1 FROM %s WHERE %s));`,
		in.Name, in.Table, policyType, in.Operations, from, where,
	)

	return &Result{
		SQL:      normalizeSpace(sql),
		From:     from,
		Where:    where,
		Warnings: plan.Warnings,
	}, nil
}

// GenerateAll generates every input concurrently and returns the results in
// input order. The first failure cancels the remaining work.
func (g *Generator) GenerateAll(ctx context.Context, inputs []Input) ([]*Result, error) {
	results := make([]*Result, len(inputs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i, in := range inputs {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			res, err := g.Generate(in)
			if err != nil {
				return fmt.Errorf("policy %q: %w", in.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// normalizeSpace collapses whitespace runs to one space and trims the ends.
// Quoted literals get no special treatment, so every fragment is normalized
// the same way whatever precedes it.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
