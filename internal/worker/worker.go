package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/shapes-cli/api/schemas"
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/editor"
	"github.com/xkilldash9x/shapes-cli/internal/shapes"
)

// DefaultConcurrency is used when the caller asks for zero workers.
const DefaultConcurrency = 4

// Result is the outcome of parsing one value of a batch.
type Result struct {
	Index  int                     `json:"index"`
	Input  string                  `json:"input"`
	Report *schemas.GeometryReport `json:"report,omitempty"`
	Error  string                  `json:"error,omitempty"`
	Err    error                   `json:"-"`
}

// Pool parses batches of shape values against one target element.
type Pool struct {
	target      layout.Element
	concurrency int
	logger      *zap.Logger
	opts        []editor.Option
}

// NewPool returns a pool running at most concurrency parses at once.
// Editor options are handed to every editor the pool creates.
func NewPool(target layout.Element, concurrency int, logger *zap.Logger, opts ...editor.Option) *Pool {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		target:      target,
		concurrency: concurrency,
		logger:      logger.With(zap.String("component", "worker")),
		opts:        opts,
	}
}

// ParseAll parses every value with its own editor. Results come back in
// input order. A value that fails to parse is recorded on its Result and
// does not stop the batch; only cancellation of ctx does.
func (p *Pool) ParseAll(ctx context.Context, values []string) ([]Result, error) {
	results := make([]Result, len(values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, value := range values {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.parseOne(i, value)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	p.logger.Info("Batch parsed", zap.Int("values", len(values)), zap.Int("failed", failed))
	return results, nil
}

func (p *Pool) parseOne(i int, value string) Result {
	r := Result{Index: i, Input: value}
	fail := func(err error) Result {
		r.Err, r.Error = err, err.Error()
		p.logger.Debug("Value rejected", zap.Int("index", i), zap.Error(err))
		return r
	}

	e, err := editor.New(p.target, value, p.opts...)
	if err != nil {
		return fail(err)
	}
	defer func() { _ = e.Remove() }()

	g := e.Geometry()
	box, _ := g.RefBox()
	conv, err := shapes.ConverterFor(p.target, box)
	if err != nil {
		return fail(fmt.Errorf("building converter: %w", err))
	}
	report := shapes.Report(g, conv)
	r.Report = &report
	return r
}

// ParseAll is a one-shot batch parse with a fresh pool.
func ParseAll(ctx context.Context, target layout.Element, values []string, concurrency int, logger *zap.Logger, opts ...editor.Option) ([]Result, error) {
	return NewPool(target, concurrency, logger, opts...).ParseAll(ctx, values)
}
