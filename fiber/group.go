package fiber

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/dynobj/config"
	"github.com/chazu/dynobj/object"
)

// Call is one function and its arguments for RunAll.
type Call struct {
	Fn   Func
	Args []object.Value
}

// RunAll runs calls as fibers of parent with at most limit running at
// once (no limit if limit < 1). Results come back in call order. The
// first failure cancels fibers that have not started yet and is
// returned.
func RunAll(ctx context.Context, parent *object.Space, calls []Call, limit int) ([]object.Value, error) {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	fibers := make([]*Fiber, 0, len(calls))
	for _, c := range calls {
		if gctx.Err() != nil {
			break
		}
		f, err := prepare(parent, c.Args)
		if err != nil {
			g.Wait()
			return nil, err
		}
		fibers = append(fibers, f)
		fn := c.Fn
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				close(f.done)
				return err
			}
			f.run(fn)
			return f.err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]object.Value, len(fibers))
	for i, f := range fibers {
		v, err := f.join()
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

// Runner runs batches of calls with the concurrency limit from
// [fiber] max-concurrent.
type Runner struct {
	limit int
}

// NewRunner creates a Runner configured by cfg.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{limit: cfg.Fiber.MaxConcurrent}
}

// Limit returns the maximum number of fibers run at once.
func (r *Runner) Limit() int { return r.limit }

// RunAll is the package-level RunAll with the runner's limit.
func (r *Runner) RunAll(ctx context.Context, parent *object.Space, calls []Call) ([]object.Value, error) {
	return RunAll(ctx, parent, calls, r.limit)
}
