package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/marcin/taxdoc-validator/internal/correction"
	"github.com/marcin/taxdoc-validator/internal/types"
	"github.com/marcin/taxdoc-validator/internal/validation"
)

// DefaultBatchConcurrency bounds how many documents are validated at once.
const DefaultBatchConcurrency = 4

// RunBatch validates independent requests concurrently. Each run owns its
// own Context, so no state is shared between the goroutines; results are
// returned in request order.
func (o *Orchestrator) RunBatch(ctx context.Context, requests []types.ValidationRequest, corrector correction.Requester, concurrency int) ([]*types.PipelineResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]*types.PipelineResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range requests {
		i := i
		g.Go(func() error {
			req := &requests[i]
			if err := req.Validate(); err != nil {
				return fmt.Errorf("request %d is invalid: %w", i, err)
			}
			result, err := o.Run(gctx, validation.NewContext(req, corrector))
			if err != nil {
				return fmt.Errorf("request %d failed: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
