package export

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

// CollectAll reads every page of q from source. The first page gives the
// total count; the remaining pages are fetched in parallel, at most
// concurrency at a time, and returned in page order.
func CollectAll(ctx context.Context, source storage.Source, q storage.Query, concurrency int) ([]storage.Row, []string, error) {
	const op = "service.export.CollectAll"

	if q.Limit <= 0 {
		q.Limit = 500
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	q.Page = 1
	first, err := source.Fetch(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: page 1: %w", op, err)
	}

	pages := (first.Count + q.Limit - 1) / q.Limit
	if pages <= 1 {
		return first.Data, first.Columns, nil
	}

	results := make([][]storage.Row, pages)
	results[0] = first.Data

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for p := 2; p <= pages; p++ {
		pq := q
		pq.Page = p
		g.Go(func() error {
			res, err := source.Fetch(gCtx, pq)
			if err != nil {
				return fmt.Errorf("page %d: %w", pq.Page, err)
			}
			results[pq.Page-1] = res.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]storage.Row, 0, first.Count)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, first.Columns, nil
}
