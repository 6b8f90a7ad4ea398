package thermal

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/metrics"
)

// BulkStatus is the outcome of one bulk item.
type BulkStatus string

const (
	BulkSuccess          BulkStatus = "success"
	BulkSkippedDuplicate BulkStatus = "skipped_duplicate"
	BulkFailed           BulkStatus = "failed"
)

// BulkResult reports one input item, at the same index it was submitted at.
type BulkResult[T any] struct {
	Index  int        `json:"index"`
	Status BulkStatus `json:"status"`
	Data   *T         `json:"data,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// BulkOptions control duplicate handling and payloads of a bulk insert.
type BulkOptions struct {
	SilenceDuplicates bool
	ReturnData        bool
}

// DefaultBulkOptions silences duplicates and returns the stored rows.
func DefaultBulkOptions() BulkOptions {
	return BulkOptions{SilenceDuplicates: true, ReturnData: true}
}

// runBulk inserts every item through insert with at most limit in flight. A failing item
// never cancels its siblings.
func runBulk[In, Out any](
	ctx context.Context,
	kind string,
	limit int,
	items []In,
	opts BulkOptions,
	insert func(context.Context, In) (Out, error),
) []BulkResult[Out] {
	results := make([]BulkResult[Out], len(items))
	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			res := BulkResult[Out]{Index: i, Status: BulkSuccess}
			out, err := insert(ctx, item)
			switch {
			case err == nil:
				if opts.ReturnData {
					res.Data = &out
				}
			case opts.SilenceDuplicates && apperr.IsKind(err, apperr.KindConflict):
				res.Status = BulkSkippedDuplicate
			default:
				res.Status = BulkFailed
				res.Error = err.Error()
			}
			metrics.BulkItemsTotal.WithLabelValues(kind, string(res.Status)).Inc()
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// BulkSummary counts results by status.
func BulkSummary[T any](results []BulkResult[T]) map[BulkStatus]int {
	out := make(map[BulkStatus]int, 3)
	for _, r := range results {
		out[r.Status]++
	}
	return out
}
