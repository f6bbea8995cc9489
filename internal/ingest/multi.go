package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/stephanjoseph/SaneHosts-sub000/internal/hostsfile"
)

// MultiResult is the outcome of ingesting several sources for one merged
// profile.
type MultiResult struct {
	// Collections holds one entry collection per source, indexed by the
	// caller's declaration order regardless of download completion order.
	Collections [][]hostsfile.Entry
	Processed   int
	Truncated   bool
}

// Merged returns the deduplicated union of all collections. First occurrence
// wins, in declaration order.
func (r *MultiResult) Merged() []hostsfile.Entry {
	return hostsfile.Merge(r.Collections...)
}

// FetchAll downloads every source in parallel. Results are slotted by source
// index so the subsequent merge is deterministic in declared order, never in
// completion order. A caller-supplied Progress sees one serialized, monotonic
// count summed across all sources, never per-source interleavings. If any
// source fails, the whole ingestion fails with the per-source errors
// aggregated; cancellation wins over other failures.
func FetchAll(ctx context.Context, f *Fetcher, sources []Source, opts Options) (*MultiResult, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources declared")
	}

	results := make([]*Result, len(sources))
	failures := make([]error, len(sources))
	progress := sharedProgress(opts.Progress)

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			srcOpts := opts
			srcOpts.Progress = progress()
			res, err := f.Fetch(gctx, src, srcOpts)
			if err != nil {
				failures[i] = &SourceError{Source: src, Err: err}
				return nil // keep sibling downloads running
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, ErrCanceled
	}

	var errs *multierror.Error
	for _, ferr := range failures {
		if ferr != nil {
			errs = multierror.Append(errs, ferr)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	out := &MultiResult{Collections: make([][]hostsfile.Entry, len(sources))}
	for i, res := range results {
		out.Collections[i] = res.Entries
		out.Processed += res.Processed
		out.Truncated = out.Truncated || res.Truncated
	}
	return out, nil
}

// sharedProgress folds the per-source cumulative counts Scan reports into one
// total and invokes cb under a lock, so concurrent sources produce a single
// monotonic sequence. Each source gets its own adapter from the returned
// factory; a nil cb yields nil adapters.
func sharedProgress(cb func(int)) func() func(int) {
	if cb == nil {
		return func() func(int) { return nil }
	}
	var mu sync.Mutex
	total := 0
	return func() func(int) {
		last := 0
		return func(processed int) {
			mu.Lock()
			total += processed - last
			last = processed
			cb(total)
			mu.Unlock()
		}
	}
}
