package weather

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/pkg/logger"
	"github.com/doeshing/statusline-go/internal/ports"
)

// Fetcher resolves a plan through the cache, fetching misses concurrently.
type Fetcher struct {
	cache       ports.ResourceCache
	getter      Getter
	timeout     time.Duration
	concurrency int
	logger      ports.Logger
}

// NewFetcher builds a fetcher with a per-call timeout and a worker ceiling.
func NewFetcher(cache ports.ResourceCache, getter Getter, timeout time.Duration, concurrency int, log ports.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = domain.DefaultRequestTimeout
	}
	if concurrency <= 0 {
		concurrency = domain.DefaultFetchConcurrency
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Fetcher{
		cache:       cache,
		getter:      getter,
		timeout:     timeout,
		concurrency: concurrency,
		logger:      log,
	}
}

// FetchAll returns one result per request once every worker has finished.
// A failing or slow resource never affects the others.
func (f *Fetcher) FetchAll(ctx context.Context, credential string, requests []domain.ResourceRequest) domain.ResourceSet {
	results := make(domain.ResourceSet, len(requests))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for _, req := range requests {
		req := req
		g.Go(func() error {
			start := time.Now()
			payload, err := f.cache.GetOrFetch(ctx, req.CacheKey, req.TTL, func(ctx context.Context) ([]byte, error) {
				callCtx, cancel := context.WithTimeout(ctx, f.timeout)
				defer cancel()
				return f.getter.Get(callCtx, req.URL, credential)
			})
			fields := map[string]interface{}{
				"resource": string(req.Key),
				"elapsed":  time.Since(start).Round(time.Millisecond),
			}
			if err != nil {
				fields["error"] = err.Error()
				f.logger.Warn("resource unavailable", fields)
			} else {
				f.logger.Debug("resource ready", fields)
			}

			mu.Lock()
			results[req.Key] = domain.ResourceResult{Payload: payload, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

var _ ports.ResourceFetcher = (*Fetcher)(nil)
