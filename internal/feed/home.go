package feed

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

// IndexPageKey is the cache key of the rendered home feed first page
const IndexPageKey = "index_page"

// DefaultIndexTTL is how long a rendered home page is served from cache
const DefaultIndexTTL = 20 * time.Second

// Renderer serializes an assembled feed
type Renderer func(*Result) ([]byte, error)

// HomeFeed serves the global feed, caching the rendered first page
type HomeFeed struct {
	assembler *Assembler
	store     cache.Store
	ttl       time.Duration
	render    Renderer
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	logger    *zap.Logger
}

// NewHomeFeed creates the home feed. A nil store disables caching.
func NewHomeFeed(assembler *Assembler, store cache.Store, ttl time.Duration, render Renderer) *HomeFeed {
	return &HomeFeed{
		assembler: assembler,
		store:     store,
		ttl:       ttl,
		render:    render,
		hits:      telemetry.Counter("yatube_index_cache_hits_total", "Home feed page cache hits"),
		misses:    telemetry.Counter("yatube_index_cache_misses_total", "Home feed page cache misses"),
		logger:    logging.WithComponent("home-feed"),
	}
}

// Render returns the rendered home feed page. Page 1 may be up to ttl
// stale: post writes do not invalidate it.
func (h *HomeFeed) Render(ctx context.Context, page int) ([]byte, error) {
	if page != 1 || h.store == nil {
		return h.live(ctx, page)
	}

	body, ok, err := h.store.Get(ctx, IndexPageKey)
	if err != nil {
		h.logger.Warn("Page cache read failed", zap.Error(err))
	} else if ok {
		h.hits.Add(ctx, 1)
		return body, nil
	}
	h.misses.Add(ctx, 1)

	body, err = h.live(ctx, page)
	if err != nil {
		return nil, err
	}
	if err := h.store.Set(ctx, IndexPageKey, body, h.ttl); err != nil {
		h.logger.Warn("Page cache write failed", zap.Error(err))
	}
	return body, nil
}

// Clear drops every cached page
func (h *HomeFeed) Clear(ctx context.Context) error {
	if h.store == nil {
		return nil
	}
	return h.store.Clear(ctx)
}

func (h *HomeFeed) live(ctx context.Context, page int) ([]byte, error) {
	res, err := h.assembler.Assemble(ctx, GlobalScope(), page)
	if err != nil {
		return nil, err
	}
	return h.render(res)
}
