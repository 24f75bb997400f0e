package lookup

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/headcount/internal/model"
	"github.com/sells-group/headcount/internal/store"
)

// DefaultCacheTTL matches the 24-hour freshness window for cached counts.
const DefaultCacheTTL = 24 * time.Hour

// CachedClient wraps another Client with a persistent result cache keyed
// by normalized company name and country. Only resolved outcomes are
// cached; NotFound and Failed always go back to the live service on the
// next request. Cache errors degrade to a live lookup and never fail the
// row.
type CachedClient struct {
	inner Client
	store store.Store
	ttl   time.Duration
}

// NewCachedClient wraps inner with the given cache store. A non-positive
// ttl falls back to DefaultCacheTTL.
func NewCachedClient(inner Client, st store.Store, ttl time.Duration) *CachedClient {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedClient{inner: inner, store: st, ttl: ttl}
}

func (c *CachedClient) Lookup(ctx context.Context, name, country string) model.Outcome {
	company, ctry := cacheKey(name, country)

	cached, err := c.store.GetCount(ctx, company, ctry)
	if err != nil {
		zap.L().Warn("lookup cache read failed", zap.String("company", name), zap.Error(err))
	} else if cached != nil {
		zap.L().Debug("lookup cache hit",
			zap.String("company", name),
			zap.String("country", country),
			zap.Int("employee_count", cached.EmployeeCount),
		)
		return model.Resolved(cached.EmployeeCount)
	}

	out := c.inner.Lookup(ctx, name, country)

	if out.Kind == model.OutcomeResolved {
		if err := c.store.SetCount(ctx, company, ctry, out.Count, c.ttl); err != nil {
			zap.L().Warn("lookup cache write failed", zap.String("company", name), zap.Error(err))
		}
	}

	return out
}

func cacheKey(name, country string) (string, string) {
	return strings.ToLower(strings.TrimSpace(name)), strings.ToLower(strings.TrimSpace(country))
}
