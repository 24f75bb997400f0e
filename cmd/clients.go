package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/headcount/internal/lookup"
	"github.com/sells-group/headcount/internal/resilience"
	"github.com/sells-group/headcount/internal/store"
	"github.com/sells-group/headcount/pkg/anthropic"
)

// lookupEnv holds the initialized lookup client and the resources behind it.
type lookupEnv struct {
	Client lookup.Client
	Store  store.Store // nil when caching is disabled
}

// Close releases resources held by the environment.
func (le *lookupEnv) Close() {
	if le.Store != nil {
		_ = le.Store.Close()
	}
}

// initLookup builds the lookup client stack from config: an Anthropic
// client with rate limiting, retry, and a circuit breaker, wrapped by the
// persistent result cache unless the store driver is "none".
func initLookup(ctx context.Context) (*lookupEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	retryCfg := resilience.DefaultRetryConfig()
	if cfg.Lookup.MaxAttempts > 0 {
		retryCfg.MaxAttempts = cfg.Lookup.MaxAttempts
	}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: cfg.Lookup.BreakerFailures,
		ResetTimeout:     time.Duration(cfg.Lookup.BreakerResetSecs) * time.Second,
		OnStateChange: func(from, to resilience.CircuitState) {
			zap.L().Warn("lookup circuit state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	client := lookup.NewClaudeClient(
		anthropic.NewClient(cfg.Anthropic.Key),
		lookup.WithModel(cfg.Anthropic.Model),
		lookup.WithMaxTokens(cfg.Anthropic.MaxTokens),
		lookup.WithRateLimit(cfg.Lookup.RateLimitRPS),
		lookup.WithRetryConfig(retryCfg),
		lookup.WithCircuitBreaker(breaker),
	)

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return &lookupEnv{Client: client}, nil
	}

	ttl := time.Duration(cfg.Lookup.CacheTTLHours) * time.Hour
	return &lookupEnv{
		Client: lookup.NewCachedClient(client, st, ttl),
		Store:  st,
	}, nil
}

// initOfflineLookup builds a stub-backed environment for runs without API
// keys.
func initOfflineLookup() *lookupEnv {
	zap.L().Info("offline mode: using stub lookup client")
	return &lookupEnv{Client: &lookup.StubClient{}}
}

// initStore opens the configured cache backend, runs migrations, and
// sweeps expired rows. Returns nil for the "none" driver.
func initStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	var err error

	switch cfg.Store.Driver {
	case "none":
		return nil, nil
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
	case "sqlite", "":
		st, err = store.NewSQLite(cfg.Store.Path)
	default:
		return nil, eris.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	if n, err := st.DeleteExpired(ctx); err != nil {
		zap.L().Warn("sweep expired cache entries", zap.Error(err))
	} else if n > 0 {
		zap.L().Info("swept expired cache entries", zap.Int("deleted", n))
	}

	return st, nil
}
