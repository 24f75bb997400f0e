package lookup

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/headcount/internal/model"
	"github.com/sells-group/headcount/internal/resilience"
	"github.com/sells-group/headcount/pkg/anthropic"
)

const (
	defaultModel     = "claude-haiku-4-5-20251001"
	defaultMaxTokens = 300
)

// systemPrompt primes the model for employee-count questions. It is sent
// with a cache breakpoint since it is identical across every lookup in a job.
const systemPrompt = "You are a helpful assistant with accurate knowledge about major companies and their employee counts in different countries. When you know the approximate number, provide it. Only respond with 'Unknown' if you really have no information about the company's presence in that country."

// questionTemplate is the per-company user message.
const questionTemplate = "How many employees does %s have in %s? Respond with ONLY a number. If you're absolutely not sure, respond with 'Unknown'. For major tech companies like Google, Meta/Facebook, Amazon, etc., you should have approximate numbers. For regional companies like Singtel, Seek, JobStreet, etc., focus on their presence in the specified country."

// ClaudeClient implements Client against the Anthropic API.
type ClaudeClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
	breaker   *resilience.CircuitBreaker
	retry     resilience.RetryConfig
}

// ClaudeOption configures the client.
type ClaudeOption func(*ClaudeClient)

// WithModel overrides the default model.
func WithModel(m string) ClaudeOption {
	return func(c *ClaudeClient) {
		if m != "" {
			c.model = m
		}
	}
}

// WithMaxTokens overrides the default response token budget.
func WithMaxTokens(n int64) ClaudeOption {
	return func(c *ClaudeClient) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithRateLimit caps outbound requests per second across all workers.
func WithRateLimit(rps float64) ClaudeOption {
	return func(c *ClaudeClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithRetryConfig overrides the retry behavior.
func WithRetryConfig(cfg resilience.RetryConfig) ClaudeOption {
	return func(c *ClaudeClient) {
		c.retry = cfg
	}
}

// WithCircuitBreaker installs a circuit breaker around the transport.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) ClaudeOption {
	return func(c *ClaudeClient) {
		c.breaker = cb
	}
}

// NewClaudeClient creates a lookup client backed by the given Anthropic
// client.
func NewClaudeClient(client anthropic.Client, opts ...ClaudeOption) *ClaudeClient {
	c := &ClaudeClient{
		client:    client,
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
		retry:     resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("anthropic", "lookup")
	}
	return c
}

// Lookup asks the model for the company's employee count in the given
// country. Transient failures (429, 5xx, timeouts) are retried with
// backoff up to the configured bound; everything else fails immediately.
// The returned outcome is always terminal.
func (c *ClaudeClient) Lookup(ctx context.Context, name, country string) model.Outcome {
	temperature := 0.0
	req := anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: &temperature,
		System: []anthropic.SystemBlock{
			{Text: systemPrompt, CacheControl: &anthropic.CacheControl{TTL: "5m"}},
		},
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(questionTemplate, name, country)},
		},
	}

	resp, err := resilience.Do(ctx, c.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		if c.breaker != nil {
			return resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
				return c.createMessage(ctx, req)
			})
		}
		return c.createMessage(ctx, req)
	})
	if err != nil {
		zap.L().Warn("lookup failed",
			zap.String("company", name),
			zap.String("country", country),
			zap.Error(err),
		)
		return model.Failed(err.Error())
	}

	resp.Usage.LogCost(c.model, "headcount_lookup")

	text := resp.Text()
	switch parsed := ParseCount(text); parsed.Kind {
	case ParseResolved:
		return model.Resolved(parsed.Count)
	case ParseNotFound:
		return model.NotFound()
	default:
		zap.L().Warn("unparseable lookup response",
			zap.String("company", name),
			zap.String("response", truncate(text, 200)),
		)
		return model.Failed("unparseable response")
	}
}

// createMessage performs one API call and classifies its error as
// transient or permanent for the retry loop.
func (c *ClaudeClient) createMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	resp, err := c.client.CreateMessage(ctx, req)
	if err != nil {
		return nil, classifyError(ctx, err)
	}
	return resp, nil
}

func classifyError(ctx context.Context, err error) error {
	if apiErr, ok := anthropic.AsAPIError(err); ok {
		if resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
			return resilience.NewTransientError(err, apiErr.StatusCode)
		}
		return resilience.NewPermanentError(err)
	}

	// A per-request deadline counts as transient: the next attempt may
	// succeed within the parent context.
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return resilience.NewTransientError(err, 0)
	}

	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
