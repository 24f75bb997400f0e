package lookup

import (
	"context"
	"hash/fnv"
	"strings"
	"time"

	"github.com/sells-group/headcount/internal/model"
)

// Compile-time interface checks.
var (
	_ Client = (*ClaudeClient)(nil)
	_ Client = (*CachedClient)(nil)
	_ Client = (*StubClient)(nil)
)

// StubClient implements Client with canned outcomes for offline runs and
// tests. Companies without a configured outcome get a deterministic
// pseudo-count derived from the name, so repeated runs over the same input
// produce identical output.
type StubClient struct {
	// Outcomes maps lowercased company names to fixed outcomes.
	Outcomes map[string]model.Outcome

	// Delay simulates external latency per lookup.
	Delay time.Duration
}

func (s *StubClient) Lookup(ctx context.Context, name, country string) model.Outcome {
	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			return model.Failed(ctx.Err().Error())
		case <-time.After(s.Delay):
		}
	}

	if out, ok := s.Outcomes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return out
	}

	return model.Resolved(pseudoCount(name))
}

// pseudoCount derives a stable plausible headcount from the company name.
func pseudoCount(name string) int {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return 100 + int(h.Sum32()%100000)
}
