// Package lookup resolves a company name and country to an employee count
// via the Anthropic API, with retry, rate limiting, and result caching.
package lookup

import (
	"context"

	"github.com/sells-group/headcount/internal/model"
)

// Client resolves one company to an employee-count outcome. Implementations
// must classify every call into exactly one of Resolved, NotFound, or
// Failed; transport and parse errors surface as Failed outcomes, never as
// panics or partial states.
type Client interface {
	Lookup(ctx context.Context, name, country string) model.Outcome
}
