package lookup

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/headcount/internal/store"
	"github.com/sells-group/headcount/pkg/anthropic"
)

// --- Anthropic Mock ---

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetCount(ctx context.Context, company, country string) (*store.CachedCount, error) {
	args := m.Called(ctx, company, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.CachedCount), args.Error(1)
}

func (m *mockStore) SetCount(ctx context.Context, company, country string, count int, ttl time.Duration) error {
	args := m.Called(ctx, company, country, count, ttl)
	return args.Error(0)
}

func (m *mockStore) DeleteExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// textResponse builds a single-text-block response.
func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		ID:    "msg_test",
		Model: defaultModel,
		Content: []anthropic.ContentBlock{
			{Type: "text", Text: text},
		},
		StopReason: "end_turn",
	}
}
