package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/headcount/internal/model"
	"github.com/sells-group/headcount/internal/store"
)

func TestCachedClient_Hit_SkipsInner(t *testing.T) {
	st := &mockStore{}
	st.On("GetCount", mock.Anything, "apple", "japan").
		Return(&store.CachedCount{Company: "apple", Country: "japan", EmployeeCount: 25000}, nil).Once()

	inner := &StubClient{Outcomes: map[string]model.Outcome{
		"apple": model.Resolved(999), // must not be reached
	}}

	c := NewCachedClient(inner, st, time.Hour)
	out := c.Lookup(context.Background(), "Apple", "Japan")

	assert.Equal(t, model.OutcomeResolved, out.Kind)
	assert.Equal(t, 25000, out.Count)
	st.AssertExpectations(t)
}

func TestCachedClient_Miss_CachesResolved(t *testing.T) {
	st := &mockStore{}
	st.On("GetCount", mock.Anything, "apple", "japan").Return(nil, nil).Once()
	st.On("SetCount", mock.Anything, "apple", "japan", 25000, time.Hour).Return(nil).Once()

	inner := &StubClient{Outcomes: map[string]model.Outcome{
		"apple": model.Resolved(25000),
	}}

	c := NewCachedClient(inner, st, time.Hour)
	out := c.Lookup(context.Background(), "Apple", "Japan")

	assert.Equal(t, 25000, out.Count)
	st.AssertExpectations(t)
}

func TestCachedClient_NotFound_NotCached(t *testing.T) {
	st := &mockStore{}
	st.On("GetCount", mock.Anything, "ghost co", "japan").Return(nil, nil).Once()

	inner := &StubClient{Outcomes: map[string]model.Outcome{
		"ghost co": model.NotFound(),
	}}

	c := NewCachedClient(inner, st, time.Hour)
	out := c.Lookup(context.Background(), "Ghost Co", "Japan")

	assert.Equal(t, model.OutcomeNotFound, out.Kind)
	st.AssertNotCalled(t, "SetCount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedClient_Failed_NotCached(t *testing.T) {
	st := &mockStore{}
	st.On("GetCount", mock.Anything, "broken co", "japan").Return(nil, nil).Once()

	inner := &StubClient{Outcomes: map[string]model.Outcome{
		"broken co": model.Failed("upstream error"),
	}}

	c := NewCachedClient(inner, st, time.Hour)
	out := c.Lookup(context.Background(), "Broken Co", "Japan")

	assert.Equal(t, model.OutcomeFailed, out.Kind)
	st.AssertNotCalled(t, "SetCount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedClient_ReadError_FallsThrough(t *testing.T) {
	st := &mockStore{}
	st.On("GetCount", mock.Anything, "apple", "japan").Return(nil, errors.New("db gone")).Once()
	st.On("SetCount", mock.Anything, "apple", "japan", 42, mock.Anything).Return(nil).Once()

	inner := &StubClient{Outcomes: map[string]model.Outcome{
		"apple": model.Resolved(42),
	}}

	c := NewCachedClient(inner, st, time.Hour)
	out := c.Lookup(context.Background(), "Apple", "Japan")

	assert.Equal(t, 42, out.Count)
	st.AssertExpectations(t)
}

func TestCachedClient_WriteError_DoesNotFailRow(t *testing.T) {
	st := &mockStore{}
	st.On("GetCount", mock.Anything, "apple", "japan").Return(nil, nil).Once()
	st.On("SetCount", mock.Anything, "apple", "japan", 42, mock.Anything).Return(errors.New("disk full")).Once()

	inner := &StubClient{Outcomes: map[string]model.Outcome{
		"apple": model.Resolved(42),
	}}

	c := NewCachedClient(inner, st, time.Hour)
	out := c.Lookup(context.Background(), "Apple", "Japan")

	assert.Equal(t, model.OutcomeResolved, out.Kind)
	st.AssertExpectations(t)
}

func TestCachedClient_KeyNormalization(t *testing.T) {
	st := &mockStore{}
	st.On("GetCount", mock.Anything, "apple inc", "japan").Return(nil, nil).Once()
	st.On("SetCount", mock.Anything, "apple inc", "japan", mock.Anything, mock.Anything).Return(nil).Once()

	c := NewCachedClient(&StubClient{}, st, time.Hour)
	c.Lookup(context.Background(), "  Apple Inc ", " JAPAN ")

	st.AssertExpectations(t)
}

func TestCachedClient_DefaultTTL(t *testing.T) {
	st := &mockStore{}
	st.On("GetCount", mock.Anything, "apple", "japan").Return(nil, nil).Once()
	st.On("SetCount", mock.Anything, "apple", "japan", mock.Anything, DefaultCacheTTL).Return(nil).Once()

	c := NewCachedClient(&StubClient{}, st, 0)
	c.Lookup(context.Background(), "Apple", "Japan")

	st.AssertExpectations(t)
}
