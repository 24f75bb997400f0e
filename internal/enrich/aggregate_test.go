package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/headcount/internal/model"
)

func TestAggregate_OutOfOrderResults(t *testing.T) {
	job := NewJob("JP", pendingRecords("Apple", "Samsung", "Toyota"))

	// Results arrive in reverse completion order.
	Aggregate(job, []model.LookupResult{
		{Ordinal: 2, Outcome: model.Resolved(30000)},
		{Ordinal: 0, Outcome: model.Resolved(25000)},
		{Ordinal: 1, Outcome: model.Resolved(45000)},
	})

	require.True(t, job.Complete())
	assert.Equal(t, 25000, *job.Records[0].EmployeeCount)
	assert.Equal(t, 45000, *job.Records[1].EmployeeCount)
	assert.Equal(t, 30000, *job.Records[2].EmployeeCount)
}

func TestAggregate_MixedOutcomes(t *testing.T) {
	job := NewJob("JP", pendingRecords("A", "B", "C"))

	Aggregate(job, []model.LookupResult{
		{Ordinal: 0, Outcome: model.Resolved(10)},
		{Ordinal: 1, Outcome: model.NotFound()},
		{Ordinal: 2, Outcome: model.Failed("boom")},
	})

	assert.Equal(t, model.StatusResolved, job.Records[0].Status)
	assert.Equal(t, model.StatusNotFound, job.Records[1].Status)
	assert.Equal(t, model.StatusFailed, job.Records[2].Status)
	assert.Nil(t, job.Records[1].EmployeeCount)
	assert.Nil(t, job.Records[2].EmployeeCount)
}

func TestAggregate_IgnoresUnknownOrdinals(t *testing.T) {
	job := NewJob("JP", pendingRecords("A"))

	Aggregate(job, []model.LookupResult{
		{Ordinal: -1, Outcome: model.Resolved(1)},
		{Ordinal: 5, Outcome: model.Resolved(2)},
		{Ordinal: 0, Outcome: model.Resolved(3)},
	})

	require.True(t, job.Complete())
	assert.Equal(t, 3, *job.Records[0].EmployeeCount)
}

func TestAggregate_TerminalRecordsStayPut(t *testing.T) {
	job := NewJob("JP", pendingRecords("A"))

	Aggregate(job, []model.LookupResult{{Ordinal: 0, Outcome: model.Resolved(100)}})
	Aggregate(job, []model.LookupResult{{Ordinal: 0, Outcome: model.Failed("late duplicate")}})

	assert.Equal(t, model.StatusResolved, job.Records[0].Status)
	assert.Equal(t, 100, *job.Records[0].EmployeeCount)
}

func TestAggregate_CountValueIsCopied(t *testing.T) {
	job := NewJob("JP", pendingRecords("A", "B"))

	Aggregate(job, []model.LookupResult{
		{Ordinal: 0, Outcome: model.Resolved(1)},
		{Ordinal: 1, Outcome: model.Resolved(2)},
	})

	// Pointers must not alias each other.
	assert.NotSame(t, job.Records[0].EmployeeCount, job.Records[1].EmployeeCount)
}

func TestJob_Complete(t *testing.T) {
	job := NewJob("JP", pendingRecords("A", "B"))
	assert.False(t, job.Complete())

	Aggregate(job, []model.LookupResult{{Ordinal: 0, Outcome: model.Resolved(1)}})
	assert.False(t, job.Complete())

	Aggregate(job, []model.LookupResult{{Ordinal: 1, Outcome: model.NotFound()}})
	assert.True(t, job.Complete())
}

func TestNewJob_AssignsID(t *testing.T) {
	a := NewJob("JP", nil)
	b := NewJob("JP", nil)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Zero(t, a.Total)
}
