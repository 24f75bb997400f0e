// Package enrich fans company lookups out over a bounded worker pool and
// reassembles results into original row order.
package enrich

import (
	"github.com/google/uuid"

	"github.com/sells-group/headcount/internal/model"
)

// Job is one upload's end-to-end enrichment run. It is owned exclusively
// by the request that created it and discarded once the response is
// produced; nothing about it survives a restart. Total is fixed at
// creation.
type Job struct {
	ID      string
	Country string
	Records []model.CompanyRecord
	Total   int
}

// NewJob creates a job over the ingested records. The record slice is
// assumed to carry dense ordinals 0..n-1 as produced by the ingestor.
func NewJob(country string, records []model.CompanyRecord) *Job {
	return &Job{
		ID:      uuid.New().String(),
		Country: country,
		Records: records,
		Total:   len(records),
	}
}

// Complete reports whether every record has reached a terminal state.
func (j *Job) Complete() bool {
	for _, rec := range j.Records {
		if !rec.Status.Terminal() {
			return false
		}
	}
	return true
}

// Counts tallies records by terminal status.
func (j *Job) Counts() (resolved, notFound, failed int) {
	for _, rec := range j.Records {
		switch rec.Status {
		case model.StatusResolved:
			resolved++
		case model.StatusNotFound:
			notFound++
		case model.StatusFailed:
			failed++
		}
	}
	return resolved, notFound, failed
}
