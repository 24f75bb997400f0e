// Package model defines the core types shared across the enrichment pipeline.
package model

// RecordStatus represents the lifecycle state of a single CSV row.
// Records transition from pending to exactly one terminal state and
// never revert.
type RecordStatus string

const (
	StatusPending  RecordStatus = "pending"
	StatusResolved RecordStatus = "resolved"
	StatusNotFound RecordStatus = "not_found"
	StatusFailed   RecordStatus = "failed"
)

// Terminal reports whether the status is one of the end states.
func (s RecordStatus) Terminal() bool {
	return s == StatusResolved || s == StatusNotFound || s == StatusFailed
}

// CompanyRecord tracks one input row through the pipeline. Ordinal is the
// row's position in the original upload (dense, 0..n-1) and is immutable
// once assigned; it is the correlation key for reassembly.
type CompanyRecord struct {
	Ordinal       int          `json:"ordinal"`
	Name          string       `json:"name"`
	Country       string       `json:"country"`
	EmployeeCount *int         `json:"employee_count,omitempty"`
	Status        RecordStatus `json:"status"`
}

// OutcomeKind classifies the result of one external lookup.
type OutcomeKind string

const (
	OutcomeResolved OutcomeKind = "resolved"
	OutcomeNotFound OutcomeKind = "not_found"
	OutcomeFailed   OutcomeKind = "failed"
)

// Outcome is the classified result of a single lookup. Count is only
// meaningful when Kind is OutcomeResolved; Reason only when Kind is
// OutcomeFailed.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Count  int         `json:"count,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

// Resolved builds a resolved outcome with a non-negative employee count.
func Resolved(count int) Outcome {
	return Outcome{Kind: OutcomeResolved, Count: count}
}

// NotFound builds an outcome for companies the service has no data for.
func NotFound() Outcome {
	return Outcome{Kind: OutcomeNotFound}
}

// Failed builds an outcome for lookups that errored out.
func Failed(reason string) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason}
}

// LookupRequest identifies one lookup to perform. Ordinal correlates the
// result back to the originating row.
type LookupRequest struct {
	Ordinal int    `json:"ordinal"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// LookupResult pairs an outcome with the ordinal it belongs to.
type LookupResult struct {
	Ordinal int     `json:"ordinal"`
	Outcome Outcome `json:"outcome"`
}
