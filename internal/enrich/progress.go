package enrich

import (
	"math"
	"sync"
)

// Reporter derives percent-complete for one job. Completed only increases;
// the total is fixed at construction. OnChange fires only when the rounded
// percentage differs from the last emitted value, plus once more at
// Finish with 100. Safe for concurrent use by pool workers.
type Reporter struct {
	total    int
	onChange func(percent int)

	mu          sync.Mutex
	completed   int
	lastEmitted int
}

// NewReporter creates a reporter over a fixed total. onChange may be nil.
func NewReporter(total int, onChange func(percent int)) *Reporter {
	return &Reporter{
		total:       total,
		onChange:    onChange,
		lastEmitted: -1,
	}
}

// Complete records one finished lookup and emits the new percentage if it
// changed.
func (r *Reporter) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.completed < r.total {
		r.completed++
	}

	pct := r.percentLocked()
	if pct != r.lastEmitted {
		r.lastEmitted = pct
		if r.onChange != nil {
			r.onChange(pct)
		}
	}
}

// Finish emits the terminal 100% once more, regardless of what was emitted
// before.
func (r *Reporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastEmitted = 100
	if r.onChange != nil {
		r.onChange(100)
	}
}

// Completed returns the number of finished lookups.
func (r *Reporter) Completed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

// Percent returns the current rounded percentage.
func (r *Reporter) Percent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.percentLocked()
}

func (r *Reporter) percentLocked() int {
	if r.total <= 0 {
		return 100
	}
	return int(math.Round(100 * float64(r.completed) / float64(r.total)))
}
