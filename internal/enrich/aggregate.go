package enrich

import (
	"github.com/sells-group/headcount/internal/model"
)

// Aggregate applies lookup results to the job's records keyed by ordinal,
// independent of the order the results arrived in. Each record moves from
// pending to exactly one terminal state; results for unknown ordinals are
// ignored. NotFound and Failed leave the employee count absent.
func Aggregate(job *Job, results []model.LookupResult) {
	for _, res := range results {
		if res.Ordinal < 0 || res.Ordinal >= len(job.Records) {
			continue
		}
		rec := &job.Records[res.Ordinal]
		if rec.Status.Terminal() {
			continue
		}

		switch res.Outcome.Kind {
		case model.OutcomeResolved:
			count := res.Outcome.Count
			rec.EmployeeCount = &count
			rec.Status = model.StatusResolved
		case model.OutcomeNotFound:
			rec.Status = model.StatusNotFound
		default:
			rec.Status = model.StatusFailed
		}
	}
}
