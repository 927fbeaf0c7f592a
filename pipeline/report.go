package pipeline

import (
	"sync"
	"time"
)

// Failure records one paper that a stage could not process.
type Failure struct {
	PaperID string
	Reason  string
}

// StageReport collects the per-record outcomes of one stage run. Its
// mutators are safe for concurrent use by a stage's worker pool.
type StageReport struct {
	// Stage names the stage that produced this report.
	Stage string

	// Processed is the number of records the stage attempted.
	Processed int

	// Succeeded lists the paper ids the stage advanced.
	Succeeded []string

	// Failed lists the papers the stage gave up on this run, with the
	// reason. Failed papers stay in the backlog for the next run.
	Failed []Failure

	// Err carries a stage-level failure (e.g. the feed being down) that
	// prevented the stage from running at all.
	Err string

	mu sync.Mutex
}

func newStageReport(stage string) *StageReport {
	return &StageReport{Stage: stage}
}

func (r *StageReport) success(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Processed++
	r.Succeeded = append(r.Succeeded, id)
}

func (r *StageReport) fail(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Processed++
	r.Failed = append(r.Failed, Failure{PaperID: id, Reason: err.Error()})
}

// Degraded reports whether the stage made no progress at all: a
// stage-level error, or failures with not a single success. Scattered
// per-paper failures with progress elsewhere are normal operation.
func (r *StageReport) Degraded() bool {
	return r.Err != "" || (len(r.Failed) > 0 && len(r.Succeeded) == 0)
}

// RunReport aggregates the stage reports of one pipeline run.
type RunReport struct {
	Fetch     *StageReport
	Extract   *StageReport
	Summarize *StageReport

	Started time.Time
	Elapsed time.Duration
}

func (r *RunReport) stages() []*StageReport {
	return []*StageReport{r.Fetch, r.Extract, r.Summarize}
}

// Degraded reports whether any stage had a stage-level error or gave up
// on any paper.
func (r *RunReport) Degraded() bool {
	for _, stage := range r.stages() {
		if stage != nil && stage.Degraded() {
			return true
		}
	}
	return false
}

// FailedPapers returns every per-paper failure across all stages.
func (r *RunReport) FailedPapers() []Failure {
	var failures []Failure
	for _, stage := range r.stages() {
		if stage != nil {
			failures = append(failures, stage.Failed...)
		}
	}
	return failures
}
