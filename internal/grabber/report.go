package grabber

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

type Status int

const (
	StatusSuccess Status = iota
	StatusSkipped        // origin answered with a non-200 status
	StatusFailed         // request, write or panic failure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of attempting one job.
type Outcome struct {
	Job        Job
	Status     Status
	StatusCode int
	Bytes      int64
	Err        error
	Finished   time.Time
}

// Report collects the outcome of every job of one Grab call, in job order.
type Report struct {
	Outcomes []Outcome
	Elapsed  time.Duration
}

func (r *Report) count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

func (r *Report) Succeeded() int { return r.count(StatusSuccess) }
func (r *Report) Skipped() int   { return r.count(StatusSkipped) }
func (r *Report) Failed() int    { return r.count(StatusFailed) }

// Bytes is the total written to disk.
func (r *Report) Bytes() int64 {
	var total int64
	for _, o := range r.Outcomes {
		total += o.Bytes
	}
	return total
}

// Problems returns every outcome that did not succeed.
func (r *Report) Problems() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status != StatusSuccess {
			out = append(out, o)
		}
	}
	return out
}

// Err joins the errors of every job that did not succeed, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Problems() {
		errs = append(errs, o.Err)
	}
	return errors.Join(errs...)
}

type resultSet struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func newResultSet(n int) *resultSet {
	return &resultSet{outcomes: make([]Outcome, n)}
}

func (r *resultSet) record(o Outcome) {
	o.Finished = time.Now()
	r.mu.Lock()
	r.outcomes[o.Job.Index] = o
	r.mu.Unlock()
}

func (r *resultSet) report(elapsed time.Duration) *Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	outcomes := make([]Outcome, len(r.outcomes))
	copy(outcomes, r.outcomes)
	return &Report{Outcomes: outcomes, Elapsed: elapsed}
}
