package loader

import "time"

// Status is the final state of one script's transaction.
type Status string

const (
	StatusCommitted  Status = "committed"
	StatusRolledBack Status = "rolled_back"
)

// LoadResult records the outcome of one script. It is filled in while the
// script runs and not touched after its transaction ends.
type LoadResult struct {
	File     string
	Status   Status
	Err      error  // Cause of a rollback
	Error    string // Err.Error(), kept for reporting
	Kind     string // Taxonomy bucket of Err, see Kind

	// Counts include work done before a rollback undid it.
	Rows       int // Rows inserted by \copy directives
	Skipped    int // Rows ignored by ON CONFLICT DO NOTHING
	Statements int // Plain SQL statements executed

	Checksum string // xxh3 of the script bytes, hex
	Duration time.Duration
}

// Committed reports whether the script's transaction committed.
func (r LoadResult) Committed() bool {
	return r.Status == StatusCommitted
}

func (r *LoadResult) fail(err error) {
	r.Status = StatusRolledBack
	r.Err = err
	r.Error = err.Error()
	r.Kind = Kind(err)
}

// RunSummary collects the results of one run, in execution order.
type RunSummary struct {
	RunID   string
	Results []LoadResult
}

// Failed returns the results that did not commit.
func (s RunSummary) Failed() []LoadResult {
	var failed []LoadResult
	for _, r := range s.Results {
		if !r.Committed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// OK reports whether every script committed. An empty run is OK.
func (s RunSummary) OK() bool {
	return len(s.Failed()) == 0
}
