package reconcile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/centraldesktop/fattailsync/pkg/errors"
)

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Row counts
	Processed int               // Rows that entered the pipeline
	Succeeded int               // Rows that reached DONE
	Blank     int               // Rows without a client id, ignored
	Skipped   []*errors.RowError // Rows abandoned after a failure

	// Remote writes
	Created          map[string]int // Edge entities created, by kind
	Linked           map[string]int // FatTail records updated with a handle, by kind
	MilestoneUpdates int            // Existing milestones updated

	Warnings []error

	StartTime time.Time
	EndTime   time.Time
}

// NewResult returns an empty result started now.
func NewResult() *Result {
	return &Result{
		Created:   make(map[string]int),
		Linked:    make(map[string]int),
		StartTime: time.Now(),
	}
}

// Duration returns how long the pass took.
func (r *Result) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// HasFailures reports whether any row was skipped.
func (r *Result) HasFailures() bool {
	return len(r.Skipped) > 0
}

// Summary returns a one-line human-readable summary.
func (r *Result) Summary() string {
	summary := fmt.Sprintf("%d rows processed: %d succeeded, %d skipped", r.Processed, r.Succeeded, len(r.Skipped))
	if r.Blank > 0 {
		summary += fmt.Sprintf(", %d blank", r.Blank)
	}

	summary += fmt.Sprintf("; created %d accounts, %d workspaces, %d milestones",
		r.Created[KindAccount], r.Created[KindWorkspace], r.Created[KindMilestone])
	summary += fmt.Sprintf("; linked %d clients, %d orders, %d drops",
		r.Linked[KindClient], r.Linked[KindOrder], r.Linked[KindDrop])
	summary += fmt.Sprintf("; %d milestone updates; %d warnings", r.MilestoneUpdates, len(r.Warnings))

	return summary
}

// Rows returns one table row per skipped data row: row number, stage, error.
func (r *Result) Rows() [][]string {
	rows := make([][]string, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		msg := ""
		if s.Err != nil {
			msg = s.Err.Error()
		}
		rows = append(rows, []string{strconv.Itoa(s.Row), s.Stage, strings.TrimSpace(msg)})
	}
	return rows
}
