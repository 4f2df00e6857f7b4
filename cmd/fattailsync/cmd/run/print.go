package run

import (
	"fmt"
	"io"

	"github.com/centraldesktop/fattailsync"
	"github.com/centraldesktop/fattailsync/internal/output"
)

// resultView is the printable form of a sync result.
type resultView struct {
	Processed        int            `json:"processed" yaml:"processed"`
	Succeeded        int            `json:"succeeded" yaml:"succeeded"`
	Blank            int            `json:"blank" yaml:"blank"`
	Created          map[string]int `json:"created" yaml:"created"`
	Linked           map[string]int `json:"linked" yaml:"linked"`
	MilestoneUpdates int            `json:"milestone_updates" yaml:"milestone_updates"`
	Warnings         []string       `json:"warnings" yaml:"warnings"`
	Skipped          []skippedRow   `json:"skipped" yaml:"skipped"`
	Duration         string         `json:"duration" yaml:"duration"`
}

type skippedRow struct {
	Row   int    `json:"row" yaml:"row"`
	Stage string `json:"stage" yaml:"stage"`
	Error string `json:"error" yaml:"error"`
}

func newResultView(r *fattailsync.Result) resultView {
	view := resultView{
		Processed:        r.Processed,
		Succeeded:        r.Succeeded,
		Blank:            r.Blank,
		Created:          r.Created,
		Linked:           r.Linked,
		MilestoneUpdates: r.MilestoneUpdates,
		Warnings:         make([]string, 0, len(r.Warnings)),
		Skipped:          make([]skippedRow, 0, len(r.Skipped)),
		Duration:         r.Duration().String(),
	}
	for _, w := range r.Warnings {
		view.Warnings = append(view.Warnings, w.Error())
	}
	for _, s := range r.Skipped {
		row := skippedRow{Row: s.Row, Stage: s.Stage}
		if s.Err != nil {
			row.Error = s.Err.Error()
		}
		view.Skipped = append(view.Skipped, row)
	}
	return view
}

// printResult writes the result. Tables get the summary line followed by the
// skipped rows, if any.
func printResult(w io.Writer, format output.Format, r *fattailsync.Result) error {
	if format != output.FormatTable {
		return output.NewFormatter(format).Format(w, newResultView(r))
	}

	if _, err := fmt.Fprintln(w, r.Summary()); err != nil {
		return err
	}
	if !r.HasFailures() {
		return nil
	}
	return output.NewFormatter(output.FormatTable).Format(w, output.Data{
		Headers: []string{"Row", "Stage", "Error"},
		Rows:    r.Rows(),
	})
}
