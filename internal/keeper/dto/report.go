package dto

import (
	"golang-verdict-keeper/internal/entity"
)

// FileResult represents the outcome of ingesting one file. Exactly one of
// Outcome and Err is meaningful.
type FileResult struct {
	Path    string               `json:"path"`
	Outcome entity.IngestOutcome `json:"outcome,omitempty"`
	Err     error                `json:"-"`
}

// Failed reports whether the file errored instead of reaching the store.
func (r FileResult) Failed() bool {
	return r.Err != nil
}

// BatchReport aggregates per-file results for one ingest session.
type BatchReport struct {
	SessionID  string       `json:"session_id"`
	Inserted   int          `json:"inserted"`
	Updated    int          `json:"updated"`
	Duplicates int          `json:"duplicates"`
	Errors     int          `json:"errors"`
	Results    []FileResult `json:"results"`
}

// Append records a file result and updates the tallies.
func (b *BatchReport) Append(res FileResult) {
	b.Results = append(b.Results, res)
	switch {
	case res.Failed():
		b.Errors++
	case res.Outcome == entity.OutcomeInserted:
		b.Inserted++
	case res.Outcome == entity.OutcomeUpdated:
		b.Updated++
	case res.Outcome == entity.OutcomeDuplicate:
		b.Duplicates++
	}
}

// Total returns the number of files processed.
func (b *BatchReport) Total() int {
	return len(b.Results)
}
