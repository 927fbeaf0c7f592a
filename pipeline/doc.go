// Package pipeline drives papers through the processing stages: fetch,
// text extraction, and summarization, plus on-demand relevance analysis.
//
// Stages coordinate through stored record state, not through each other:
// each stage selects its backlog by asking the repository for records
// missing the field it produces, processes them independently, and merges
// its output field back. A failed record simply stays in the backlog and
// is retried on the next run. Stage failures are isolated per record and
// collected into reports; one bad paper never aborts a run.
package pipeline
