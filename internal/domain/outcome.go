package domain

import "time"

type OutcomeKind string

const (
	OutcomeSuccessConverted OutcomeKind = "success_converted"
	OutcomeSuccess          OutcomeKind = "success"
	OutcomeFailure          OutcomeKind = "failure"
)

// Outcome is the single terminal result of one pipeline run
type Outcome struct {
	RunID     string      `json:"run_id"`
	Kind      OutcomeKind `json:"kind"`
	ErrorKind ErrorKind   `json:"error_kind,omitempty"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`

	URL       string `json:"url"`
	Workspace string `json:"workspace,omitempty"`
	Artifact  string `json:"artifact,omitempty"`
	Converted string `json:"converted,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess || o.Kind == OutcomeSuccessConverted
}
