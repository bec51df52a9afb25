package dto

import "github.com/google/uuid"

type SweepFailure struct {
	ApplicationId uuid.UUID `json:"application_id"`
	Error         string    `json:"error"`
}

// AutoCancelResult reports one auto-cancel run.
type AutoCancelResult struct {
	Candidates int            `json:"candidates"`
	Cancelled  int            `json:"cancelled"`
	Skipped    int            `json:"skipped"`
	Failures   []SweepFailure `json:"failures,omitempty"`
}

type DeadlineWarningResult struct {
	Checked  int            `json:"checked"`
	Sent     int            `json:"sent"`
	ByBucket map[string]int `json:"by_bucket"`
	Failures []SweepFailure `json:"failures,omitempty"`
}

type DispatchResult struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}
