package models

import "time"

// Run outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeInvalid = "invalid"
)

// RunEvent describes one trigger for the audit log and event stream.
// It deliberately carries no fitted parameters.
type RunEvent struct {
	ID         string    `json:"id"`
	Ticker     string    `json:"ticker"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Provider   string    `json:"provider"`
	Outcome    string    `json:"outcome"`
	Rows       int       `json:"rows"`
	Degenerate bool      `json:"degenerate"`
	DurationMs int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}
