package app

import "github.com/jwulff/f1grid/internal/directory"

// LoadFinishedMsg carries the outcome of a directory load.
type LoadFinishedMsg struct {
	Outcome directory.Outcome
}

// SpinnerTickMsg advances the loading spinner.
type SpinnerTickMsg struct{}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
