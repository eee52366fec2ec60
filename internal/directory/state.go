package directory

// State is the status of the directory's load lifecycle.
type State int

const (
	StateIdle       State = iota // nothing requested yet
	StateLoading                 // first load in flight
	StateRefreshing              // reload in flight, previous directory still shown
	StateLoaded                  // last load succeeded
	StateFailed                  // last load failed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRefreshing:
		return "refreshing"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// InFlight reports whether a load is running.
func (s State) InFlight() bool {
	return s == StateLoading || s == StateRefreshing
}

// FailureKind classifies a failed load.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureNetwork
	FailureParse
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureNetwork:
		return "network"
	case FailureParse:
		return "parse"
	}
	return "unknown"
}

// Result tags an Outcome.
type Result int

const (
	ResultLoaded  Result = iota // Directory holds the new list
	ResultFailed                // Failure and Err describe the problem
	ResultSkipped               // another load was already in flight
	ResultStale                 // a newer load superseded this one; discarded
)

func (r Result) String() string {
	switch r {
	case ResultLoaded:
		return "loaded"
	case ResultFailed:
		return "failed"
	case ResultSkipped:
		return "skipped"
	case ResultStale:
		return "stale"
	}
	return "unknown"
}
