package resolve

// State classifies a record.
type State uint8

const (
	// StateAbsent marks a placeholder: the key was read before it had a raw value.
	StateAbsent State = iota
	// StateIdle means raw data is present but nothing is memoized.
	StateIdle
	// StateInProgress means the record is on the current resolution chain.
	StateInProgress
	// StateCached means the resolver outcome (value or error) is memoized.
	StateCached
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in_progress"
	case StateCached:
		return "cached"
	default:
		return "unknown"
	}
}

// View is a read-only snapshot of a record returned by GetCycle.
type View[I, R any] struct {
	raw      I
	resolved R
	err      error
	state    State
}

// Raw returns the input the record was (or is being) resolved from.
func (v View[I, R]) Raw() I {
	return v.raw
}

// Resolved returns the memoized value. It reports false while the record is
// in progress or when its resolver failed.
func (v View[I, R]) Resolved() (R, bool) {
	if v.state != StateCached || v.err != nil {
		var zero R
		return zero, false
	}
	return v.resolved, true
}

// InProgress reports whether the record is being computed higher up the
// current resolution chain.
func (v View[I, R]) InProgress() bool {
	return v.state == StateInProgress
}

// Err returns the memoized resolver error, if any.
func (v View[I, R]) Err() error {
	return v.err
}

// State returns the record classification at the time of the read.
func (v View[I, R]) State() State {
	return v.state
}
