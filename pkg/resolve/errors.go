package resolve

import "errors"

// ErrCycleDetected is returned by Get when the requested key is being computed
// further up the current resolution chain.
var ErrCycleDetected = errors.New("value requested during its own resolution (use GetCycle to tolerate loops)")

// ErrReentrantMutation is the panic value raised when a graph is mutated from
// inside one of its own resolvers.
var ErrReentrantMutation = errors.New("graph mutated during resolution")
