package session

import "errors"

// ErrNilDependency is returned by New when a required collaborator is nil.
var ErrNilDependency = errors.New("session: required dependency is nil")

// TransientAgentError wraps a non-fatal agent.Turn failure:
// the controller logs it, speaks an apology, and returns to LISTEN rather
// than propagating it out of Run.
type TransientAgentError struct {
	Err error
}

func (e *TransientAgentError) Error() string { return "session: agent turn failed: " + e.Err.Error() }
func (e *TransientAgentError) Unwrap() error  { return e.Err }
