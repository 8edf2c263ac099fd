package applications

import "fmt"

// PersistenceError wraps a storage failure during submission. It is the only
// failure kind the lifecycle controller lets escape to the caller; gate and
// validation failures are turned into rendered views instead. When it occurs
// the session draft is left intact so the submitter's input is not lost.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("application persistence failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
