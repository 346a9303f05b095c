package sim

import "errors"

// Error taxonomy shared by every manager. Operations wrap one of these with
// context (fmt.Errorf("...: %w", ErrX)); callers classify with errors.Is.
// A failed operation leaves the manager's state exactly as before the call.
var (
	// ErrValidation: an argument is out of range (id, priority, device, track, position, quantum).
	ErrValidation = errors.New("validation error")
	// ErrNotFound: the referenced process (or queued item) does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStateConflict: the operation is illegal in the current state.
	ErrStateConflict = errors.New("state conflict")
	// ErrResourceExhausted: not enough free frames.
	ErrResourceExhausted = errors.New("resource exhausted")
)
