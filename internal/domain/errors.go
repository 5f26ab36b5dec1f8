package domain

// ValidationError is a client-side check that aborts an action before any
// mutation. Message is shown to the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid returns a *ValidationError with msg.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}
