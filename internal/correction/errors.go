package correction

import "fmt"

// CollaboratorError represents a failure of the external reasoning
// collaborator: a timeout, transport error or unparseable response.
// It is the only fault class in this package; everything else a validator
// reports is a finding, not an error.
type CollaboratorError struct {
	Message string
	Cause   error
}

func (e *CollaboratorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("collaborator unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("collaborator unavailable: %s", e.Message)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Cause
}
