package parsing

import "fmt"

// APICallError represents an error from the text-generation API
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ZeroRolesError indicates that a model response contained no role blocks.
// Callers treat this as recoverable: any previously retained taxonomy must
// stay untouched.
type ZeroRolesError struct {
	Raw string
}

func (e *ZeroRolesError) Error() string {
	return "no roles extracted from model response"
}
