package profile

import "fmt"

// ValidationError reports a mandatory profile field that is missing or blank.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// ParseError reports input that is not well-formed or has the wrong shape at Path.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "invalid profile: " + e.Reason
	}
	return fmt.Sprintf("invalid profile at %s: %s", e.Path, e.Reason)
}
