package catalog

import "fmt"

// LoadError reports a catalog that could not be read or failed validation.
type LoadError struct {
	Path   string // File the catalog came from, empty for in-memory documents
	Reason string
	Err    error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	msg := e.Reason
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("catalog: %s: %v", msg, e.Err)
	}
	return "catalog: " + msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *LoadError) Unwrap() error {
	return e.Err
}
