package meta

import "fmt"

// InvalidModelError indicates a malformed or incomplete model container:
// missing input-tensor metadata or a missing/empty bundled label file.
// Fatal at detector construction, never retried.
type InvalidModelError struct {
	Path   string
	Reason string
	Err    error
}

func (e *InvalidModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid model %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid model %s: %s", e.Path, e.Reason)
}

func (e *InvalidModelError) Unwrap() error { return e.Err }
