package detector

import "fmt"

// ModelShapeError indicates the model violates the tensor conventions of the
// marine detection model family: it must expose exactly one input and
// exactly four outputs with a fixed positional meaning. Fatal at
// construction, never retried.
type ModelShapeError struct {
	Path   string
	Reason string
}

func (e *ModelShapeError) Error() string {
	return fmt.Sprintf("model shape error in %s: %s", e.Path, e.Reason)
}

// UnsupportedAcceleratorError indicates requested hardware acceleration is
// unavailable on this host. Fatal at construction; there is no CPU fallback.
type UnsupportedAcceleratorError struct {
	Err error
}

func (e *UnsupportedAcceleratorError) Error() string {
	return fmt.Sprintf("requested accelerator is unavailable: %v", e.Err)
}

func (e *UnsupportedAcceleratorError) Unwrap() error { return e.Err }

// ShapeMismatchError indicates a preprocessed tensor does not match the
// model's declared input shape or element type. Fatal for the call; it
// propagates to the caller and is never silently corrected.
type ShapeMismatchError struct {
	Got    []int64
	Want   []int64
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("input tensor shape %v does not match model input %v: %s", e.Got, e.Want, e.Reason)
	}
	return fmt.Sprintf("input tensor shape %v does not match model input %v", e.Got, e.Want)
}
