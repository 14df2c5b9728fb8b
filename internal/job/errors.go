package job

import "fmt"

// RefinementError wraps any failure during stage execution. The detail
// message is what the submit caller and the broadcast error event both
// carry.
type RefinementError struct {
	Detail string
	Err    error
}

func (e *RefinementError) Error() string {
	return fmt.Sprintf("refinement failed: %s", e.Detail)
}

func (e *RefinementError) Unwrap() error {
	return e.Err
}
