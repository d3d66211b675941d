package transaction

import "fmt"

// The factory raises three classes of domain errors. Callers distinguish them
// with errors.As: an HTTP-facing caller maps all three to 400-class responses,
// while broker-facing callers treat them uniformly as retryable handler
// failures.

// OutOfRangeError reports a numeric field outside its allowed range.
type OutOfRangeError struct {
	Field   string
	Message string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidStateError reports a business invariant violation.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// InvalidArgumentError reports an argument outside the defined domain values.
type InvalidArgumentError struct {
	Field   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
