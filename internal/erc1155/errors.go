package erc1155

import "fmt"

// ValidationError reports malformed or mismatched local arguments. It is
// raised before any network call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid arguments: " + e.Reason
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ReadError reports that a required read could not be completed: the endpoint
// is unreachable, the node rejected the call, or the contract returned data
// that could not be decoded. It is distinct from a zero/false value.
type ReadError struct {
	Function string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Function, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// SubmissionError reports that the signer or the node rejected a write
// transaction before inclusion.
type SubmissionError struct {
	Function string
	Err      error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submitting %s: %v", e.Function, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ExecutionError reports that a transaction was included on-chain but
// reverted during execution.
type ExecutionError struct {
	Hash   string
	Reason string
}

func (e *ExecutionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("transaction %s reverted: %s", e.Hash, e.Reason)
	}
	return fmt.Sprintf("transaction %s reverted", e.Hash)
}
