package sensitive

import "errors"

// ErrUseAfterRelease is returned when a SecretBuffer is accessed after
// Release or ownership transfer (Take). Move-only ownership means this is
// always a caller bug, not a recoverable condition.
var ErrUseAfterRelease = errors.New("sensitive: use of secret buffer after release")

// ErrLengthMismatch is returned when a caller asks for a length that
// disagrees with the tag's canonical length.
var ErrLengthMismatch = errors.New("sensitive: length does not match tag's canonical length")

// AllocationInvariantError indicates the pool returned a buffer whose
// length does not equal the requested length. Per spec this is a fatal
// programming error, not a recoverable failure mode.
type AllocationInvariantError struct {
	Requested int
	Got       int
}

func (e *AllocationInvariantError) Error() string {
	return "sensitive: allocation invariant violated"
}
