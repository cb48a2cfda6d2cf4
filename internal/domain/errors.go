package domain

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrMalformed = errors.New("malformed value")
)

// RejectReason says why a candidate was filtered out. It is not an error.
type RejectReason string

const (
	RejectNoMatchingRoom RejectReason = "no_matching_room"
	RejectOutOfRange     RejectReason = "out_of_range"
)
