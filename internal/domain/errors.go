package domain

import "errors"

var (
	// ErrValidation marks input that cannot be processed.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a lookup miss in the ledger.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyNotified marks a ledger insert that lost against an existing
	// row for the same order number. It is the distinguishable duplicate-key
	// signal: callers must not treat it as a generic persistence failure.
	ErrAlreadyNotified = errors.New("order already notified")
)
