package store

import "errors"

// Error definitions for the store package.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("unrecognized model")
)
