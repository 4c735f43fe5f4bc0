package id

import "errors"

// ErrInvalidSegment is returned by Validate for characters outside [0-9a-z_/.-].
var ErrInvalidSegment = errors.New("invalid id segment")
