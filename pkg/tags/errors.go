package tags

import "errors"

// ErrInvalidTag is returned when a tag file does not have the expected shape.
var ErrInvalidTag = errors.New("invalid tag")
