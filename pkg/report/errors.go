package report

import "errors"

// ErrUnknownKind is returned when parsing an unrecognized kind name.
var ErrUnknownKind = errors.New("unknown diagnostic kind")
