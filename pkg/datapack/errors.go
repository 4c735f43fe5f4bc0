package datapack

import "errors"

var (
	// ErrUnknownKind is returned when parsing an unrecognized resource kind.
	ErrUnknownKind = errors.New("unknown resource kind")
	// ErrUnknownRoot is returned when a root ID or path is not registered.
	ErrUnknownRoot = errors.New("unknown root")
	// ErrUnknownDatapack is returned when a datapack ID is not registered.
	ErrUnknownDatapack = errors.New("unknown datapack")
	// ErrNotARoot is returned when a path is not inside any known root layout.
	ErrNotARoot = errors.New("path is not inside a world, datapack or functions folder")
)
