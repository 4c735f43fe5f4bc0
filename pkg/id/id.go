package id

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultNamespace is assumed when an ID carries no namespace.
	DefaultNamespace = "minecraft"
	// Separator delimits the namespace from the path ("minecraft:stone").
	Separator = ":"
)

var segmentPattern = regexp.MustCompile(`^[0-9a-z_/.-]+$`)

// ID is a namespaced identifier such as "minecraft:stone".
// An empty Namespace is equivalent to DefaultNamespace for every comparison
// and for storage in Map and Set.
type ID struct {
	Namespace string
	Path      string
}

// New builds an ID from a string, splitting at the first Separator when present.
// New("stone"), New("minecraft:stone") and NewIn("minecraft", "stone") are equal.
func New(value string) ID {
	return Parse(value, Separator)
}

// NewIn builds an ID with an explicit namespace. The path is used as-is.
func NewIn(namespace, path string) ID {
	return ID{Namespace: namespace, Path: path}
}

// Parse splits input on the first occurrence of sep. It does no validation.
// A leading separator (":stone") yields an ID without a namespace.
func Parse(input, sep string) ID {
	idx := strings.Index(input, sep)
	if idx < 0 {
		return ID{Path: input}
	}
	path := input[idx+len(sep):]
	if idx == 0 {
		return ID{Path: path}
	}
	return ID{Namespace: input[:idx], Path: path}
}

// LogicalNamespace returns the namespace, substituting DefaultNamespace when empty.
func (i ID) LogicalNamespace() string {
	if i.Namespace == "" {
		return DefaultNamespace
	}
	return i.Namespace
}

// IsDefaultNamespace reports whether the namespace is absent or DefaultNamespace.
func (i ID) IsDefaultNamespace() bool {
	return i.Namespace == "" || i.Namespace == DefaultNamespace
}

// SameNamespace reports whether both IDs live in the same logical namespace.
func (i ID) SameNamespace(other ID) bool {
	return i.Namespace == other.Namespace || (i.IsDefaultNamespace() && other.IsDefaultNamespace())
}

// Equal reports whether two IDs address the same slot.
func (i ID) Equal(other ID) bool {
	return i.Path == other.Path && i.SameNamespace(other)
}

// Canonical returns the ID with its logical namespace spelled out, which
// makes it safe to use as a Go map key.
func (i ID) Canonical() ID {
	return ID{Namespace: i.LogicalNamespace(), Path: i.Path}
}

// String renders "namespace:path", always including the namespace.
func (i ID) String() string {
	return i.LogicalNamespace() + Separator + i.Path
}

// Validate checks both segments against the allowed character set.
func (i ID) Validate() error {
	if !segmentPattern.MatchString(i.LogicalNamespace()) {
		return fmt.Errorf("%w: namespace %q", ErrInvalidSegment, i.LogicalNamespace())
	}
	if !segmentPattern.MatchString(i.Path) {
		return fmt.Errorf("%w: path %q", ErrInvalidSegment, i.Path)
	}
	return nil
}

// MarshalText renders the ID in its String form.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText parses the ID with New.
func (i *ID) UnmarshalText(text []byte) error {
	*i = New(string(text))
	return nil
}
