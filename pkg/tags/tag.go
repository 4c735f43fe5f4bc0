package tags

import (
	"slices"
	"strings"

	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/resolve"
)

// Ref is one entry of a tag's values list.
type Ref struct {
	// Tag marks a reference to another tag, written with a leading '#'.
	Tag bool
	ID  id.ID
	// Required is false for entries written as {"id": ..., "required": false}.
	Required bool
}

// ParseRef parses "#ns:path" or "ns:path". The entry is required.
func ParseRef(s string) Ref {
	if rest, ok := strings.CutPrefix(s, "#"); ok {
		return Ref{Tag: true, ID: id.New(rest), Required: true}
	}
	return Ref{ID: id.New(s), Required: true}
}

func (r Ref) String() string {
	if r.Tag {
		return "#" + r.ID.String()
	}
	return r.ID.String()
}

// Tag is the raw content of one tag file.
type Tag struct {
	Replace bool
	Values  []Ref
}

// Resolved is a tag with every reference expanded.
type Resolved struct {
	Results []id.ID `json:"results" yaml:"results"`
	// LoopRoots are tags still being resolved when this one read them.
	LoopRoots []id.ID `json:"loop_roots,omitempty" yaml:"loop_roots,omitempty"`
}

// Has reports whether member is part of the resolved tag.
func (r Resolved) Has(member id.ID) bool {
	for _, v := range r.Results {
		if v.Equal(member) {
			return true
		}
	}
	return false
}

// Graph is the resolution graph of one tag kind.
type Graph = resolve.Layered[Tag, Resolved]

// Equal reports whether t and other have the same entries.
func (t Tag) Equal(other Tag) bool {
	return t.Replace == other.Replace && slices.Equal(t.Values, other.Values)
}
