package datapack

import (
	"iter"

	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/tags"
)

// Contents holds the resources collected from one data folder.
type Contents struct {
	Tags         map[Kind]*id.Map[tags.Tag]
	Advancements *id.Map[Advancement]
	// Problems lists the files that got a collection diagnostic.
	Problems []string
	present  map[Kind]*id.Set
}

// NewContents creates empty contents.
func NewContents() *Contents {
	return &Contents{
		Tags:         make(map[Kind]*id.Map[tags.Tag]),
		Advancements: id.NewMap[Advancement](),
		present:      make(map[Kind]*id.Set),
	}
}

func (c *Contents) mark(kind Kind, key id.ID) {
	set, ok := c.present[kind]
	if !ok {
		set = id.NewSet()
		c.present[kind] = set
	}
	set.Add(key)
}

// AddTag stores a tag of kind.
func (c *Contents) AddTag(kind Kind, key id.ID, tag tags.Tag) {
	m, ok := c.Tags[kind]
	if !ok {
		m = id.NewMap[tags.Tag]()
		c.Tags[kind] = m
	}
	m.Set(key, tag)
	c.mark(kind, key)
}

// AddAdvancement stores an advancement.
func (c *Contents) AddAdvancement(key id.ID, adv Advancement) {
	c.Advancements.Set(key, adv)
	c.mark(Advancements, key)
}

// Add records a resource whose content is not kept.
func (c *Contents) Add(kind Kind, key id.ID) {
	c.mark(kind, key)
}

// Has reports whether key was found for kind.
func (c *Contents) Has(kind Kind, key id.ID) bool {
	set, ok := c.present[kind]
	return ok && set.Has(key)
}

// IDs iterates over the keys found for kind.
func (c *Contents) IDs(kind Kind) iter.Seq[id.ID] {
	return func(yield func(id.ID) bool) {
		set, ok := c.present[kind]
		if !ok {
			return
		}
		for key := range set.All() {
			if !yield(key) {
				return
			}
		}
	}
}

// Count returns the number of keys found for kind.
func (c *Contents) Count(kind Kind) int {
	if set, ok := c.present[kind]; ok {
		return set.Len()
	}
	return 0
}

// TagMap returns the tags of kind, never nil.
func (c *Contents) TagMap(kind Kind) *id.Map[tags.Tag] {
	if m, ok := c.Tags[kind]; ok {
		return m
	}
	return id.NewMap[tags.Tag]()
}
