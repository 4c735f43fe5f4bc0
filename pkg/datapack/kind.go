package datapack

import (
	"fmt"
	"strings"
)

// Kind is a resource kind.
type Kind int

const (
	Advancements Kind = iota
	BlockTags
	EntityTags
	FluidTags
	Functions
	FunctionTags
	ItemTags
	LootTables
	Recipes
	Structures
)

type kindInfo struct {
	name      string
	folders   []string
	extension string
	tag       bool
}

var kinds = [...]kindInfo{
	Advancements: {name: "advancements", folders: []string{"advancements"}, extension: ".json"},
	BlockTags:    {name: "block_tags", folders: []string{"tags", "blocks"}, extension: ".json", tag: true},
	EntityTags:   {name: "entity_tags", folders: []string{"tags", "entities"}, extension: ".json", tag: true},
	FluidTags:    {name: "fluid_tags", folders: []string{"tags", "fluids"}, extension: ".json", tag: true},
	Functions:    {name: "functions", folders: []string{"functions"}, extension: ".mcfunction"},
	FunctionTags: {name: "function_tags", folders: []string{"tags", "functions"}, extension: ".json", tag: true},
	ItemTags:     {name: "item_tags", folders: []string{"tags", "items"}, extension: ".json", tag: true},
	LootTables:   {name: "loot_tables", folders: []string{"loot_tables"}, extension: ".json"},
	Recipes:      {name: "recipes", folders: []string{"recipes"}, extension: ".json"},
	Structures:   {name: "structures", folders: []string{"structures"}, extension: ".nbt"},
}

// Kinds returns every resource kind.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	for i := range kinds {
		out[i] = Kind(i)
	}
	return out
}

// TagKinds returns the kinds whose files are tags.
func TagKinds() []Kind {
	var out []Kind
	for _, k := range Kinds() {
		if k.IsTag() {
			out = append(out, k)
		}
	}
	return out
}

// ParseKind accepts a kind name such as "block_tags". Tag kinds may also be
// named by their folder, such as "blocks" or "tags/blocks".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, info := range kinds {
		if info.name == s {
			return Kind(i), nil
		}
		if info.tag && (s == info.folders[1] || s == strings.Join(info.folders, "/")) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) info() kindInfo {
	if k < 0 || int(k) >= len(kinds) {
		return kindInfo{name: fmt.Sprintf("Kind(%d)", int(k))}
	}
	return kinds[k]
}

func (k Kind) String() string {
	return k.info().name
}

// Folders returns the path below a namespace where k's files live.
func (k Kind) Folders() []string {
	return k.info().folders
}

// Extension returns the file extension of k, dot included.
func (k Kind) Extension() string {
	return k.info().extension
}

// IsTag reports whether k holds tag files.
func (k Kind) IsTag() bool {
	return k.info().tag
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
