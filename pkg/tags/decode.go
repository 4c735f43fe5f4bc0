package tags

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/mcdata/pkg/id"
	"github.com/mitchellh/mapstructure"
)

type tagFile struct {
	Replace bool  `mapstructure:"replace"`
	Values  []any `mapstructure:"values"`
}

type objectEntry struct {
	ID       string `mapstructure:"id"`
	Required *bool  `mapstructure:"required"`
}

// Parse decodes a tag file.
func Parse(data []byte) (Tag, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Tag{}, err
	}
	return Decode(raw)
}

// Decode converts a generic JSON object into a Tag. Entries that are neither
// strings nor objects with an id are skipped.
func Decode(raw map[string]any) (Tag, error) {
	var file tagFile
	if err := mapstructure.WeakDecode(raw, &file); err != nil {
		return Tag{}, fmt.Errorf("%w: %v", ErrInvalidTag, err)
	}

	tag := Tag{Replace: file.Replace, Values: make([]Ref, 0, len(file.Values))}
	for _, v := range file.Values {
		switch entry := v.(type) {
		case string:
			tag.Values = append(tag.Values, ParseRef(entry))
		case map[string]any:
			var obj objectEntry
			if err := mapstructure.Decode(entry, &obj); err != nil || obj.ID == "" {
				continue
			}
			ref := ParseRef(obj.ID)
			if obj.Required != nil {
				ref.Required = *obj.Required
			}
			tag.Values = append(tag.Values, ref)
		}
	}
	return tag, nil
}

// Members returns the direct, non-reference entries of t.
func (t Tag) Members() []id.ID {
	var out []id.ID
	for _, v := range t.Values {
		if !v.Tag {
			out = append(out, v.ID)
		}
	}
	return out
}
