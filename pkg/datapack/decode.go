package datapack

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/mitchellh/mapstructure"
)

// Advancement is the part of an advancement file the workspace cares about.
type Advancement struct {
	Criteria []string `json:"criteria" yaml:"criteria"`
}

type advancementFile struct {
	Criteria map[string]any `mapstructure:"criteria"`
}

// DecodeAdvancement extracts the criterion names, sorted.
func DecodeAdvancement(raw map[string]any) (Advancement, error) {
	var file advancementFile
	if err := mapstructure.Decode(raw, &file); err != nil {
		return Advancement{}, fmt.Errorf("advancement: %w", err)
	}
	adv := Advancement{Criteria: make([]string, 0, len(file.Criteria))}
	for name := range file.Criteria {
		adv.Criteria = append(adv.Criteria, name)
	}
	slices.Sort(adv.Criteria)
	return adv, nil
}

// Mcmeta is a datapack's pack.mcmeta file.
type Mcmeta struct {
	Pack *PackInfo `mapstructure:"pack" json:"pack,omitempty" yaml:"pack,omitempty"`
}

// PackInfo is the pack section of pack.mcmeta.
type PackInfo struct {
	// Description is a string or a text component.
	Description any `mapstructure:"description" json:"description,omitempty" yaml:"description,omitempty"`
	PackFormat  int `mapstructure:"pack_format" json:"pack_format,omitempty" yaml:"pack_format,omitempty"`
}

// DecodeMcmeta decodes pack.mcmeta content. Numeric strings are accepted
// for pack_format.
func DecodeMcmeta(data []byte) (*Mcmeta, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	var meta Mcmeta
	if err := mapstructure.WeakDecode(raw, &meta); err != nil {
		return nil, fmt.Errorf("pack.mcmeta: %w", err)
	}
	return &meta, nil
}

// DescriptionText returns the plain text of the description when it is a
// string or a component with a text field.
func (m *Mcmeta) DescriptionText() string {
	if m == nil || m.Pack == nil {
		return ""
	}
	switch d := m.Pack.Description.(type) {
	case string:
		return d
	case map[string]any:
		if text, ok := d["text"].(string); ok {
			return text
		}
	}
	return ""
}
