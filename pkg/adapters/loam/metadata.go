package loam

// TagDocument is the content of a tag file as decoded by Loam.
// It uses "mapstructure" tags to match the JSON keys of tag files.
type TagDocument struct {
	Replace bool `json:"replace" mapstructure:"replace"`
	// Values holds strings ("#ns:tag", "ns:id") or {"id", "required"} objects.
	Values []any `json:"values" mapstructure:"values"`
}

func (d TagDocument) raw() map[string]any {
	return map[string]any{
		"replace": d.Replace,
		"values":  d.Values,
	}
}
