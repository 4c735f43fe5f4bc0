package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/resolve"
	"github.com/aretw0/mcdata/pkg/tags"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

// TagOutput is the structured form of a resolved tag.
type TagOutput struct {
	Kind      string   `json:"kind" yaml:"kind"`
	ID        string   `json:"id" yaml:"id"`
	Scope     string   `json:"scope" yaml:"scope"`
	Found     bool     `json:"found" yaml:"found"`
	Results   []string `json:"results" yaml:"results"`
	LoopRoots []string `json:"loop_roots,omitempty" yaml:"loop_roots,omitempty"`
}

// DefinitionOutput is one raw definition of a tag.
type DefinitionOutput struct {
	Datapack int      `json:"datapack,omitempty" yaml:"datapack,omitempty"`
	Local    bool     `json:"local" yaml:"local"`
	Replace  bool     `json:"replace" yaml:"replace"`
	Values   []string `json:"values" yaml:"values"`
}

func idStrings(ids []id.ID) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = v.String()
	}
	return out
}

// NewTagOutput converts a query result.
func NewTagOutput(kind string, key id.ID, scope string, res tags.Resolved, found bool) TagOutput {
	return TagOutput{
		Kind:      kind,
		ID:        key.String(),
		Scope:     scope,
		Found:     found,
		Results:   idStrings(res.Results),
		LoopRoots: idStrings(res.LoopRoots),
	}
}

// NewDefinitions lists values locals first.
func NewDefinitions(values resolve.Values[tags.Tag]) []DefinitionOutput {
	out := []DefinitionOutput{}
	for _, in := range values.Ordered() {
		d := DefinitionOutput{
			Datapack: int(in.Source),
			Local:    in.Local,
			Replace:  in.Value.Replace,
			Values:   make([]string, len(in.Value.Values)),
		}
		for i, v := range in.Value.Values {
			d.Values[i] = v.String()
		}
		out = append(out, d)
	}
	return out
}

// WriteTagText prints a resolved tag one member per line.
func WriteTagText(w io.Writer, out TagOutput) {
	if !out.Found {
		fmt.Fprintf(w, "%s %s is not defined in %s\n", out.Kind, out.ID, out.Scope)
		return
	}
	fmt.Fprintf(w, "%s %s (%s): %d entries\n", out.Kind, out.ID, out.Scope, len(out.Results))
	for _, r := range out.Results {
		fmt.Fprintf(w, "  %s\n", r)
	}
	if len(out.LoopRoots) > 0 {
		fmt.Fprintf(w, "loops through: %s\n", strings.Join(out.LoopRoots, ", "))
	}
}

// WriteDefinitionsText prints every definition of a tag.
func WriteDefinitionsText(w io.Writer, defs []DefinitionOutput) {
	if len(defs) == 0 {
		fmt.Fprintln(w, "no definitions")
		return
	}
	for _, d := range defs {
		origin := "global"
		if d.Local {
			origin = fmt.Sprintf("datapack %d", d.Datapack)
		}
		mode := "append"
		if d.Replace {
			mode = "replace"
		}
		fmt.Fprintf(w, "%s (%s): %s\n", origin, mode, strings.Join(d.Values, " "))
	}
}
