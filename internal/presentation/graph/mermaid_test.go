package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/mcdata/internal/presentation/graph"
	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/tags"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []graph.TagNode
		overlay  *graph.GraphOverlay
		contains []string
	}{
		{
			name: "Node Shapes",
			nodes: []graph.TagNode{
				{ID: id.New("demo:logs")},
				{ID: id.New("logs"), Global: true},
			},
			contains: []string{
				`demo__logs["#demo:logs"]`,
				`minecraft__logs[["#minecraft:logs"]]`,
			},
		},
		{
			name: "ID Sanitization",
			nodes: []graph.TagNode{
				{ID: id.New("demo:path/to/some-tag.v2")},
			},
			contains: []string{
				`demo__path_to_some_tag_v2["#demo:path/to/some-tag.v2"]`,
			},
		},
		{
			name: "Edges",
			nodes: []graph.TagNode{
				{
					ID: id.New("demo:logs"),
					Values: []tags.Ref{
						tags.ParseRef("#demo:more"),
						tags.ParseRef("oak_log"),
						{ID: id.New("demo:maybe"), Required: false},
					},
				},
			},
			contains: []string{
				"demo__logs --> demo__more",
				`minecraft__oak_log(["minecraft:oak_log"])`,
				"demo__logs -.-> minecraft__oak_log",
				`demo__logs -. "optional" .-> demo__maybe`,
			},
		},
		{
			name:  "Overlay",
			nodes: []graph.TagNode{{ID: id.New("demo:a")}},
			overlay: &graph.GraphOverlay{
				Looping: []id.ID{id.New("demo:a"), id.New("demo:a")},
				Current: id.New("demo:a"),
			},
			contains: []string{
				"class demo__a looping;",
				"class demo__a current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.nodes, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			if tt.overlay != nil && strings.Count(got, "looping;") != 1 {
				t.Errorf("looping class applied more than once:\n%v", got)
			}
		})
	}
}
