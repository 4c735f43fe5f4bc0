package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/tags"
)

// TagNode is one tag and its direct entries, as defined in one layer.
type TagNode struct {
	ID     id.ID
	Global bool
	Values []tags.Ref
}

// GraphOverlay contains resolution data to visualize on the graph.
type GraphOverlay struct {
	Looping []id.ID
	Current id.ID
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a list of tags.
// It applies semantic styling:
// - Local tag: [Rectangle]
// - Global tag: [[Subroutine]]
// - Plain member: ([Stadium])
// References to other tags use solid arrows, members dotted ones and
// optional entries are labeled.
func GenerateMermaid(nodes []TagNode, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	members := make(map[string]bool)
	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID.String())

		opener, closer := "[", "]"
		if node.Global {
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"#%s\"%s\n", safeID, opener, node.ID, closer))

		for _, v := range node.Values {
			safeTo := sanitizeMermaidID(v.ID.String())
			arrow := "-->"
			if !v.Tag {
				arrow = "-.->"
				if !members[safeTo] {
					members[safeTo] = true
					sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", safeTo, v.ID))
				}
			}
			if !v.Required {
				arrow = "-. \"optional\" .->"
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef looping fill:#fee2e2,stroke:#b91c1c,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, l := range overlay.Looping {
			safeID := sanitizeMermaidID(l.String())
			if !seen[safeID] {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s looping;\n", safeID))
			}
		}
		if overlay.Current.Path != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Current.String())))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ":", "__")
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
