package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/mcdata/pkg/id"
)

// Diagnostic is one problem found in a file.
type Diagnostic struct {
	Kind Kind `json:"kind" yaml:"kind"`
	// Message carries the parser error for InvalidJSON.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	// IDs are the offending members or references for tag kinds.
	IDs []id.ID `json:"ids,omitempty" yaml:"ids,omitempty"`
	// Resource names the resource kind, such as block_tags.
	Resource string `json:"resource,omitempty" yaml:"resource,omitempty"`
	// Expected and Actual are file extensions for WrongExtension.
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual   string `json:"actual,omitempty" yaml:"actual,omitempty"`
}

// Summary renders a one line description.
func (d Diagnostic) Summary() string {
	switch d.Kind {
	case InvalidJSON:
		return "invalid JSON: " + d.Message
	case WrongExtension:
		return fmt.Sprintf("wrong extension %q, expected %q", d.Actual, d.Expected)
	case InvalidTagMembers:
		return fmt.Sprintf("unknown %s members: %s", d.Resource, joinIDs(d.IDs))
	case InvalidTagDependency:
		return fmt.Sprintf("unknown %s references: %s", d.Resource, joinIDs(d.IDs))
	case LoopingTag:
		return fmt.Sprintf("looping %s references: %s", d.Resource, joinIDs(d.IDs))
	}
	return d.Kind.String()
}

func joinIDs(ids []id.ID) string {
	parts := make([]string, len(ids))
	for i, v := range ids {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// Entry pairs a diagnostic with its file.
type Entry struct {
	File       string `json:"file" yaml:"file"`
	Diagnostic `yaml:",inline"`
}
