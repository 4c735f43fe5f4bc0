package tags

import (
	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/report"
	"github.com/aretw0/mcdata/pkg/resolve"
)

// MemberValidator reports whether member exists, as seen from scope.
type MemberValidator func(member id.ID, scope resolve.ScopeID) bool

// PathFunc rebuilds the file a tag was loaded from.
type PathFunc func(key id.ID, source resolve.SourceID) string

// Config describes one tag kind.
type Config struct {
	// Resource is the resource kind name used in diagnostics, such as block_tags.
	Resource string
	Reporter report.Reporter
	Path     PathFunc
	Valid    MemberValidator
	// ValidateLocally checks members on every resolution instead of once
	// after loading. It suits kinds whose members live in the same scope,
	// such as function tags.
	ValidateLocally bool
}

func (c Config) reporter() report.Reporter {
	if c.Reporter == nil {
		return report.Nop{}
	}
	return c.Reporter
}

// NewResolver returns the resolver for c's tag kind.
func NewResolver(c Config) resolve.LayeredResolver[Tag, Resolved] {
	return func(in []resolve.Input[Tag], key id.ID, ref resolve.ScopeRef, g *Graph) (Resolved, error) {
		var res Resolved
		seen := id.NewSet()
		add := func(member id.ID) {
			if !seen.Has(member) {
				seen.Add(member)
				res.Results = append(res.Results, member)
			}
		}
		scope, local := ref.Scope()

		for _, input := range in {
			var loops, invalidRefs, invalidMembers []id.ID
			for _, v := range input.Value.Values {
				if !v.Tag {
					add(v.ID)
					if c.ValidateLocally && local && v.Required && c.Valid != nil && !c.Valid(v.ID, scope) {
						invalidMembers = append(invalidMembers, v.ID)
					}
					continue
				}

				view, ok := g.GetCycle(v.ID, ref)
				if !ok {
					if input.Local && v.Required {
						invalidRefs = append(invalidRefs, v.ID)
					}
					continue
				}
				looping := false
				if inner, done := view.Resolved(); done {
					for _, m := range inner.Results {
						add(m)
					}
					for _, root := range inner.LoopRoots {
						// Roots that finished resolving belong to another chain.
						if g.StateOf(root, ref) == resolve.StateInProgress {
							res.LoopRoots = append(res.LoopRoots, root)
							looping = true
						}
					}
				}
				if view.InProgress() {
					res.LoopRoots = append(res.LoopRoots, v.ID)
					looping = true
				}
				if looping && input.Local {
					loops = append(loops, v.ID)
				}
			}

			if input.Local {
				c.reconcile(key, input.Source, invalidRefs, invalidMembers, loops)
			}
			if input.Value.Replace {
				break
			}
		}

		res.LoopRoots = withoutKey(res.LoopRoots, key)
		return res, nil
	}
}

func (c Config) reconcile(key id.ID, source resolve.SourceID, invalidRefs, invalidMembers, loops []id.ID) {
	if c.Path == nil {
		return
	}
	file := c.Path(key, source)
	r := c.reporter()
	c.reportKind(r, file, report.InvalidTagDependency, invalidRefs)
	if c.ValidateLocally {
		c.reportKind(r, file, report.InvalidTagMembers, invalidMembers)
	}
	c.reportKind(r, file, report.LoopingTag, loops)
}

func (c Config) reportKind(r report.Reporter, file string, kind report.Kind, ids []id.ID) {
	if len(ids) == 0 {
		r.RemoveError(file, kind)
		return
	}
	r.AddError(file, report.Diagnostic{Kind: kind, IDs: ids, Resource: c.Resource})
}

// Validate checks the direct members of tag once, for kinds that do not
// validate locally. It reconciles InvalidTagMembers for the tag's file.
func (c Config) Validate(key id.ID, scope resolve.ScopeID, source resolve.SourceID, tag Tag) {
	if c.ValidateLocally || c.Valid == nil || c.Path == nil {
		return
	}
	var invalid []id.ID
	for _, v := range tag.Values {
		if !v.Tag && v.Required && !c.Valid(v.ID, scope) {
			invalid = append(invalid, v.ID)
		}
	}
	c.reportKind(c.reporter(), c.Path(key, source), report.InvalidTagMembers, invalid)
}

func withoutKey(ids []id.ID, key id.ID) []id.ID {
	var out []id.ID
	for _, v := range ids {
		if !v.Equal(key) {
			out = append(out, v)
		}
	}
	return out
}
