package mcdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/report"
	"github.com/aretw0/mcdata/pkg/resolve"
	"github.com/aretw0/mcdata/pkg/tags"
	"github.com/aretw0/mcdata/pkg/vanilla"
)

var (
	// ErrNotATagKind is returned when a tag query names a non-tag kind.
	ErrNotATagKind = errors.New("not a tag kind")
	// ErrUnknownRoot is returned for roots that were never added or were removed.
	ErrUnknownRoot = errors.New("unknown root")
	// ErrUndetectedRoot is returned when a directory is neither a world, a
	// datapack nor a functions folder.
	ErrUndetectedRoot = errors.New("directory is not a root")
)

// Workspace is the high-level entry point. It owns one layered tag graph per
// tag kind, with the vanilla data as the global layer and each root as a
// scope. All methods are serialized.
type Workspace struct {
	mu        sync.Mutex
	global    *vanilla.Global
	registry  *datapack.Registry
	graphs    map[datapack.Kind]*tags.Graph
	configs   map[datapack.Kind]tags.Config
	contents  map[datapack.DatapackID]*datapack.Contents
	problems  map[datapack.RootID][]string
	collected *report.Collector
	reporter  report.Reporter
	hooks     func(graph string) resolve.Hooks
	logger    *slog.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the structured logger used by the workspace and its graphs.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		w.logger = logger
	}
}

// WithReporter forwards diagnostics to r in addition to the in-memory
// collection returned by Diagnostics.
func WithReporter(r report.Reporter) Option {
	return func(w *Workspace) {
		w.reporter = r
	}
}

// WithGraphHooks installs resolution hooks on every tag graph. The function
// receives the graph name, which is the tag kind.
func WithGraphHooks(fn func(graph string) resolve.Hooks) Option {
	return func(w *Workspace) {
		w.hooks = fn
	}
}

// New creates a workspace over global. A nil global is treated as empty.
func New(global *vanilla.Global, opts ...Option) *Workspace {
	w := &Workspace{
		global:    global,
		registry:  datapack.NewRegistry(),
		graphs:    make(map[datapack.Kind]*tags.Graph),
		configs:   make(map[datapack.Kind]tags.Config),
		contents:  make(map[datapack.DatapackID]*datapack.Contents),
		problems:  make(map[datapack.RootID][]string),
		collected: report.NewCollector(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.global == nil {
		w.global = vanilla.Empty()
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if w.reporter == nil {
		w.reporter = w.collected
	} else {
		w.reporter = report.Multi(w.collected, w.reporter)
	}

	for _, kind := range datapack.TagKinds() {
		cfg := tags.Config{
			Resource: kind.String(),
			Reporter: w.reporter,
			Path:     w.pathFunc(kind),
			Valid:    w.validator(kind),
		}
		if kind == datapack.FunctionTags {
			cfg.ValidateLocally = true
		}
		opts := []resolve.Option{
			resolve.WithName(kind.String()),
			resolve.WithLogger(w.logger),
		}
		if w.hooks != nil {
			opts = append(opts, resolve.WithHooks(w.hooks(kind.String())))
		}
		w.configs[kind] = cfg
		w.graphs[kind] = resolve.NewLayered(tags.NewResolver(cfg), w.global.Resources.TagMap(kind), opts...)
	}
	return w
}

func (w *Workspace) pathFunc(kind datapack.Kind) tags.PathFunc {
	return func(key id.ID, source resolve.SourceID) string {
		p, err := w.registry.ResourcePath(kind, key, source)
		if err != nil {
			return ""
		}
		return p
	}
}

// validator is called with w.mu held.
func (w *Workspace) validator(kind datapack.Kind) tags.MemberValidator {
	g := w.global
	switch kind {
	case datapack.BlockTags:
		return func(member id.ID, _ resolve.ScopeID) bool {
			return g.HasBlock(member) || g.InRegistry(vanilla.RegistryBlock, member)
		}
	case datapack.EntityTags:
		return func(member id.ID, _ resolve.ScopeID) bool {
			return g.InRegistry(vanilla.RegistryEntityType, member)
		}
	case datapack.FluidTags:
		return func(member id.ID, _ resolve.ScopeID) bool {
			return g.InRegistry(vanilla.RegistryFluid, member)
		}
	case datapack.ItemTags:
		return func(member id.ID, _ resolve.ScopeID) bool {
			return g.InRegistry(vanilla.RegistryItem, member)
		}
	case datapack.FunctionTags:
		return func(member id.ID, scope resolve.ScopeID) bool {
			return w.hasFunction(member, scope)
		}
	}
	return nil
}

func (w *Workspace) hasFunction(fn id.ID, scope resolve.ScopeID) bool {
	if w.global.Resources.Has(datapack.Functions, fn) {
		return true
	}
	root, ok := w.registry.Root(scope)
	if !ok {
		return false
	}
	for _, pack := range root.Datapacks {
		if c, ok := w.contents[pack]; ok && c.Has(datapack.Functions, fn) {
			return true
		}
	}
	return false
}

// Global returns the global data set.
func (w *Workspace) Global() *vanilla.Global {
	return w.global
}

// AddRoot collects the root at path, read through fsys, and resolves its
// tags. Adding a path twice reloads it.
func (w *Workspace) AddRoot(ctx context.Context, fsys fs.FS, path string) (datapack.Root, error) {
	if err := ctx.Err(); err != nil {
		return datapack.Root{}, err
	}
	kind, ok := datapack.Detect(fsys)
	if !ok {
		return datapack.Root{}, fmt.Errorf("%w: %s", ErrUndetectedRoot, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return datapack.Root{}, fmt.Errorf("invalid path: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	root, created := w.registry.AddRoot(abs, kind)
	if created {
		w.logger.Debug("adding root", "root", int(root.ID), "path", root.Path, "kind", root.Kind.String())
	}
	return w.reload(ctx, fsys, root)
}

// ReloadRoot re-collects a known root and updates only what changed.
func (w *Workspace) ReloadRoot(ctx context.Context, fsys fs.FS, scope datapack.RootID) (datapack.Root, error) {
	if err := ctx.Err(); err != nil {
		return datapack.Root{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	root, ok := w.registry.Root(scope)
	if !ok {
		return datapack.Root{}, fmt.Errorf("%w: %d", ErrUnknownRoot, scope)
	}
	return w.reload(ctx, fsys, root)
}

func (w *Workspace) reload(ctx context.Context, fsys fs.FS, root datapack.Root) (datapack.Root, error) {
	// Collection problems are re-reported by the scan below.
	for _, file := range w.problems[root.ID] {
		w.reporter.RemoveError(file, report.InvalidJSON)
		w.reporter.RemoveError(file, report.WrongExtension)
	}
	delete(w.problems, root.ID)

	collector := datapack.NewCollector(datapack.WithReporter(w.reporter), datapack.WithLogger(w.logger))
	scanned, err := collector.Scan(fsys, root)
	if err != nil {
		return datapack.Root{}, fmt.Errorf("failed to collect %s: %w", root.Path, err)
	}

	seen := make(map[datapack.DatapackID]bool)
	functionsChanged := false
	for _, s := range scanned {
		if err := ctx.Err(); err != nil {
			return datapack.Root{}, err
		}
		w.problems[root.ID] = append(w.problems[root.ID], s.Contents.Problems...)

		pack, ok := w.registry.DatapackByName(root.ID, s.Name)
		if !ok {
			pack, err = w.registry.AddDatapack(root.ID, s.Name, s.Mcmeta)
			if err != nil {
				return datapack.Root{}, err
			}
		}
		seen[pack.ID] = true

		old := w.contents[pack.ID]
		if old == nil {
			old = datapack.NewContents()
		}
		if !sameFunctions(old, s.Contents) {
			functionsChanged = true
		}
		w.contents[pack.ID] = s.Contents
		w.applyTags(root.ID, pack.ID, old, s.Contents)
	}

	for _, pack := range root.Datapacks {
		if seen[pack] {
			continue
		}
		old := w.contents[pack]
		if old != nil && old.Count(datapack.Functions) > 0 {
			functionsChanged = true
		}
		w.applyTags(root.ID, pack, old, datapack.NewContents())
		delete(w.contents, pack)
		w.registry.RemoveDatapack(pack)
	}

	if functionsChanged {
		// Function tags validate against the functions of their root.
		g := w.graphs[datapack.FunctionTags]
		for _, key := range localKeys(g, resolve.In(root.ID)) {
			g.Reresolve(key, root.ID)
		}
	}

	w.check(root.ID)
	updated, _ := w.registry.Root(root.ID)
	w.logger.Debug("root loaded", "root", int(updated.ID), "datapacks", len(updated.Datapacks))
	return updated, nil
}

// applyTags moves the tags of pack from old to next. Unchanged tags keep
// their memoized results.
func (w *Workspace) applyTags(scope datapack.RootID, pack datapack.DatapackID, old, next *datapack.Contents) {
	if old == nil {
		old = datapack.NewContents()
	}
	for _, kind := range datapack.TagKinds() {
		g := w.graphs[kind]
		cfg := w.configs[kind]
		before, after := old.TagMap(kind), next.TagMap(kind)

		for key := range before.Keys() {
			if after.Has(key) {
				continue
			}
			report.Clear(w.reporter, cfg.Path(key, pack))
			g.DeleteSource(key, scope, pack)
		}
		for key, tag := range after.All() {
			if prev, ok := before.Get(key); ok && prev.Equal(tag) {
				continue
			}
			g.Set(key, scope, pack, tag)
			cfg.Validate(key, scope, pack, tag)
		}
	}
}

func sameFunctions(a, b *datapack.Contents) bool {
	if a.Count(datapack.Functions) != b.Count(datapack.Functions) {
		return false
	}
	for fn := range a.IDs(datapack.Functions) {
		if !b.Has(datapack.Functions, fn) {
			return false
		}
	}
	return true
}

// check resolves every local tag of scope so that diagnostics are current.
func (w *Workspace) check(scope datapack.RootID) {
	ref := resolve.In(scope)
	for _, kind := range datapack.TagKinds() {
		g := w.graphs[kind]
		for _, key := range localKeys(g, ref) {
			if _, _, err := g.Get(key, ref); err != nil {
				w.logger.Debug("tag failed to resolve", "kind", kind.String(), "key", key.String(), "err", err)
			}
		}
	}
}

// localKeys is collected up front because resolving adds records.
func localKeys(g *tags.Graph, ref resolve.ScopeRef) []id.ID {
	var out []id.ID
	for key, values := range g.All(ref) {
		if len(values.Locals) > 0 {
			out = append(out, key)
		}
	}
	return out
}

// RemoveRoot forgets a root, its datapacks and their diagnostics.
func (w *Workspace) RemoveRoot(scope datapack.RootID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	root, ok := w.registry.Root(scope)
	if !ok {
		return false
	}
	for _, pack := range root.Datapacks {
		contents := w.contents[pack]
		if contents == nil {
			continue
		}
		for _, kind := range datapack.TagKinds() {
			cfg := w.configs[kind]
			for key := range contents.TagMap(kind).Keys() {
				report.Clear(w.reporter, cfg.Path(key, pack))
			}
		}
		delete(w.contents, pack)
	}
	for _, file := range w.problems[scope] {
		report.Clear(w.reporter, file)
	}
	delete(w.problems, scope)
	for _, g := range w.graphs {
		g.DropScope(scope)
	}
	return w.registry.RemoveRoot(scope)
}

// Roots returns every loaded root.
func (w *Workspace) Roots() []datapack.Root {
	return w.registry.Roots()
}

// RootByPath returns the root registered at path.
func (w *Workspace) RootByPath(path string) (datapack.Root, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return datapack.Root{}, false
	}
	return w.registry.RootByPath(abs)
}

// Datapack returns a loaded datapack.
func (w *Workspace) Datapack(pack datapack.DatapackID) (datapack.Datapack, bool) {
	return w.registry.Datapack(pack)
}

func (w *Workspace) graph(kind datapack.Kind) (*tags.Graph, error) {
	g, ok := w.graphs[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotATagKind, kind)
	}
	return g, nil
}

func (w *Workspace) ref(scope datapack.RootID) (resolve.ScopeRef, error) {
	if scope == 0 {
		return resolve.Global(), nil
	}
	if _, ok := w.registry.Root(scope); !ok {
		return resolve.ScopeRef{}, fmt.Errorf("%w: %d", ErrUnknownRoot, scope)
	}
	return resolve.In(scope), nil
}

// Tag resolves a tag as seen from scope. Scope 0 queries the global layer.
// The boolean is false when the tag is defined nowhere.
func (w *Workspace) Tag(kind datapack.Kind, key id.ID, scope datapack.RootID) (tags.Resolved, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	g, err := w.graph(kind)
	if err != nil {
		return tags.Resolved{}, false, err
	}
	ref, err := w.ref(scope)
	if err != nil {
		return tags.Resolved{}, false, err
	}
	return g.Get(key, ref)
}

// Values returns the raw definitions of a tag as seen from scope.
func (w *Workspace) Values(kind datapack.Kind, key id.ID, scope datapack.RootID) (resolve.Values[tags.Tag], error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	g, err := w.graph(kind)
	if err != nil {
		return resolve.Values[tags.Tag]{}, err
	}
	ref, err := w.ref(scope)
	if err != nil {
		return resolve.Values[tags.Tag]{}, err
	}
	return g.GetValues(key, ref), nil
}

// Tags lists the tag keys of kind visible from scope.
func (w *Workspace) Tags(kind datapack.Kind, scope datapack.RootID) ([]id.ID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	g, err := w.graph(kind)
	if err != nil {
		return nil, err
	}
	ref, err := w.ref(scope)
	if err != nil {
		return nil, err
	}
	var out []id.ID
	for key := range g.All(ref) {
		out = append(out, key)
	}
	return out, nil
}

// Diagnostics returns every current diagnostic, sorted by file.
func (w *Workspace) Diagnostics() []report.Entry {
	return w.collected.Entries()
}
