package datapack

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/resolve"
)

// RootKind classifies a root.
type RootKind int

const (
	// World roots hold several datapacks under datapacks/.
	World RootKind = iota
	// Pack roots are a single datapack with a data/ folder.
	Pack
	// FunctionsRoot is a bare namespace folder holding functions/.
	// Only function resources are read from it.
	FunctionsRoot
)

func (k RootKind) String() string {
	switch k {
	case World:
		return "world"
	case Pack:
		return "datapack"
	case FunctionsRoot:
		return "functions"
	default:
		return "unknown"
	}
}

func (k RootKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// markers are checked in order; the first directory matching one wins.
var markers = []struct {
	kind RootKind
	dir  string
}{
	{World, "datapacks"},
	{Pack, "data"},
	{FunctionsRoot, "functions"},
}

// FindRoot returns the root containing filePath. The directory names are
// matched case-insensitively and the file name itself is never a marker.
func FindRoot(filePath string) (RootKind, string, bool) {
	dir := filepath.ToSlash(filepath.Dir(filepath.Clean(filePath)))
	parts := strings.Split(dir, "/")
	for _, m := range markers {
		i := slices.IndexFunc(parts, func(d string) bool { return strings.EqualFold(d, m.dir) })
		if i == -1 {
			continue
		}
		root := strings.Join(parts[:i], "/")
		if root == "" {
			root = "."
			if strings.HasPrefix(dir, "/") {
				root = "/"
			}
		}
		return m.kind, filepath.FromSlash(root), true
	}
	return 0, "", false
}

// RootID identifies a root. Roots are the scopes of the tag graphs.
type RootID = resolve.ScopeID

// DatapackID identifies a datapack. Datapacks are the sources within a scope.
type DatapackID = resolve.SourceID

// Root is a registered root.
type Root struct {
	ID   RootID   `json:"id" yaml:"id"`
	Path string   `json:"path" yaml:"path"`
	Kind RootKind `json:"kind" yaml:"kind"`
	// Datapacks lists the packs of the root in load order.
	Datapacks []DatapackID `json:"datapacks" yaml:"datapacks"`
}

// Datapack is a registered datapack.
type Datapack struct {
	ID     DatapackID `json:"id" yaml:"id"`
	Name   string     `json:"name" yaml:"name"`
	Root   RootID     `json:"root" yaml:"root"`
	Mcmeta *Mcmeta    `json:"mcmeta,omitempty" yaml:"mcmeta,omitempty"`
}

// Registry assigns IDs to roots and datapacks. IDs are never reused.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	roots    map[RootID]*Root
	paths    map[string]RootID
	packs    map[DatapackID]*Datapack
	nextRoot RootID
	nextPack DatapackID
}

// NewRegistry creates an empty registry. The first root gets ID 1.
func NewRegistry() *Registry {
	return &Registry{
		roots:    make(map[RootID]*Root),
		paths:    make(map[string]RootID),
		packs:    make(map[DatapackID]*Datapack),
		nextRoot: 1,
		nextPack: 1,
	}
}

// AddRoot registers the root at path. It returns the existing root and false
// when path is already registered.
func (r *Registry) AddRoot(path string, kind RootKind) (Root, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	path = filepath.Clean(path)
	if existing, ok := r.paths[path]; ok {
		return r.roots[existing].clone(), false
	}
	root := &Root{ID: r.nextRoot, Path: path, Kind: kind}
	r.nextRoot++
	r.roots[root.ID] = root
	r.paths[path] = root.ID
	return root.clone(), true
}

// AddDatapack registers a datapack of root.
func (r *Registry) AddDatapack(root RootID, name string, meta *Mcmeta) (Datapack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.roots[root]
	if !ok {
		return Datapack{}, ErrUnknownRoot
	}
	pack := &Datapack{ID: r.nextPack, Name: name, Root: root, Mcmeta: meta}
	r.nextPack++
	r.packs[pack.ID] = pack
	owner.Datapacks = append(owner.Datapacks, pack.ID)
	return *pack, nil
}

// RemoveDatapack unregisters a datapack.
func (r *Registry) RemoveDatapack(pack DatapackID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.packs[pack]
	if !ok {
		return
	}
	delete(r.packs, pack)
	if owner, ok := r.roots[p.Root]; ok {
		owner.Datapacks = slices.DeleteFunc(owner.Datapacks, func(d DatapackID) bool { return d == pack })
	}
}

// RemoveRoot unregisters a root and its datapacks.
func (r *Registry) RemoveRoot(root RootID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.roots[root]
	if !ok {
		return false
	}
	for _, p := range owner.Datapacks {
		delete(r.packs, p)
	}
	delete(r.paths, owner.Path)
	delete(r.roots, root)
	return true
}

// Root returns a registered root.
func (r *Registry) Root(root RootID) (Root, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.roots[root]
	if !ok {
		return Root{}, false
	}
	return owner.clone(), true
}

// RootByPath returns the root registered at path.
func (r *Registry) RootByPath(path string) (Root, bool) {
	r.mu.RLock()
	id, ok := r.paths[filepath.Clean(path)]
	r.mu.RUnlock()
	if !ok {
		return Root{}, false
	}
	return r.Root(id)
}

// Roots returns every root ordered by ID.
func (r *Registry) Roots() []Root {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Root, 0, len(r.roots))
	for _, root := range r.roots {
		out = append(out, root.clone())
	}
	slices.SortFunc(out, func(a, b Root) int { return int(a.ID) - int(b.ID) })
	return out
}

// Datapack returns a registered datapack.
func (r *Registry) Datapack(pack DatapackID) (Datapack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.packs[pack]
	if !ok {
		return Datapack{}, false
	}
	return *p, true
}

// DatapackByName finds the datapack of root called name.
func (r *Registry) DatapackByName(root RootID, name string) (Datapack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.roots[root]
	if !ok {
		return Datapack{}, false
	}
	for _, p := range owner.Datapacks {
		if r.packs[p].Name == name {
			return *r.packs[p], true
		}
	}
	return Datapack{}, false
}

// DataFolder returns the data folder of a datapack on disk.
func (r *Registry) DataFolder(pack DatapackID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.packs[pack]
	if !ok {
		return "", ErrUnknownDatapack
	}
	root, ok := r.roots[p.Root]
	if !ok {
		return "", ErrUnknownRoot
	}
	switch root.Kind {
	case Pack:
		return filepath.Join(root.Path, "data"), nil
	case FunctionsRoot:
		return filepath.Dir(root.Path), nil
	default:
		return filepath.Join(root.Path, "datapacks", p.Name, "data"), nil
	}
}

// ResourcePath rebuilds the file that defines key for kind in pack.
func (r *Registry) ResourcePath(kind Kind, key id.ID, pack DatapackID) (string, error) {
	dataFolder, err := r.DataFolder(pack)
	if err != nil {
		return "", err
	}
	parts := []string{dataFolder, key.LogicalNamespace()}
	parts = append(parts, kind.Folders()...)
	parts = append(parts, filepath.FromSlash(key.Path)+kind.Extension())
	return filepath.Join(parts...), nil
}

func (r *Root) clone() Root {
	c := *r
	c.Datapacks = slices.Clone(r.Datapacks)
	return c
}

// Detect classifies the directory behind fsys. A directory holding a
// datapacks folder is a world, one holding data is a datapack and one
// holding functions is a functions root.
func Detect(fsys fs.FS) (RootKind, bool) {
	for _, m := range markers {
		info, err := fs.Stat(fsys, m.dir)
		if err == nil && info.IsDir() {
			return m.kind, true
		}
	}
	return 0, false
}
