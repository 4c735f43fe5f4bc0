package datapack

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/report"
	"github.com/aretw0/mcdata/pkg/tags"
)

// McmetaFile is the name of a datapack's metadata file.
const McmetaFile = "pack.mcmeta"

// Collector reads resources from a file system.
type Collector struct {
	reporter report.Reporter
	logger   *slog.Logger
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithReporter sets where collection diagnostics go.
func WithReporter(r report.Reporter) CollectorOption {
	return func(c *Collector) {
		c.reporter = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) {
		c.logger = logger
	}
}

// NewCollector creates a collector that discards diagnostics by default.
func NewCollector(opts ...CollectorOption) *Collector {
	c := &Collector{
		reporter: report.Nop{},
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scanned is one datapack found in a root.
type Scanned struct {
	Name     string
	Mcmeta   *Mcmeta
	Contents *Contents
}

// Scan collects every datapack of root. fsys must be rooted at root.Path.
func (c *Collector) Scan(fsys fs.FS, root Root) ([]Scanned, error) {
	switch root.Kind {
	case Pack:
		s, err := c.pack(fsys, filepath.Base(root.Path), ".", root.Path)
		if err != nil {
			return nil, err
		}
		return []Scanned{s}, nil

	case FunctionsRoot:
		ns := filepath.Base(root.Path)
		contents := NewContents()
		c.collectKind(fsys, contents, ".", ns, Functions, root.Path)
		return []Scanned{{Name: ns, Contents: contents}}, nil

	default:
		entries, err := fs.ReadDir(fsys, "datapacks")
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		var out []Scanned
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			s, err := c.pack(fsys, e.Name(), path.Join("datapacks", e.Name()), root.Path)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
}

func (c *Collector) pack(fsys fs.FS, name, dir, display string) (Scanned, error) {
	contents, err := c.Data(fsys, path.Join(dir, "data"), display)
	if err != nil {
		return Scanned{}, err
	}
	s := Scanned{Name: name, Contents: contents}
	s.Mcmeta = c.mcmeta(fsys, contents, path.Join(dir, McmetaFile), display)
	return s, nil
}

// Data collects every namespace below dir. Reported file names are fsys
// paths joined to display. A missing dir yields empty contents.
func (c *Collector) Data(fsys fs.FS, dir, display string) (*Contents, error) {
	contents := NewContents()
	namespaces, err := fs.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return contents, nil
	}
	if err != nil {
		return nil, err
	}
	for _, ns := range namespaces {
		if !ns.IsDir() {
			continue
		}
		for _, kind := range Kinds() {
			c.collectKind(fsys, contents, path.Join(dir, ns.Name()), ns.Name(), kind, display)
		}
	}
	return contents, nil
}

func (c *Collector) collectKind(fsys fs.FS, contents *Contents, nsDir, namespace string, kind Kind, display string) {
	base := path.Join(append([]string{nsDir}, kind.Folders()...)...)
	ext := kind.Extension()

	err := fs.WalkDir(fsys, base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == base {
				// Folder probably doesn't exist. Not an issue
				return fs.SkipDir
			}
			c.logger.Warn("failed to read resource", "path", p, "err", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		file := displayPath(display, p)
		if path.Ext(name) != ext {
			// E.g. the common foo.mcfunction.txt
			if strings.Contains(name, ext) {
				c.problem(contents, file, report.Diagnostic{
					Kind:     report.WrongExtension,
					Expected: ext,
					Actual:   path.Ext(name),
				})
			}
			return nil
		}
		rel := strings.TrimPrefix(p, base+"/")
		key := id.NewIn(namespace, strings.TrimSuffix(rel, ext))
		c.load(fsys, contents, kind, key, p, file)
		return nil
	})
	if err != nil {
		c.logger.Warn("failed to walk resources", "path", base, "err", err)
	}
}

func (c *Collector) load(fsys fs.FS, contents *Contents, kind Kind, key id.ID, p, file string) {
	if ext := kind.Extension(); ext != ".json" {
		contents.Add(kind, key)
		return
	}
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		c.logger.Warn("failed to read resource", "path", p, "err", err)
		return
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		c.problem(contents, file, report.Diagnostic{Kind: report.InvalidJSON, Message: err.Error()})
		return
	}
	switch {
	case kind.IsTag():
		tag, err := tags.Decode(raw)
		if err != nil {
			c.problem(contents, file, report.Diagnostic{Kind: report.InvalidJSON, Message: err.Error()})
			return
		}
		contents.AddTag(kind, key, tag)
	case kind == Advancements:
		adv, err := DecodeAdvancement(raw)
		if err != nil {
			c.problem(contents, file, report.Diagnostic{Kind: report.InvalidJSON, Message: err.Error()})
			return
		}
		contents.AddAdvancement(key, adv)
	default:
		contents.Add(kind, key)
	}
}

func (c *Collector) mcmeta(fsys fs.FS, contents *Contents, p, display string) *Mcmeta {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil
	}
	meta, err := DecodeMcmeta(data)
	if err != nil {
		c.problem(contents, displayPath(display, p), report.Diagnostic{Kind: report.InvalidJSON, Message: err.Error()})
		return nil
	}
	return meta
}

func (c *Collector) problem(contents *Contents, file string, d report.Diagnostic) {
	contents.Problems = append(contents.Problems, file)
	c.reporter.AddError(file, d)
}

func displayPath(display, p string) string {
	if display == "" {
		return p
	}
	return filepath.Join(display, filepath.FromSlash(p))
}
