package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/tags"
)

// WatchPattern selects the files that affect a root.
const WatchPattern = "**/*.{json,mcmeta,mcfunction,nbt}"

// Source adapts a Loam repository over a root directory. It lists tag
// documents and reports file changes.
type Source struct {
	Repo *loam.TypedRepository[TagDocument]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[TagDocument]) *Source {
	return &Source{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir.
func Open(dir string) (*Source, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	// Strict mode keeps numbers as json.Number; ReadOnly avoids Loam's
	// sandbox in dev mode. Roots are never written.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[TagDocument](repo)), nil
}

// TagPath locates a tag document inside a root.
type TagPath struct {
	// Pack is the datapack folder name for world roots, empty otherwise.
	Pack string
	Kind datapack.Kind
	Key  id.ID
}

// ParseTagPath recognizes <datapacks/pack/>data/<ns>/tags/<folder>/<path>.
// docID may carry a file extension.
func ParseTagPath(docID string) (TagPath, bool) {
	parts := strings.Split(trimExtension(docID), "/")
	for i := 0; i+4 < len(parts); i++ {
		if parts[i] != "data" || parts[i+2] != "tags" {
			continue
		}
		kind, err := datapack.ParseKind("tags/" + parts[i+3])
		if err != nil || !kind.IsTag() {
			return TagPath{}, false
		}
		tp := TagPath{
			Kind: kind,
			Key:  id.NewIn(parts[i+1], strings.Join(parts[i+4:], "/")),
		}
		if i >= 2 && parts[i-2] == "datapacks" {
			tp.Pack = parts[i-1]
		}
		return tp, true
	}
	return TagPath{}, false
}

// TagEntry is one decoded tag document.
type TagEntry struct {
	DocID string
	TagPath
	Tag tags.Tag
}

// ListTags decodes every tag document of the repository.
// Documents that fail to decode are skipped; the collector reports them.
func (s *Source) ListTags(ctx context.Context) ([]TagEntry, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	var out []TagEntry
	for _, doc := range docs {
		tp, ok := ParseTagPath(doc.ID)
		if !ok {
			continue
		}
		tag, err := tags.Decode(doc.Data.raw())
		if err != nil {
			continue
		}
		out = append(out, TagEntry{DocID: trimExtension(doc.ID), TagPath: tp, Tag: tag})
	}
	return out, nil
}

// Tag decodes a single tag document.
func (s *Source) Tag(ctx context.Context, docID string) (tags.Tag, error) {
	doc, err := s.Repo.Get(ctx, trimExtension(docID))
	if err != nil {
		return tags.Tag{}, fmt.Errorf("loam get failed for %s: %w", docID, err)
	}
	return tags.Decode(doc.Data.raw())
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable. Each value is the ID of a changed document.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	// Recursive doublestar pattern supported by Loam; avoids a manual filtering loop.
	events, err := s.Repo.Watch(ctx, WatchPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				// Loam debounces on its own; pass the changed ID up the chain.
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
