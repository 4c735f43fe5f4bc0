// Package vanilla loads the built-in game data produced by the data
// generator: block states, registries, the command tree and the default
// data folder. The result is the immutable global layer of a workspace.
package vanilla

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"slices"

	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/aretw0/mcdata/pkg/id"
)

// Registry names used by member validation.
const (
	RegistryEntityType = "minecraft:entity_type"
	RegistryFluid      = "minecraft:fluid"
	RegistryItem       = "minecraft:item"
	RegistryBlock      = "minecraft:block"
)

// Generator output locations, relative to the generated folder.
const (
	BlocksReport     = "reports/blocks.json"
	RegistriesReport = "reports/registries.json"
	CommandsReport   = "reports/commands.json"
	DataFolder       = "data"
)

// ErrMissingReport is returned when a required generator report is absent.
var ErrMissingReport = errors.New("missing generator report")

// Properties maps a block state property to its allowed values.
type Properties map[string][]string

// CommandNode is one node of the command tree.
type CommandNode struct {
	Type       string                  `json:"type"`
	Children   map[string]*CommandNode `json:"children,omitempty"`
	Executable bool                    `json:"executable,omitempty"`
	Redirect   []string                `json:"redirect,omitempty"`
	Parser     string                  `json:"parser,omitempty"`
	Properties map[string]any          `json:"properties,omitempty"`
}

// Global is the built-in data set.
type Global struct {
	Version    string
	Blocks     *id.Map[Properties]
	Registries map[string]*id.Set
	// Commands is nil when the generator did not emit a command tree.
	Commands  *CommandNode
	Resources *datapack.Contents
}

// Empty returns a global data set with nothing in it.
func Empty() *Global {
	return &Global{
		Blocks:     id.NewMap[Properties](),
		Registries: make(map[string]*id.Set),
		Resources:  datapack.NewContents(),
	}
}

// HasBlock reports whether block exists.
func (g *Global) HasBlock(block id.ID) bool {
	return g.Blocks.Has(block)
}

// InRegistry reports whether entry is registered in registry.
func (g *Global) InRegistry(registry string, entry id.ID) bool {
	set, ok := g.Registries[registry]
	return ok && set.Has(entry)
}

// RegistryNames returns the loaded registry names, sorted.
func (g *Global) RegistryNames() []string {
	names := make([]string, 0, len(g.Registries))
	for name := range g.Registries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type registryReport struct {
	Entries map[string]json.RawMessage `json:"entries"`
}

type blockReport struct {
	Properties map[string][]string `json:"properties"`
}

// Load reads generator output from fsys. The block and registry reports are
// required; the command tree and data folder are optional.
func Load(fsys fs.FS, version string, logger *slog.Logger) (*Global, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	g := Empty()
	g.Version = version

	var blocks map[string]blockReport
	if err := readJSON(fsys, BlocksReport, &blocks); err != nil {
		return nil, err
	}
	for name, b := range blocks {
		props := make(Properties, len(b.Properties))
		for prop, values := range b.Properties {
			props[prop] = values
		}
		g.Blocks.Set(id.New(name), props)
	}

	var registries map[string]registryReport
	if err := readJSON(fsys, RegistriesReport, &registries); err != nil {
		return nil, err
	}
	for name, r := range registries {
		if r.Entries == nil {
			continue
		}
		set := id.NewSet()
		for entry := range r.Entries {
			set.Add(id.New(entry))
		}
		g.Registries[name] = set
	}

	var commands CommandNode
	switch err := readJSON(fsys, CommandsReport, &commands); {
	case err == nil:
		g.Commands = &commands
	case errors.Is(err, ErrMissingReport):
	default:
		return nil, err
	}

	collector := datapack.NewCollector(datapack.WithLogger(logger))
	resources, err := collector.Data(fsys, DataFolder, "")
	if err != nil {
		return nil, fmt.Errorf("vanilla data folder: %w", err)
	}
	g.Resources = resources

	logger.Debug("vanilla data loaded",
		"version", version,
		"blocks", g.Blocks.Len(),
		"registries", len(g.Registries),
	)
	return g, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrMissingReport, name)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
