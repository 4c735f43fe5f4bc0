package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/mcdata"
	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/report"
	"github.com/aretw0/mcdata/pkg/resolve"
	"github.com/aretw0/mcdata/pkg/tags"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DiagnosticsURI is the resource listing every current diagnostic.
const DiagnosticsURI = "mcdata://diagnostics"

// Engine is the query surface of a workspace.
type Engine interface {
	Roots() []datapack.Root
	Tag(kind datapack.Kind, key id.ID, scope datapack.RootID) (tags.Resolved, bool, error)
	Values(kind datapack.Kind, key id.ID, scope datapack.RootID) (resolve.Values[tags.Tag], error)
	Diagnostics() []report.Entry
}

// TagArgs selects a tag. Root 0 is the global layer.
type TagArgs struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Root int    `json:"root"`
}

// TagResult is the output of resolve_tag.
type TagResult struct {
	Kind      string   `json:"kind" jsonschema_description:"Tag kind, such as block_tags"`
	ID        string   `json:"id" jsonschema_description:"Tag ID"`
	Found     bool     `json:"found" jsonschema_description:"False when the tag is defined nowhere"`
	Results   []string `json:"results" jsonschema_description:"Every member with references expanded"`
	LoopRoots []string `json:"loop_roots,omitempty" jsonschema_description:"Tags that reference back into this one"`
}

// Definition is one raw definition of a tag.
type Definition struct {
	Datapack int      `json:"datapack,omitempty" jsonschema_description:"Datapack ID; 0 for the global layer"`
	Replace  bool     `json:"replace"`
	Values   []string `json:"values"`
}

// ValuesResult is the output of get_values.
type ValuesResult struct {
	Kind        string       `json:"kind"`
	ID          string       `json:"id"`
	Definitions []Definition `json:"definitions" jsonschema_description:"Local definitions first, global last"`
}

// DiagnosticsArgs filters list_diagnostics.
type DiagnosticsArgs struct {
	File string `json:"file"`
}

// DiagnosticsResult is the output of list_diagnostics.
type DiagnosticsResult struct {
	Count   int            `json:"count"`
	Entries []report.Entry `json:"entries"`
}

type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates an MCP server over engine. A nil logger uses slog.Default.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("mcdata-mcp", strings.TrimSpace(mcdata.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	resolveTool := mcp.NewTool("resolve_tag",
		mcp.WithDescription("Resolve a tag, expanding every referenced tag, as seen from a root."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Tag kind: block_tags, entity_tags, fluid_tags, function_tags or item_tags")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Tag ID, such as minecraft:logs")),
		mcp.WithNumber("root", mcp.Description("Root ID from list_roots; omit for the global layer")),
		mcp.WithOutputSchema[TagResult](),
	)
	s.mcpServer.AddTool(resolveTool, mcp.NewStructuredToolHandler(s.handleResolveTag))

	valuesTool := mcp.NewTool("get_values",
		mcp.WithDescription("List the raw definitions of a tag visible from a root."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Tag kind")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Tag ID")),
		mcp.WithNumber("root", mcp.Description("Root ID; omit for the global layer")),
		mcp.WithOutputSchema[ValuesResult](),
	)
	s.mcpServer.AddTool(valuesTool, mcp.NewStructuredToolHandler(s.handleGetValues))

	diagnosticsTool := mcp.NewTool("list_diagnostics",
		mcp.WithDescription("List the current problems found in the loaded roots."),
		mcp.WithString("file", mcp.Description("Only report this file (optional)")),
		mcp.WithOutputSchema[DiagnosticsResult](),
	)
	s.mcpServer.AddTool(diagnosticsTool, mcp.NewStructuredToolHandler(s.handleListDiagnostics))

	s.mcpServer.AddTool(mcp.NewTool("list_roots",
		mcp.WithDescription("List the loaded roots and their datapacks."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.engine.Roots())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func parseTagArgs(args TagArgs) (datapack.Kind, id.ID, error) {
	kind, err := datapack.ParseKind(args.Kind)
	if err != nil {
		return 0, id.ID{}, err
	}
	if !kind.IsTag() {
		return 0, id.ID{}, fmt.Errorf("%w: %s", mcdata.ErrNotATagKind, kind)
	}
	key := id.New(args.ID)
	if err := key.Validate(); err != nil {
		return 0, id.ID{}, err
	}
	return kind, key, nil
}

func idStrings(ids []id.ID) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = v.String()
	}
	return out
}

func (s *Server) handleResolveTag(ctx context.Context, request mcp.CallToolRequest, args TagArgs) (TagResult, error) {
	kind, key, err := parseTagArgs(args)
	if err != nil {
		return TagResult{}, err
	}
	res, found, err := s.engine.Tag(kind, key, datapack.RootID(args.Root))
	if err != nil {
		return TagResult{}, fmt.Errorf("resolve failed: %w", err)
	}
	return TagResult{
		Kind:      kind.String(),
		ID:        key.String(),
		Found:     found,
		Results:   idStrings(res.Results),
		LoopRoots: idStrings(res.LoopRoots),
	}, nil
}

func definition(source resolve.SourceID, t tags.Tag) Definition {
	d := Definition{Datapack: int(source), Replace: t.Replace, Values: make([]string, len(t.Values))}
	for i, v := range t.Values {
		d.Values[i] = v.String()
	}
	return d
}

func (s *Server) handleGetValues(ctx context.Context, request mcp.CallToolRequest, args TagArgs) (ValuesResult, error) {
	kind, key, err := parseTagArgs(args)
	if err != nil {
		return ValuesResult{}, err
	}
	values, err := s.engine.Values(kind, key, datapack.RootID(args.Root))
	if err != nil {
		return ValuesResult{}, fmt.Errorf("values failed: %w", err)
	}
	out := ValuesResult{Kind: kind.String(), ID: key.String(), Definitions: []Definition{}}
	for _, in := range values.Ordered() {
		out.Definitions = append(out.Definitions, definition(in.Source, in.Value))
	}
	return out, nil
}

func (s *Server) handleListDiagnostics(ctx context.Context, request mcp.CallToolRequest, args DiagnosticsArgs) (DiagnosticsResult, error) {
	entries := []report.Entry{}
	for _, e := range s.engine.Diagnostics() {
		if args.File == "" || e.File == args.File {
			entries = append(entries, e)
		}
	}
	return DiagnosticsResult{Count: len(entries), Entries: entries}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(DiagnosticsURI, "Current Diagnostics",
		mcp.WithMIMEType("application/json"),
	), s.readDiagnostics)
}

func (s *Server) readDiagnostics(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.engine.Diagnostics())
	if err != nil {
		return nil, fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DiagnosticsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
