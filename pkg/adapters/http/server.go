package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/mcdata"
	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/ports"
	"github.com/aretw0/mcdata/pkg/report"
	"github.com/aretw0/mcdata/pkg/resolve"
	"github.com/aretw0/mcdata/pkg/tags"
	"github.com/go-chi/chi/v5"
)

// Engine is the query surface of a workspace.
type Engine interface {
	Roots() []datapack.Root
	Tag(kind datapack.Kind, key id.ID, scope datapack.RootID) (tags.Resolved, bool, error)
	Values(kind datapack.Kind, key id.ID, scope datapack.RootID) (resolve.Values[tags.Tag], error)
	Diagnostics() []report.Entry
}

// Server serves read-only queries over an Engine.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	Store   ports.DiagnosticStore
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*handlerConfig)

type handlerConfig struct {
	metrics http.Handler
	store   ports.DiagnosticStore
	streams *StreamManager
	logger  *slog.Logger
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(c *handlerConfig) {
		c.metrics = h
	}
}

// WithStore serves GET /diagnostics?source=store from s.
func WithStore(s ports.DiagnosticStore) Option {
	return func(c *handlerConfig) {
		c.store = s
	}
}

// WithStreams shares a StreamManager so that callers can broadcast reloads.
func WithStreams(sm *StreamManager) Option {
	return func(c *handlerConfig) {
		c.streams = sm
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *handlerConfig) {
		c.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	cfg := handlerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.streams == nil {
		cfg.streams = NewStreamManager()
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	server := &Server{
		Engine:  engine,
		Streams: cfg.streams,
		Store:   cfg.store,
		logger:  cfg.logger,
	}
	r := chi.NewRouter()

	r.Get("/healthz", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/roots", server.GetRoots)
	r.Get("/roots/{root}/tags/{kind}/*", server.GetTag)
	r.Get("/roots/{root}/values/{kind}/*", server.GetValues)
	r.Get("/global/tags/{kind}/*", server.GetTag)
	r.Get("/global/values/{kind}/*", server.GetValues)
	r.Get("/diagnostics", server.GetDiagnostics)
	r.Get("/events", server.SubscribeEvents)
	if cfg.metrics != nil {
		r.Handle("/metrics", cfg.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TagResponse is the body of a tag query.
type TagResponse struct {
	Kind    string   `json:"kind"`
	ID      string   `json:"id"`
	Scope   string   `json:"scope"`
	Results []string `json:"results"`
	Looping []string `json:"loop_roots,omitempty"`
}

// RefResponse is one entry of a raw tag.
type RefResponse struct {
	ID       string `json:"id"`
	Required bool   `json:"required"`
}

// RawTagResponse is one raw definition of a tag.
type RawTagResponse struct {
	Datapack string        `json:"datapack,omitempty"`
	Replace  bool          `json:"replace"`
	Values   []RefResponse `json:"values"`
}

// ValuesResponse is the body of a values query.
type ValuesResponse struct {
	Kind   string           `json:"kind"`
	ID     string           `json:"id"`
	Global *RawTagResponse  `json:"global,omitempty"`
	Locals []RawTagResponse `json:"locals"`
}

type query struct {
	kind  datapack.Kind
	key   id.ID
	scope datapack.RootID
}

func (s *Server) parseQuery(w http.ResponseWriter, r *http.Request) (query, bool) {
	var q query
	kind, err := datapack.ParseKind(chi.URLParam(r, "kind"))
	if err != nil || !kind.IsTag() {
		http.Error(w, fmt.Sprintf("Unknown tag kind %q", chi.URLParam(r, "kind")), http.StatusBadRequest)
		return q, false
	}
	q.kind = kind

	raw := chi.URLParam(r, "*")
	q.key = id.New(raw)
	if err := q.key.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid id: %v", err), http.StatusBadRequest)
		return q, false
	}

	if rootParam := chi.URLParam(r, "root"); rootParam != "" {
		n, err := strconv.Atoi(rootParam)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid root id", http.StatusBadRequest)
			return q, false
		}
		q.scope = datapack.RootID(n)
	}
	return q, true
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, mcdata.ErrUnknownRoot):
		status = http.StatusNotFound
	case errors.Is(err, mcdata.ErrNotATagKind):
		status = http.StatusBadRequest
	case errors.Is(err, resolve.ErrCycleDetected):
		status = http.StatusConflict
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func scopeName(scope datapack.RootID) string {
	if scope == 0 {
		return resolve.Global().String()
	}
	return resolve.In(scope).String()
}

func idStrings(ids []id.ID) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = v.String()
	}
	return out
}

// GetTag handles GET /roots/{root}/tags/{kind}/{id} and /global/tags/{kind}/{id}.
func (s *Server) GetTag(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r)
	if !ok {
		return
	}
	res, found, err := s.Engine.Tag(q.kind, q.key, q.scope)
	if err != nil {
		s.writeError(w, "Tag", err)
		return
	}
	if !found {
		http.Error(w, fmt.Sprintf("Tag %s not found", q.key), http.StatusNotFound)
		return
	}
	s.writeJSON(w, TagResponse{
		Kind:    q.kind.String(),
		ID:      q.key.String(),
		Scope:   scopeName(q.scope),
		Results: idStrings(res.Results),
		Looping: idStrings(res.LoopRoots),
	})
}

func rawTag(t tags.Tag) RawTagResponse {
	out := RawTagResponse{Replace: t.Replace, Values: make([]RefResponse, len(t.Values))}
	for i, v := range t.Values {
		out.Values[i] = RefResponse{ID: v.String(), Required: v.Required}
	}
	return out
}

// GetValues handles GET /roots/{root}/values/{kind}/{id}.
func (s *Server) GetValues(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r)
	if !ok {
		return
	}
	values, err := s.Engine.Values(q.kind, q.key, q.scope)
	if err != nil {
		s.writeError(w, "Values", err)
		return
	}
	if values.Empty() {
		http.Error(w, fmt.Sprintf("Tag %s not found", q.key), http.StatusNotFound)
		return
	}

	resp := ValuesResponse{Kind: q.kind.String(), ID: q.key.String(), Locals: []RawTagResponse{}}
	if values.HasGlobal {
		g := rawTag(values.Global)
		resp.Global = &g
	}
	for _, l := range values.Locals {
		raw := rawTag(l.Value)
		raw.Datapack = strconv.Itoa(int(l.Source))
		resp.Locals = append(resp.Locals, raw)
	}
	s.writeJSON(w, resp)
}

// GetRoots handles GET /roots.
func (s *Server) GetRoots(w http.ResponseWriter, r *http.Request) {
	roots := s.Engine.Roots()
	if roots == nil {
		roots = []datapack.Root{}
	}
	s.writeJSON(w, roots)
}

// GetDiagnostics handles GET /diagnostics. The file query parameter keeps
// the entries of one file; source=store reads the configured store instead
// of the in-memory collection.
func (s *Server) GetDiagnostics(w http.ResponseWriter, r *http.Request) {
	entries := s.Engine.Diagnostics()
	if r.URL.Query().Get("source") == "store" {
		if s.Store == nil {
			http.Error(w, "No diagnostic store configured", http.StatusNotFound)
			return
		}
		var err error
		entries, err = s.Store.List(r.Context())
		if err != nil {
			s.writeError(w, "List", err)
			return
		}
	}
	if file := r.URL.Query().Get("file"); file != "" {
		var kept []report.Entry
		for _, e := range entries {
			if e.File == file {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	if entries == nil {
		entries = []report.Entry{}
	}
	s.writeJSON(w, entries)
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "mcdata-http",
		"version": strings.TrimSpace(mcdata.Version),
	})
}

// StreamManager fans reload notifications out to SSE clients.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
		logger:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
}

func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Broadcast sends msg to every subscriber without blocking.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

// Forward broadcasts every value of events until it closes or ctx is done.
func (sm *StreamManager) Forward(ctx context.Context, events <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			sm.Broadcast(msg)
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
