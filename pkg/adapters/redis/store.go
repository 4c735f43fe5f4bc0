package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/mcdata/pkg/report"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "mcdata:"

// Store implements ports.DiagnosticStore using Redis.
//
// Every file is a hash at <prefix>diag:<file> whose fields are kind names and
// whose values are JSON diagnostics. <prefix>index is a set of those files.
type Store struct {
	client  *backend.Client
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures the Redis store.
type Option func(*Store)

// WithPrefix sets a custom key prefix (default "mcdata:").
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTimeout bounds the Reporter calls, which carry no context (default 2s).
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithLogger sets the logger used for Reporter failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store connected to the given Redis server.
func New(addr, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client:  client,
		prefix:  defaultPrefix,
		timeout: 2 * time.Second,
		logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) fileKey(file string) string {
	return s.prefix + "diag:" + file
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// AddError stores d under file, replacing any diagnostic of the same kind.
func (s *Store) AddError(file string, d report.Diagnostic) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.Add(ctx, file, d); err != nil {
		s.logger.Error("failed to store diagnostic", "file", file, "kind", d.Kind.String(), "err", err)
	}
}

// Add is AddError with a context and an error result.
func (s *Store) Add(ctx context.Context, file string, d report.Diagnostic) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostic: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.HSet(ctx, s.fileKey(file), d.Kind.String(), data)
		pipe.SAdd(ctx, s.indexKey(), file)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add diagnostic to redis: %w", err)
	}
	return nil
}

// RemoveError drops the diagnostic of kind for file.
func (s *Store) RemoveError(file string, kind report.Kind) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.Remove(ctx, file, kind); err != nil {
		s.logger.Error("failed to remove diagnostic", "file", file, "kind", kind.String(), "err", err)
	}
}

// Remove is RemoveError with a context and an error result.
func (s *Store) Remove(ctx context.Context, file string, kind report.Kind) error {
	key := s.fileKey(file)
	if err := s.client.HDel(ctx, key, kind.String()).Err(); err != nil {
		return fmt.Errorf("failed to remove diagnostic from redis: %w", err)
	}
	n, err := s.client.HLen(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to count diagnostics: %w", err)
	}
	if n == 0 {
		if err := s.client.SRem(ctx, s.indexKey(), file).Err(); err != nil {
			return fmt.Errorf("failed to update index: %w", err)
		}
	}
	return nil
}

// List returns every stored diagnostic ordered by file then kind.
func (s *Store) List(ctx context.Context) ([]report.Entry, error) {
	files, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list index: %w", err)
	}

	var entries []report.Entry
	for _, file := range files {
		fields, err := s.client.HGetAll(ctx, s.fileKey(file)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		if len(fields) == 0 {
			// Lazy cleanup if the hash disappeared without an index update
			s.client.SRem(ctx, s.indexKey(), file)
			continue
		}
		for _, raw := range fields {
			var d report.Diagnostic
			if err := json.Unmarshal([]byte(raw), &d); err != nil {
				return nil, fmt.Errorf("failed to unmarshal diagnostic for %s: %w", file, err)
			}
			entries = append(entries, report.Entry{File: file, Diagnostic: d})
		}
	}
	report.SortEntries(entries)
	return entries, nil
}

// Reset removes every diagnostic and the index.
func (s *Store) Reset(ctx context.Context) error {
	files, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to list index: %w", err)
	}
	keys := make([]string, 0, len(files)+1)
	for _, file := range files {
		keys = append(keys, s.fileKey(file))
	}
	keys = append(keys, s.indexKey())
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset diagnostics: %w", err)
	}
	return nil
}
