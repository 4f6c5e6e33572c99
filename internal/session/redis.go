package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"

	"docsync/internal/api"
	"docsync/pkg/logging"
)

// RedisOptions configures the Redis connection of a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore is a SessionStore backed by a single Redis hash.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisClient creates a client for opts and verifies connectivity.
func NewRedisClient(ctx context.Context, opts RedisOptions) (redis.UniversalClient, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{opts.Addr},
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

// NewRedisStore creates a store that keeps documents under "<prefix>:documents".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "docsync"
	}
	return &RedisStore{
		client: client,
		key:    prefix + ":documents",
	}
}

// Get returns the cached document for contextPath.
func (s *RedisStore) Get(ctx context.Context, contextPath string) (*api.ServiceDocument, bool, error) {
	data, err := s.client.HGet(ctx, s.key, contextPath).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s from redis: %w", contextPath, err)
	}

	var doc api.ServiceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		// A corrupt entry is treated as missing so the next write repairs it.
		logging.Warn("SessionStore", "Discarding unreadable entry %s: %v", contextPath, err)
		return nil, false, nil
	}
	return &doc, true, nil
}

// Upsert writes doc into its hash field.
func (s *RedisStore) Upsert(ctx context.Context, doc *api.ServiceDocument) error {
	if doc == nil {
		return fmt.Errorf("cannot store nil document")
	}
	if doc.ContextPath == "" {
		return fmt.Errorf("document %q has empty context path", doc.Name)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s: %w", doc.ContextPath, err)
	}
	if err := s.client.HSet(ctx, s.key, doc.ContextPath, data).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", doc.ContextPath, err)
	}
	return nil
}

// Prune deletes every field whose context path is not in keep.
func (s *RedisStore) Prune(ctx context.Context, keep map[string]struct{}) (int, error) {
	fields, err := s.client.HKeys(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list redis fields: %w", err)
	}

	var stale []string
	for _, f := range fields {
		if _, ok := keep[f]; !ok {
			stale = append(stale, f)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	removed, err := s.client.HDel(ctx, s.key, stale...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to prune redis fields: %w", err)
	}
	return int(removed), nil
}

// List returns all readable documents ordered by context path.
func (s *RedisStore) List(ctx context.Context) ([]*api.ServiceDocument, error) {
	entries, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list redis documents: %w", err)
	}

	docs := make([]*api.ServiceDocument, 0, len(entries))
	for path, raw := range entries {
		var doc api.ServiceDocument
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			logging.Warn("SessionStore", "Skipping unreadable entry %s: %v", path, err)
			continue
		}
		docs = append(docs, &doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ContextPath < docs[j].ContextPath })
	return docs, nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
