package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"docsync/internal/api"
)

type snapshot map[string]*api.ServiceDocument

// MemoryStore is an in-process SessionStore.
type MemoryStore struct {
	// writeMu serialises writers; readers only touch current.
	writeMu sync.Mutex
	current atomic.Pointer[snapshot]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	empty := make(snapshot)
	s.current.Store(&empty)
	return s
}

func (s *MemoryStore) load() snapshot {
	return *s.current.Load()
}

// Get returns a copy of the cached document for contextPath.
func (s *MemoryStore) Get(_ context.Context, contextPath string) (*api.ServiceDocument, bool, error) {
	doc, ok := s.load()[contextPath]
	if !ok {
		return nil, false, nil
	}
	return doc.Clone(), true, nil
}

// Upsert publishes a new snapshot containing doc.
func (s *MemoryStore) Upsert(_ context.Context, doc *api.ServiceDocument) error {
	if doc == nil {
		return fmt.Errorf("cannot store nil document")
	}
	if doc.ContextPath == "" {
		return fmt.Errorf("document %q has empty context path", doc.Name)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	old := s.load()
	next := make(snapshot, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[doc.ContextPath] = doc.Clone()
	s.current.Store(&next)
	return nil
}

// Prune publishes a snapshot that only contains paths in keep.
func (s *MemoryStore) Prune(_ context.Context, keep map[string]struct{}) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	old := s.load()
	next := make(snapshot, len(keep))
	for k, v := range old {
		if _, ok := keep[k]; ok {
			next[k] = v
		}
	}
	removed := len(old) - len(next)
	if removed > 0 {
		s.current.Store(&next)
	}
	return removed, nil
}

// List returns copies of all cached documents ordered by context path.
func (s *MemoryStore) List(_ context.Context) ([]*api.ServiceDocument, error) {
	snap := s.load()
	docs := make([]*api.ServiceDocument, 0, len(snap))
	for _, doc := range snap {
		docs = append(docs, doc.Clone())
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ContextPath < docs[j].ContextPath })
	return docs, nil
}

// Len returns the number of cached documents.
func (s *MemoryStore) Len() int {
	return len(s.load())
}
