package store

import (
	"context"
	"sort"
	"sync"

	"github.com/xhad/cdpask/internal/models"
	"github.com/xhad/cdpask/internal/types"
)

var _ types.DocumentStore = (*MemoryStore)(nil)

// MemoryStore keeps documents in a map keyed by platform.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[models.Platform]string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{docs: make(map[models.Platform]string)}
}

func (m *MemoryStore) Upsert(_ context.Context, doc models.PlatformDoc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.Platform] = doc.Content
	return nil
}

func (m *MemoryStore) UpsertAll(ctx context.Context, docs []models.PlatformDoc) error {
	for _, doc := range docs {
		if err := m.Upsert(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, platform models.Platform) (models.PlatformDoc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.docs[platform]
	if !ok {
		return models.PlatformDoc{}, ErrNotFound
	}
	return models.PlatformDoc{Platform: platform, Content: content}, nil
}

// List returns all documents ordered by platform.
func (m *MemoryStore) List(_ context.Context) ([]models.PlatformDoc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]models.PlatformDoc, 0, len(m.docs))
	for p, content := range m.docs {
		docs = append(docs, models.PlatformDoc{Platform: p, Content: content})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Platform < docs[j].Platform })
	return docs, nil
}

func (m *MemoryStore) Close() {}
