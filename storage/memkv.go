package storage

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
)

// MemStore is an in-memory Store, safe for concurrent use. It exists for
// tests and for experiments that don't need durability across process
// restarts.
type MemStore struct {
	mu   sync.RWMutex
	data map[ids.Kind]map[ids.Id][]byte
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[ids.Kind]map[ids.Id][]byte)}
}

func (m *MemStore) Store(kind ids.Kind, id ids.Id, value any) error {
	encoded, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.data[kind]
	if bucket == nil {
		bucket = make(map[ids.Id][]byte)
		m.data[kind] = bucket
	}
	bucket[id] = encoded
	return nil
}

func (m *MemStore) Read(kind ids.Kind, id ids.Id, out any) (bool, error) {
	m.mu.RLock()
	encoded, ok := m.data[kind][id]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := msgpack.Unmarshal(encoded, out); err != nil {
		return false, fmt.Errorf("storage: decode %s: %w", id, err)
	}
	return true, nil
}

func (m *MemStore) Delete(kind ids.Kind, id ids.Id) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[kind], id)
	return nil
}

func (m *MemStore) List(kind ids.Kind) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bucket := m.data[kind]
	out := make([]Record, 0, len(bucket))
	for id, encoded := range bucket {
		out = append(out, Record{Id: id, Value: encoded})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id.Token < out[j].Id.Token })
	return out, nil
}

// Backup writes every kind's entries to path as a single msgpack-encoded
// snapshot, the in-memory analog of SQLiteStore.Backup's file copy.
func (m *MemStore) Backup(path string) (string, error) {
	m.mu.RLock()
	snapshot := make(map[ids.Kind]map[ids.Id][]byte, len(m.data))
	for kind, bucket := range m.data {
		copied := make(map[ids.Id][]byte, len(bucket))
		for id, v := range bucket {
			copied[id] = v
		}
		snapshot[kind] = copied
	}
	m.mu.RUnlock()

	encoded, err := msgpack.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("storage: encode backup snapshot: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", fmt.Errorf("storage: write backup to %s: %w", path, err)
	}
	return path, nil
}
