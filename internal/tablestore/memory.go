package tablestore

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mhaveles/airbnboptimizer/internal/domain"
)

// MemoryStore is an in-memory Store used by tests and the local stub
// vendor server. Record ids carry the same "rec" prefix the hosted store
// issues so id validation behaves identically.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]map[string]any
	order   []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]map[string]any)}
}

func newRecordID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return domain.RecordIDPrefix + raw[:14]
}

// Find returns a copy of the record's fields.
func (m *MemoryStore) Find(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fields, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Record{ID: id, Fields: copyFields(fields)}, nil
}

// Create inserts a new record and returns it with a minted id.
func (m *MemoryStore) Create(_ context.Context, fields map[string]any) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := newRecordID()
	m.records[id] = copyFields(fields)
	m.order = append(m.order, id)
	return &Record{ID: id, Fields: copyFields(fields)}, nil
}

// Update merges fields into an existing record.
func (m *MemoryStore) Update(_ context.Context, id string, fields map[string]any) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range fields {
		existing[k] = v
	}
	return &Record{ID: id, Fields: copyFields(existing)}, nil
}

// FindByCheckoutSession scans for the first record holding sessionID,
// in insertion order.
func (m *MemoryStore) FindByCheckoutSession(_ context.Context, sessionID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		fields := m.records[id]
		if s, ok := fields[domain.FieldCheckoutSessionID].(string); ok && s == sessionID {
			return &Record{ID: id, Fields: copyFields(fields)}, nil
		}
	}
	return nil, ErrNotFound
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
