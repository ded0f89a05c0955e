package ports_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/ports"
)

// MockStore is an in-memory implementation of SnapshotStore for testing purposes.
type MockStore struct {
	mu   sync.Mutex
	data map[string]domain.Snapshot
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]domain.Snapshot),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Copy the versions map to simulate serialization
	copied := *snap
	copied.Versions = make(map[domain.Slot]uint64, len(snap.Versions))
	for k, v := range snap.Versions {
		copied.Versions[k] = v
	}
	m.data[sessionID] = copied
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &snap, nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestSnapshotStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, NewMockStore())
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		target, origin string
		want           bool
	}{
		{"*", "https://a.example", true},
		{"", "https://a.example", true},
		{"https://a.example", "https://a.example", true},
		{"https://a.example", "https://b.example", false},
	}
	for _, tt := range tests {
		if got := ports.OriginAllowed(tt.target, tt.origin); got != tt.want {
			t.Errorf("OriginAllowed(%q, %q) = %v, want %v", tt.target, tt.origin, got, tt.want)
		}
	}
}

func TestEditorFunc(t *testing.T) {
	var got string
	editor := ports.EditorFunc[any](func(ctx context.Context, cb ports.EditorCallbacks[any]) error {
		cb.OnLocaleInit("pt-BR")
		return nil
	})
	err := editor.Bind(context.Background(), ports.EditorCallbacks[any]{
		OnLocaleInit: func(l string) { got = l },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "pt-BR" {
		t.Errorf("expected pt-BR, got %q", got)
	}
}
