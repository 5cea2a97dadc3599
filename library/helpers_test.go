package library

import (
	"sync"

	"github.com/hashicorp/go-hclog"

	"resonate/blob"
	"resonate/storage"
	"resonate/types"
)

// memPayloadStore is an in-memory PayloadStore with injectable failures
type memPayloadStore struct {
	mu        sync.Mutex
	payloads  map[string]*types.StoredPayload
	storeErr  error
	deleteErr error
	getErr    error
}

func newMemPayloadStore() *memPayloadStore {
	return &memPayloadStore{payloads: make(map[string]*types.StoredPayload)}
}

func (m *memPayloadStore) Init() error { return nil }

func (m *memPayloadStore) Store(data []byte, meta types.TrackMetadata) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storeErr != nil {
		return "", m.storeErr
	}
	id := storage.NewPayloadID()
	m.payloads[id] = &types.StoredPayload{ID: id, Data: data, Metadata: meta}
	return id, nil
}

func (m *memPayloadStore) Get(id string) (*types.StoredPayload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.payloads[id], nil
}

func (m *memPayloadStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.payloads, id)
	return nil
}

func (m *memPayloadStore) ListIDs() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.payloads))
	for id := range m.payloads {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memPayloadStore) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = make(map[string]*types.StoredPayload)
	return nil
}

func (m *memPayloadStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payloads)
}

// newTestStore builds a store with in-memory payloads and no snapshot file
func newTestStore() (*Store, *memPayloadStore, *blob.Registry) {
	payloads := newMemPayloadStore()
	registry := blob.NewRegistry()
	store := NewStore("", payloads, registry, hclog.NewNullLogger())
	return store, payloads, registry
}

// seedTrack registers a track whose payload exists in the durable store
func seedTrack(store *Store, payloads *memPayloadStore, registry *blob.Registry, title string) types.Track {
	id, _ := payloads.Store([]byte(title), types.TrackMetadata{Title: title, MIMEType: "audio/mpeg"})
	track := types.Track{
		ID:      id,
		Title:   title,
		Artist:  "Test Artist",
		Album:   "Test Album",
		BlobURL: registry.Mint([]byte(title), "audio/mpeg"),
	}
	store.AddTrack(track)
	return track
}
