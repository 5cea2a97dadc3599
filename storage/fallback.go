package storage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"resonate/types"
)

// FallbackMaxFileSize caps per-file payloads in the fallback store. The
// fallback trades capacity for availability, so oversized files fail fast
// instead of being truncated.
const FallbackMaxFileSize = 5 * 1024 * 1024

// FallbackStore is a degraded PayloadStore used when the SQLite database
// cannot be opened. Each payload is one JSON file with base64-encoded
// bytes under dir.
type FallbackStore struct {
	dir    string
	logger hclog.Logger
	mu     sync.Mutex
}

// NewFallbackStore creates a fallback store rooted at dir.
func NewFallbackStore(dir string, log hclog.Logger) *FallbackStore {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &FallbackStore{
		dir:    dir,
		logger: log.Named("storage.fallback"),
	}
}

type fallbackRecord struct {
	ID        string              `json:"id"`
	Data      string              `json:"data"` // base64
	Metadata  types.TrackMetadata `json:"metadata"`
	CreatedAt int64               `json:"createdAt"`
}

// Init creates the backing directory.
func (s *FallbackStore) Init() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &types.StorageError{Op: "init", Err: err}
	}
	return nil
}

func (s *FallbackStore) recordPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Store persists one payload, enforcing the hard size ceiling.
func (s *FallbackStore) Store(data []byte, meta types.TrackMetadata) (string, error) {
	if len(data) > FallbackMaxFileSize {
		return "", &types.StorageError{
			Op:  "store",
			Err: fmt.Errorf("file too large for fallback storage: %d bytes (max %d)", len(data), FallbackMaxFileSize),
		}
	}
	if err := s.Init(); err != nil {
		return "", err
	}

	rec := fallbackRecord{
		ID:        "fallback_" + NewPayloadID(),
		Data:      base64.StdEncoding.EncodeToString(data),
		Metadata:  meta,
		CreatedAt: time.Now().UnixMilli(),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return "", &types.StorageError{Op: "store", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.recordPath(rec.ID), raw, 0o644); err != nil {
		return "", &types.StorageError{Op: "store", Err: err}
	}
	return rec.ID, nil
}

// Get fetches a stored payload, (nil, nil) for unknown IDs.
func (s *FallbackStore) Get(id string) (*types.StoredPayload, error) {
	s.mu.Lock()
	raw, err := os.ReadFile(s.recordPath(id))
	s.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &types.StorageError{Op: "get", Err: err}
	}

	var rec fallbackRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &types.StorageError{Op: "get", Err: err}
	}
	data, err := base64.StdEncoding.DecodeString(rec.Data)
	if err != nil {
		return nil, &types.StorageError{Op: "get", Err: err}
	}

	return &types.StoredPayload{
		ID:        rec.ID,
		Data:      data,
		Metadata:  rec.Metadata,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Delete removes a payload; unknown IDs are a no-op.
func (s *FallbackStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.recordPath(id)); err != nil && !os.IsNotExist(err) {
		return &types.StorageError{Op: "delete", Err: err}
	}
	return nil
}

// ListIDs returns every stored payload ID.
func (s *FallbackStore) ListIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &types.StorageError{Op: "list", Err: err}
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".json") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}

// ClearAll removes every stored payload.
func (s *FallbackStore) ClearAll() error {
	ids, err := s.ListIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Delete(id); err != nil {
			return err
		}
	}
	return nil
}

// OpenWithFallback initializes the primary store, degrading to the
// fallback store when the database is unavailable.
func OpenWithFallback(dataDir string, log hclog.Logger) PayloadStore {
	primary := NewFileStore(DefaultPath(dataDir), log)
	if err := primary.Init(); err != nil {
		if log != nil {
			log.Warn("primary file store unavailable, using fallback", "error", err)
		}
		return NewFallbackStore(filepath.Join(dataDir, "fallback"), log)
	}
	return primary
}
