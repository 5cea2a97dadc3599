// Package blob tracks session-scoped handles for in-memory binary
// payloads. Handles are valid only for the lifetime of the process; any
// handle string read back from persisted state must be re-resolved against
// the durable store rather than dereferenced.
package blob

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// HandlePrefix marks every handle minted by this process family. A string
// with the prefix that the registry does not recognize is a stale handle
// from a previous session.
const HandlePrefix = "blob:resonate/"

// Registry mints and resolves session blob handles.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	data     []byte
	mimeType string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]entry),
	}
}

// Mint registers a payload and returns a fresh session handle for it.
func (r *Registry) Mint(data []byte, mimeType string) string {
	handle := HandlePrefix + uuid.New().String()

	r.mu.Lock()
	r.entries[handle] = entry{data: data, mimeType: mimeType}
	r.mu.Unlock()

	return handle
}

// Revoke releases the payload behind a handle. Revoking an unknown handle
// is a no-op.
func (r *Registry) Revoke(handle string) {
	r.mu.Lock()
	delete(r.entries, handle)
	r.mu.Unlock()
}

// Resolve returns the payload and MIME type for a handle.
func (r *Registry) Resolve(handle string) (data []byte, mimeType string, ok bool) {
	r.mu.RLock()
	e, ok := r.entries[handle]
	r.mu.RUnlock()
	return e.data, e.mimeType, ok
}

// IsValid reports whether a handle is live in this session. Empty strings
// and handles minted by earlier sessions are invalid.
func (r *Registry) IsValid(handle string) bool {
	if !strings.HasPrefix(handle, HandlePrefix) {
		return false
	}
	r.mu.RLock()
	_, ok := r.entries[handle]
	r.mu.RUnlock()
	return ok
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
