// Package storage persists raw audio bytes plus a metadata snapshot,
// keyed by generated IDs. The primary store is a local SQLite database;
// a size-capped file-per-record fallback covers environments where the
// database cannot be opened.
package storage

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resonate/types"
)

// PayloadStore is the durable store consumed by the library. Get returns
// (nil, nil) for unknown IDs: missing bytes after a restart are an
// expected, non-fatal condition.
type PayloadStore interface {
	Init() error
	Store(data []byte, meta types.TrackMetadata) (string, error)
	Get(id string) (*types.StoredPayload, error)
	Delete(id string) error
	ListIDs() ([]string, error)
	ClearAll() error
}

// payloadRecord is the SQLite row shape for a stored file.
type payloadRecord struct {
	ID            string `gorm:"primaryKey"`
	Data          []byte `gorm:"not null"`
	Title         string
	Artist        string
	Album         string
	Year          string
	Duration      float64
	ArtworkURL    string
	DominantColor string
	MimeType      string
	CreatedAt     int64 `gorm:"index:idx_payloads_created_at"`
}

func (payloadRecord) TableName() string {
	return "payloads"
}

// FileStore is the SQLite-backed PayloadStore.
type FileStore struct {
	path   string
	logger hclog.Logger

	mu          sync.Mutex
	db          *gorm.DB
	initialized bool
}

// NewFileStore creates a store backed by a SQLite database at path. The
// connection is established lazily by Init.
func NewFileStore(path string, log hclog.Logger) *FileStore {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &FileStore{
		path:   path,
		logger: log.Named("storage"),
	}
}

// Init opens the database and migrates the payload table. It is
// idempotent: concurrent and repeated callers converge on the single
// established connection.
func (s *FileStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return &types.StorageError{Op: "init", Err: err}
	}
	if err := db.AutoMigrate(&payloadRecord{}); err != nil {
		return &types.StorageError{Op: "migrate", Err: err}
	}

	s.db = db
	s.initialized = true
	s.logger.Info("durable file store ready", "path", s.path)
	return nil
}

func (s *FileStore) conn() (*gorm.DB, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db, nil
}

// NewPayloadID generates a collision-resistant payload ID from the current
// time and a random base-36 suffix.
func NewPayloadID() string {
	return fmt.Sprintf("file_%d_%s", time.Now().UnixMilli(), randSuffix(9))
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randSuffix(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(base36[rand.Intn(len(base36))])
	}
	return b.String()
}

// Store writes one record atomically and returns its generated ID.
func (s *FileStore) Store(data []byte, meta types.TrackMetadata) (string, error) {
	db, err := s.conn()
	if err != nil {
		return "", err
	}

	rec := payloadRecord{
		ID:            NewPayloadID(),
		Data:          data,
		Title:         meta.Title,
		Artist:        meta.Artist,
		Album:         meta.Album,
		Year:          meta.Year,
		Duration:      meta.Duration,
		ArtworkURL:    meta.ArtworkURL,
		DominantColor: meta.DominantColor,
		MimeType:      meta.MIMEType,
		CreatedAt:     time.Now().UnixMilli(),
	}
	if err := db.Create(&rec).Error; err != nil {
		return "", &types.StorageError{Op: "store", Err: err}
	}

	s.logger.Debug("payload stored", "id", rec.ID, "bytes", len(data))
	return rec.ID, nil
}

// Get fetches a stored payload. Unknown IDs return (nil, nil).
func (s *FileStore) Get(id string) (*types.StoredPayload, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var rec payloadRecord
	if err := db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, &types.StorageError{Op: "get", Err: err}
	}

	return &types.StoredPayload{
		ID:   rec.ID,
		Data: rec.Data,
		Metadata: types.TrackMetadata{
			Title:         rec.Title,
			Artist:        rec.Artist,
			Album:         rec.Album,
			Year:          rec.Year,
			Duration:      rec.Duration,
			ArtworkURL:    rec.ArtworkURL,
			DominantColor: rec.DominantColor,
			MIMEType:      rec.MimeType,
		},
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Delete removes a payload. Deleting an unknown ID is not an error.
func (s *FileStore) Delete(id string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if err := db.Delete(&payloadRecord{}, "id = ?", id).Error; err != nil {
		return &types.StorageError{Op: "delete", Err: err}
	}
	return nil
}

// ListIDs returns every stored payload ID, oldest first, for startup
// reconciliation.
func (s *FileStore) ListIDs() ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := db.Model(&payloadRecord{}).Order("created_at").Pluck("id", &ids).Error; err != nil {
		return nil, &types.StorageError{Op: "list", Err: err}
	}
	return ids, nil
}

// ClearAll wipes the payload table. Only explicit data-reset flows use it.
func (s *FileStore) ClearAll() error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if err := db.Where("1 = 1").Delete(&payloadRecord{}).Error; err != nil {
		return &types.StorageError{Op: "clear", Err: err}
	}
	return nil
}

// DefaultPath returns the SQLite path under dataDir.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "resonate.db")
}
