package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/schollz/progressbar/v3"

	"resonate/library"
)

// Importer interface defines methods for bulk-loading audio files
type Importer interface {
	ImportDirectory(rootPath, playlistID string, showProgress bool) (*ImportReport, error)
	ImportFile(path, playlistID string) error
}

// ImportReport summarizes a directory import
type ImportReport struct {
	Scanned  int
	Imported int
	Skipped  int
	Failed   int
}

// importer implements the Importer interface
type importer struct {
	store  *library.Store
	logger hclog.Logger
}

// NewImporter creates a new importer backed by the given library store
func NewImporter(store *library.Store, logger hclog.Logger) Importer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &importer{
		store:  store,
		logger: logger.Named("importer"),
	}
}

// ImportDirectory recursively scans a directory and registers every audio
// file it can read. Files that fail validation or ingestion are counted
// and logged, never fatal to the rest of the batch.
func (im *importer) ImportDirectory(rootPath, playlistID string, showProgress bool) (*ImportReport, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read import directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", rootPath)
	}

	// First pass: collect candidate audio files
	var candidates []string
	err = filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			im.logger.Warn("skipping unreadable path", "path", path, "error", err)
			return nil // continue walking, don't fail entire scan
		}
		if info.IsDir() {
			return nil
		}
		if isAudioExt(filepath.Ext(path)) {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Scanned: len(candidates)}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(len(candidates),
			progressbar.OptionSetDescription("Importing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, path := range candidates {
		if err := im.ImportFile(path, playlistID); err != nil {
			im.logger.Warn("import failed", "path", path, "error", err)
			report.Failed++
		} else {
			report.Imported++
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	report.Skipped = report.Scanned - report.Imported - report.Failed
	return report, nil
}

// ImportFile reads a single file from disk and registers it with the library
func (im *importer) ImportFile(path, playlistID string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	_, err = im.store.IngestFile(filepath.Base(path), "", data, playlistID)
	return err
}

// isAudioExt reports whether the extension names a container we accept
func isAudioExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".mp3", ".wav", ".ogg":
		return true
	default:
		return false
	}
}
