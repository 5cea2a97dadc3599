package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hashicorp/go-hclog"

	"resonate/blob"
	"resonate/cmd"
	"resonate/config"
	"resonate/library"
	"resonate/services"
	"resonate/storage"
)

func main() {
	var (
		server    bool
		port      int
		importDir string
		playlist  string
	)

	flag.BoolVar(&server, "server", false, "Start in web server mode")
	flag.IntVar(&port, "port", 8080, "Port for web server mode")
	flag.StringVar(&importDir, "import", "", "Directory of audio files to import, then exit")
	flag.StringVar(&playlist, "playlist", "", "Playlist ID to add imported tracks to")
	flag.Parse()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "resonate",
		Level: hclog.LevelFromString(logLevel()),
	})

	// Server mode takes precedence
	if server {
		cmd.StartWebServer(port, logger)
		return
	}

	if importDir == "" {
		flag.Usage()
		return
	}

	dataDir := config.GetDataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Cannot create data directory %s: %v", dataDir, err)
	}

	payloads := storage.OpenWithFallback(dataDir, logger)
	store := library.NewStore(config.GetStatePath(), payloads, blob.NewRegistry(), logger)
	store.SetMaxUploadBytes(config.GetMaxUploadBytes())
	if err := store.Load(); err != nil {
		log.Fatalf("Cannot load library state: %v", err)
	}

	importer := services.NewImporter(store, logger)
	report, err := importer.ImportDirectory(importDir, playlist, true)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Imported %d of %d files (%d failed)\n", report.Imported, report.Scanned, report.Failed)
}

func logLevel() string {
	if level := os.Getenv("RESONATE_LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}
