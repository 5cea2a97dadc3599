package cmd

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"resonate/blob"
	"resonate/config"
	"resonate/handlers"
	"resonate/library"
	"resonate/middleware"
	"resonate/services"
	"resonate/storage"
	"resonate/websocket"
)

// StartWebServer starts the web server
func StartWebServer(port int, logger hclog.Logger) {
	// Set production mode if not specified
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir := config.GetDataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Cannot create data directory %s: %v", dataDir, err)
	}

	// Initialize storage and the in-memory library
	payloads := storage.OpenWithFallback(dataDir, logger)
	registry := blob.NewRegistry()

	store := library.NewStore(config.GetStatePath(), payloads, registry, logger)
	store.SetMaxUploadBytes(config.GetMaxUploadBytes())
	if err := store.Load(); err != nil {
		log.Fatalf("Cannot load library state: %v", err)
	}
	resolved, unplayable := store.RecreateBlobURLs()
	logger.Info("library restored", "tracks", len(store.Tracks()), "resolved", resolved, "unplayable", unplayable)

	// Initialize the event hub and forward library changes to it
	hub := websocket.NewHub()
	go hub.Run()
	store.OnChange(hub.BroadcastEvent)

	// Watch the inbox directory for dropped files, when one is configured
	if inboxDir := config.GetInboxDir(); inboxDir != "" {
		importer := services.NewImporter(store, logger)
		watcher, err := services.NewInboxWatcher(inboxDir, importer, logger)
		if err != nil {
			logger.Warn("inbox watcher disabled", "error", err)
		} else {
			watcher.Start()
			defer watcher.Stop()
		}
	}

	// Initialize handlers
	trackHandler := handlers.NewTrackHandler(store)
	playlistHandler := handlers.NewPlaylistHandler(store)
	playbackHandler := handlers.NewPlaybackHandler(store)
	blobHandler := handlers.NewBlobHandler(registry)
	eventHandler := handlers.NewEventHandler(hub)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply middleware
	r.Use(middleware.CORS())
	r.Use(middleware.Logging(logger))

	// Setup routes
	setupRoutes(r, trackHandler, playlistHandler, playbackHandler, blobHandler, eventHandler, healthHandler)

	// Start server
	portStr := strconv.Itoa(port)
	if serverPort := os.Getenv("RESONATE_PORT"); serverPort != "" {
		portStr = serverPort
	}

	logger.Info("server starting", "port", portStr)
	if err := r.Run(":" + portStr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, trackHandler *handlers.TrackHandler, playlistHandler *handlers.PlaylistHandler, playbackHandler *handlers.PlaybackHandler, blobHandler *handlers.BlobHandler, eventHandler *handlers.EventHandler, healthHandler *handlers.HealthHandler) {
	// Health check endpoint
	r.GET("/health", healthHandler.HealthCheck)

	// API routes group
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)

		// Track management
		tracksGroup := apiGroup.Group("/tracks")
		{
			tracksGroup.GET("", trackHandler.List)
			tracksGroup.POST("", trackHandler.Upload)
			tracksGroup.GET("/:id", trackHandler.Get)
			tracksGroup.DELETE("/:id", trackHandler.Delete)
		}

		// Playlist management
		playlistsGroup := apiGroup.Group("/playlists")
		{
			playlistsGroup.GET("", playlistHandler.List)
			playlistsGroup.POST("", playlistHandler.Create)
			playlistsGroup.GET("/:id", playlistHandler.Get)
			playlistsGroup.PUT("/:id", playlistHandler.Rename)
			playlistsGroup.DELETE("/:id", playlistHandler.Delete)
			playlistsGroup.POST("/:id/tracks", playlistHandler.AddTracks)
			playlistsGroup.DELETE("/:id/tracks/:trackId", playlistHandler.RemoveTrack)
			playlistsGroup.PUT("/:id/tracks", playlistHandler.Reorder)
		}

		// Playback state
		playbackGroup := apiGroup.Group("/playback")
		{
			playbackGroup.GET("", playbackHandler.State)
			playbackGroup.POST("/play", playbackHandler.Play)
			playbackGroup.POST("/toggle", playbackHandler.Toggle)
			playbackGroup.POST("/next", playbackHandler.Next)
			playbackGroup.POST("/previous", playbackHandler.Previous)
			playbackGroup.POST("/seek", playbackHandler.Seek)
			playbackGroup.PUT("/mode", playbackHandler.SetMode)
			playbackGroup.POST("/mode/cycle", playbackHandler.CycleMode)
		}

		// Audio streaming by session handle
		apiGroup.GET("/blob/:id", blobHandler.Stream)

		// WebSocket endpoint for library change events
		apiGroup.GET("/ws/events", eventHandler.Subscribe)
	}
}
