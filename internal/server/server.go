package server

import (
	"database/sql"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/craftdeck/craftdeck/internal/api"
	"github.com/craftdeck/craftdeck/internal/backup"
	"github.com/craftdeck/craftdeck/internal/config"
	"github.com/craftdeck/craftdeck/internal/console"
	"github.com/craftdeck/craftdeck/internal/download"
	"github.com/craftdeck/craftdeck/internal/scheduler"
	"github.com/craftdeck/craftdeck/internal/settings"
	"github.com/craftdeck/craftdeck/internal/stats"
)

type Server struct {
	cfg       *config.Config
	db        *sql.DB
	router    chi.Router
	sup       *console.Supervisor
	collector *stats.Collector
	scheduler *scheduler.Scheduler
	downloads *download.Service
}

func New(cfg *config.Config, db *sql.DB) (*Server, error) {
	// Seed launch settings from config on first run
	store := settings.NewStore(db)
	if err := store.Seed(settings.Settings{
		JavaPath:  cfg.JavaPath,
		MinMemory: cfg.MinMemory,
		MaxMemory: cfg.MaxMemory,
		ServerDir: cfg.ServerDir,
		ServerJar: cfg.ServerJar,
	}); err != nil {
		return nil, err
	}

	// Console pipeline: supervisor -> aggregator -> hub -> websockets
	hub := console.NewHub(256)
	sup := console.New(hub.Publish)

	// Start stats collector
	collector := stats.NewCollector(db, sup)
	collector.Start()

	// Initialize backup service
	backupSvc := backup.NewService(db, cfg.ServerDir, cfg.DataDir)

	// Start scheduler
	sched := scheduler.New(db, sup, store, backupSvc)
	sched.Start()

	downloads := download.New(db, cfg.ServerDir)

	// Create handlers
	controlHandler := api.NewControlHandler(sup, store, hub)
	consoleHandler := api.NewConsoleHandler(hub, sup)
	settingsHandler := api.NewSettingsHandler(store)
	propertiesHandler := api.NewPropertiesHandler(cfg.ServerDir)
	jarsHandler := api.NewJarsHandler()
	pluginsHandler := api.NewPluginsHandler()
	downloadsHandler := api.NewDownloadsHandler(downloads)
	backupHandler := api.NewBackupHandler(backupSvc, sup)
	scheduleHandler := api.NewScheduleHandler(sched)
	statsHandler := api.NewStatsHandler(collector)
	logsHandler := api.NewLogsHandler(cfg.ServerDir)
	filesHandler := api.NewFilesHandler(cfg.ServerDir)
	javaHandler := api.NewJavaHandler(store)

	// Build router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/server", func(r chi.Router) {
			r.Get("/state", controlHandler.State)
			r.Post("/start", controlHandler.Start)
			r.Post("/stop", controlHandler.Stop)
			r.Post("/restart", controlHandler.Restart)
			r.Post("/command", controlHandler.Command)

			r.Get("/stats", statsHandler.Latest)
			r.Get("/stats/history", statsHandler.History)
			r.Get("/logs", logsHandler.Latest)
			r.Get("/files", filesHandler.List)
		})

		r.Get("/settings", settingsHandler.Get)
		r.Put("/settings", settingsHandler.Put)
		r.Get("/java", javaHandler.Detect)

		r.Get("/properties", propertiesHandler.Get)
		r.Put("/properties", propertiesHandler.Put)

		r.Route("/jars", func(r chi.Router) {
			r.Get("/", jarsHandler.Flavors)
			r.Get("/{flavor}", jarsHandler.Versions)
		})

		r.Get("/plugins", pluginsHandler.List)

		r.Route("/downloads", func(r chi.Router) {
			r.Get("/", downloadsHandler.List)
			r.Post("/", downloadsHandler.Create)
			r.Get("/{id}", downloadsHandler.Get)
		})

		r.Route("/backups", func(r chi.Router) {
			r.Get("/", backupHandler.List)
			r.Post("/", backupHandler.Create)
			r.Get("/{id}/download", backupHandler.Download)
			r.Post("/{id}/restore", backupHandler.Restore)
			r.Delete("/{id}", backupHandler.Delete)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", scheduleHandler.List)
			r.Post("/", scheduleHandler.Create)
			r.Put("/{id}", scheduleHandler.Update)
			r.Delete("/{id}", scheduleHandler.Delete)
		})

		// WebSocket routes
		r.Get("/server/console", consoleHandler.Handle)
		r.Get("/server/stats/live", statsHandler.Live)
	})

	r.Handle("/metrics", promhttp.Handler())

	return &Server{
		cfg:       cfg,
		db:        db,
		router:    r,
		sup:       sup,
		collector: collector,
		scheduler: sched,
		downloads: downloads,
	}, nil
}

func (s *Server) Router() chi.Router {
	return s.router
}

// Supervisor exposes the process supervisor for shutdown handling.
func (s *Server) Supervisor() *console.Supervisor {
	return s.sup
}

func (s *Server) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.collector != nil {
		s.collector.Stop()
	}
	if s.sup != nil && s.sup.State() == console.Running {
		log.Println("stopping game server...")
		s.sup.Stop()
	}
	if s.downloads != nil {
		s.downloads.Wait()
	}
}
