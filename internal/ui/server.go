// Package ui provides the web back-office console.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/internal/store"
	"github.com/haulwise/tmsadmin/internal/ui/features/common"
	fleetFeature "github.com/haulwise/tmsadmin/internal/ui/features/fleet"
	"github.com/haulwise/tmsadmin/internal/ui/notifier"
	"github.com/haulwise/tmsadmin/internal/ui/resources"
	"github.com/haulwise/tmsadmin/internal/ui/router"
	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// seedDebounce is the quiet period after seed file changes before they are
// re-imported.
const seedDebounce = 200 * time.Millisecond

// Server is the main UI server.
type Server struct {
	store        store.Store
	sessionStore *sessions.CookieStore
	port         int
	watchSeeds   bool
	seedsDir     string
	logger       *slog.Logger
	notifier     *notifier.Notifier
	fleet        fleetFeature.Config
}

// Config holds configuration for the UI server.
type Config struct {
	Store         store.Store
	Port          int
	WatchSeeds    bool
	SeedsDir      string
	SessionSecret string
	Logger        *slog.Logger
	Fleet         fleetFeature.Config
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		store:        cfg.Store,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watchSeeds:   cfg.WatchSeeds,
		seedsDir:     cfg.SeedsDir,
		logger:       logger,
		notifier:     notifier.New(),
		fleet:        cfg.Fleet,
	}
}

// Handler builds the router with middleware and every feature route.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	deps := common.Deps{
		Store:        s.store,
		SessionStore: s.sessionStore,
		Notifier:     s.notifier,
		Logger:       s.logger,
		IsDev:        s.IsDev(),
	}
	if err := router.SetupRoutes(r, deps, s.fleet); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start seeds watcher if enabled
	if s.watchSeeds && s.seedsDir != "" {
		eg.Go(func() error {
			return s.watchSeedFiles(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev returns true when the binary was built with the dev tag.
func (s *Server) IsDev() bool {
	return resources.IsDev
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchSeedFiles re-imports seed files when they change. Changes are
// collected until the debounce period passes without new events.
func (s *Server) watchSeedFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, s.seedsDir); err != nil {
		s.logger.Error("failed to watch seeds directory", "dir", s.seedsDir, "error", err)
		// Don't fail - continue without watching
	}

	debounce := datatable.NewDebouncer(seedDebounce)
	defer debounce.Close()

	var mu sync.Mutex
	pending := make(map[string]bool)
	flush := func() {
		mu.Lock()
		paths := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()
		s.reimport(ctx, paths)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, ok := store.SeedKind(event.Name); !ok {
				continue
			}
			mu.Lock()
			pending[event.Name] = true
			mu.Unlock()
			debounce.Trigger(flush)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reimport imports changed seed files and notifies the lists showing them.
func (s *Server) reimport(ctx context.Context, paths []string) {
	var topics []string
	for _, path := range paths {
		report, err := store.ImportSeedFile(ctx, s.store, path, s.logger)
		if err != nil {
			s.logger.Error("seed re-import failed", "file", path, "error", err)
			continue
		}
		for _, slug := range report.Kinds {
			topics = append(topics, fleet.Affected(slug)...)
		}
	}
	if len(topics) > 0 {
		s.notifier.Broadcast(topics...)
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
