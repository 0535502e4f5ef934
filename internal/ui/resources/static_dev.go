//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// getStaticDir resolves the static directory next to this source file, so
// dev binaries work from any working directory.
func getStaticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// Handler returns an HTTP handler for serving static files.
// In dev mode, files are served directly from the filesystem so stylesheet
// edits show up on reload.
func Handler(logger *slog.Logger) http.Handler {
	staticDir := getStaticDir()
	logger.Info("static assets served from filesystem", "path", staticDir)

	fileServer := http.FileServer(http.FS(os.DirFS(staticDir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
	})
}

// IsDev reports whether assets are served from disk.
const IsDev = true

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}
