// Serves the single-page frontend with index.html fallback.

package server

import (
	"io"
	"io/fs"
	"net/http"
	"strings"
)

// SPAHandler serves a single-page application from fsys, falling back to
// index.html for every path that does not match a file so client-side
// routing works on deep links.
type SPAHandler struct {
	fs         fs.FS
	fileServer http.Handler
}

// NewSPAHandler creates a handler serving the bundle rooted at fsys.
func NewSPAHandler(fsys fs.FS) *SPAHandler {
	return &SPAHandler{
		fs:         fsys,
		fileServer: http.FileServer(http.FS(fsys)),
	}
}

// ServeHTTP implements http.Handler for SPA routing.
func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	if name != "" {
		if f, err := h.fs.Open(name); err == nil {
			_ = f.Close()
			// File exists, serve it with cache headers for assets
			if containsDot(r.URL.Path) {
				w.Header().Set("Cache-Control", "public, max-age=3600")
			}
			h.fileServer.ServeHTTP(w, r)
			return
		}
	}

	// Fall back to index.html for SPA routing
	indexFile, err := h.fs.Open("index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer func() { _ = indexFile.Close() }()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	_, _ = io.Copy(w, indexFile)
}

// containsDot checks if a path contains a dot (file extension).
func containsDot(path string) bool {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return false
		}
		if path[i] == '.' {
			return true
		}
	}
	return false
}
