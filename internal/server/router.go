// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"
	"os"

	"github.com/Dhanaraju-118/backend/frontend"
	"github.com/Dhanaraju-118/backend/internal/server/handlers"
	"github.com/Dhanaraju-118/backend/internal/server/ratelimit"
	"github.com/Dhanaraju-118/backend/internal/storage"
)

// Config holds router-level configuration.
type Config struct {
	ServerConfig *storage.ServerConfig

	// DataDir is the server data directory.
	DataDir string

	// StaticDir overrides the embedded frontend bundle with an on-disk
	// directory when set (development mode).
	StaticDir string

	// Version is the build version reported by the health endpoint.
	Version string
}

// NewRouter creates and configures the HTTP router.
// Serves API endpoints at /api/* and the static frontend at /.
func NewRouter(svc *handlers.Services, cfg *Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	hh := handlers.NewHealthHandler(cfg.Version)
	mux.Handle("GET /api/health", Wrap(hh.Health))

	// Workspace endpoints
	wh := handlers.NewWorkspaceHandler(svc.Workspaces)
	mux.Handle("GET /api/workspaces", Wrap(wh.ListWorkspaces))
	mux.Handle("POST /api/workspaces", Wrap(wh.CreateWorkspace))
	mux.Handle("GET /api/workspaces/{id}", Wrap(wh.GetWorkspace))
	mux.Handle("GET /api/workspaces/{id}/files", Wrap(wh.ListWorkspaceFiles))
	mux.Handle("DELETE /api/workspaces/{id}", Wrap(wh.DeleteWorkspace))

	// Frontend with SPA fallback; -static-dir overrides the embedded bundle.
	if cfg.StaticDir != "" {
		mux.Handle("/", NewSPAHandler(os.DirFS(cfg.StaticDir)))
	} else {
		mux.Handle("/", NewSPAHandler(frontend.Dist()))
	}

	rl := ratelimit.NewConfig(cfg.ServerConfig.RateLimits.WriteRatePerMin, cfg.ServerConfig.RateLimits.ReadRatePerMin)

	var h http.Handler = mux
	h = AuthMiddleware(cfg.ServerConfig.APISecret, cfg.ServerConfig.RequireAuth)(h)
	h = RateLimitMiddleware(rl)(h)
	h = LimitRequestBody(cfg.ServerConfig.MaxRequestBodyBytes)(h)
	return LogRequests(h)
}
