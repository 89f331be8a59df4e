// Package handlers implements the JSON API endpoint handlers.
package handlers

import "github.com/Dhanaraju-118/backend/internal/storage"

// Services groups the backend services the handlers depend on.
type Services struct {
	Workspaces *storage.WorkspaceService
}
