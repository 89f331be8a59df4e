// Package models defines the core data structures used throughout the application.
package models

// Workspace identifies a workspace whose content lives under a derived folder
// in the blob container. Both fields are supplied by the caller; the storage
// layer never persists them, it only derives keys from them.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HealthRequest is the request type for health check (empty).
type HealthRequest struct{}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ListWorkspacesRequest is the request for listing workspace folders (empty).
type ListWorkspacesRequest struct{}

// ListWorkspacesResponse lists the names of all workspace folders.
type ListWorkspacesResponse struct {
	Workspaces []string `json:"workspaces"`
}

// CreateWorkspaceRequest creates a workspace folder. ID is optional; the
// server generates one when omitted.
type CreateWorkspaceRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// CreateWorkspaceResponse returns the created folder key and its storage URL.
type CreateWorkspaceResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Folder string `json:"folder"`
	URL    string `json:"url"`
}

// GetWorkspaceRequest checks a workspace folder.
type GetWorkspaceRequest struct {
	ID   string `path:"id"`
	Name string `query:"name"`
}

// GetWorkspaceResponse reports folder existence plus its derived key and URL.
// Exists is also false when storage is unreachable; the two cases are not
// distinguished.
type GetWorkspaceResponse struct {
	Exists bool   `json:"exists"`
	Folder string `json:"folder"`
	URL    string `json:"url"`
}

// ListWorkspaceFilesRequest lists the files inside a workspace folder.
type ListWorkspaceFilesRequest struct {
	ID   string `path:"id"`
	Name string `query:"name"`
}

// ListWorkspaceFilesResponse lists file names relative to the folder,
// placeholder markers excluded.
type ListWorkspaceFilesResponse struct {
	Files []string `json:"files"`
}

// DeleteWorkspaceRequest deletes a workspace folder and everything under it.
type DeleteWorkspaceRequest struct {
	ID   string `path:"id"`
	Name string `query:"name"`
}

// DeleteWorkspaceResponse reports whether the folder was deleted.
type DeleteWorkspaceResponse struct {
	Deleted bool `json:"deleted"`
}
