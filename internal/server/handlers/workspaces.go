package handlers

import (
	"context"

	apierrors "github.com/Dhanaraju-118/backend/internal/errors"
	"github.com/Dhanaraju-118/backend/internal/models"
	"github.com/Dhanaraju-118/backend/internal/storage"
	"github.com/google/uuid"
)

// WorkspaceHandler handles workspace folder requests.
//
// The storage layer reports failures as sentinels, not errors; the handler
// maps a create/delete sentinel to a 502 and otherwise passes the degraded
// result (false / empty) straight through.
type WorkspaceHandler struct {
	svc *storage.WorkspaceService
}

// NewWorkspaceHandler creates a new workspace handler.
func NewWorkspaceHandler(svc *storage.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc}
}

// ListWorkspaces returns the names of all workspace folders in the container.
func (h *WorkspaceHandler) ListWorkspaces(ctx context.Context, req models.ListWorkspacesRequest) (*models.ListWorkspacesResponse, error) {
	return &models.ListWorkspacesResponse{Workspaces: h.svc.ListFolders(ctx)}, nil
}

// CreateWorkspace creates the folder for a workspace. A missing ID is
// generated server-side.
func (h *WorkspaceHandler) CreateWorkspace(ctx context.Context, req models.CreateWorkspaceRequest) (*models.CreateWorkspaceResponse, error) {
	if req.Name == "" {
		return nil, apierrors.MissingField("name")
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	folder := h.svc.CreateFolder(ctx, id, req.Name)
	if folder == "" {
		return nil, apierrors.StorageFailed("create")
	}
	return &models.CreateWorkspaceResponse{
		ID:     id,
		Name:   req.Name,
		Folder: folder,
		URL:    h.svc.FolderURL(id, req.Name),
	}, nil
}

// GetWorkspace reports whether the workspace folder exists, plus its derived
// key and storage URL.
func (h *WorkspaceHandler) GetWorkspace(ctx context.Context, req models.GetWorkspaceRequest) (*models.GetWorkspaceResponse, error) {
	if req.Name == "" {
		return nil, apierrors.MissingField("name")
	}
	return &models.GetWorkspaceResponse{
		Exists: h.svc.FolderExists(ctx, req.ID, req.Name),
		Folder: storage.FolderKey(req.ID, req.Name),
		URL:    h.svc.FolderURL(req.ID, req.Name),
	}, nil
}

// ListWorkspaceFiles returns the files inside the workspace folder.
func (h *WorkspaceHandler) ListWorkspaceFiles(ctx context.Context, req models.ListWorkspaceFilesRequest) (*models.ListWorkspaceFilesResponse, error) {
	if req.Name == "" {
		return nil, apierrors.MissingField("name")
	}
	return &models.ListWorkspaceFilesResponse{Files: h.svc.ListFolderFiles(ctx, req.ID, req.Name)}, nil
}

// DeleteWorkspace deletes the workspace folder and everything under it.
func (h *WorkspaceHandler) DeleteWorkspace(ctx context.Context, req models.DeleteWorkspaceRequest) (*models.DeleteWorkspaceResponse, error) {
	if req.Name == "" {
		return nil, apierrors.MissingField("name")
	}
	if !h.svc.DeleteFolder(ctx, req.ID, req.Name) {
		return nil, apierrors.StorageFailed("delete")
	}
	return &models.DeleteWorkspaceResponse{Deleted: true}, nil
}
