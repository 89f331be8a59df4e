// Emulates per-workspace folders on flat blob storage using placeholder markers.

package storage

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
)

const (
	// parentPrefix is the fixed parent "folder" every workspace folder
	// lives under.
	parentPrefix = "workspace/"
	// placeholderName is the marker blob that makes an otherwise empty
	// folder prefix observable in a flat namespace.
	placeholderName = ".placeholder"
)

// placeholderContent is the body of every marker blob. The content carries no
// meaning; only the key does.
var placeholderContent = []byte("placeholder")

var slugRe = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// FolderKey derives the blob key prefix for a workspace from its ID and name.
// The derivation is pure: the same (id, name) always yields the same key.
// The name is sanitized to [a-z0-9-] and the ID truncated to its first 7
// characters. Two workspaces whose names sanitize identically and share the
// same ID prefix collide; nothing guards against that.
func FolderKey(id, name string) string {
	slug := strings.ToLower(slugRe.ReplaceAllString(name, "-"))
	if len(id) > 7 {
		id = id[:7]
	}
	return parentPrefix + slug + "-" + id + "/"
}

// WorkspaceService manages workspace folders inside one blob container.
//
// Every operation degrades to a failure sentinel (false, "" or an empty
// slice) after logging; callers cannot distinguish "not found" from
// "storage unreachable". The service is stateless apart from the container
// handle and safe for concurrent use.
type WorkspaceService struct {
	container *Container
}

// NewWorkspaceService creates a workspace folder service on container.
func NewWorkspaceService(container *Container) *WorkspaceService {
	return &WorkspaceService{container: container}
}

// Container returns the underlying container handle.
func (s *WorkspaceService) Container() *Container {
	return s.container
}

// FolderURL returns the absolute storage URL of the workspace folder.
// Pure derivation, no I/O.
func (s *WorkspaceService) FolderURL(id, name string) string {
	return s.container.BlobURL(FolderKey(id, name))
}

// EnsureContainer creates the container if it does not exist yet.
// Best effort: logs and reports false on failure.
func (s *WorkspaceService) EnsureContainer(ctx context.Context) bool {
	if err := s.container.Ensure(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to ensure container", "url", s.container.URL(), "err", err)
		return false
	}
	return true
}

// EnsureParentFolder uploads the parent prefix marker so the workspace/
// folder is listable even before any workspace exists. Best effort.
func (s *WorkspaceService) EnsureParentFolder(ctx context.Context) bool {
	if err := s.container.Upload(ctx, parentPrefix+placeholderName, placeholderContent); err != nil {
		slog.ErrorContext(ctx, "Failed to ensure parent folder", "key", parentPrefix, "err", err)
		return false
	}
	return true
}

// CreateFolder creates the folder for the workspace by uploading its
// placeholder marker. Returns the folder key, or "" after logging on failure.
func (s *WorkspaceService) CreateFolder(ctx context.Context, id, name string) string {
	key := FolderKey(id, name)
	if err := s.container.Upload(ctx, key+placeholderName, placeholderContent); err != nil {
		slog.ErrorContext(ctx, "Failed to create workspace folder", "key", key, "err", err)
		return ""
	}
	return key
}

// DeleteFolder removes every blob under the workspace folder, one by one.
// The first delete error aborts the remaining loop; blobs already deleted
// stay deleted. Returns false after logging when enumeration or any delete
// fails.
func (s *WorkspaceService) DeleteFolder(ctx context.Context, id, name string) bool {
	key := FolderKey(id, name)
	blobs, err := s.container.ListAll(ctx)
	if err == nil {
		for _, b := range blobs {
			if !strings.HasPrefix(b.Key, key) {
				continue
			}
			if err = s.container.Delete(ctx, b.Key); err != nil {
				break
			}
		}
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to delete workspace folder", "key", key, "err", err)
		return false
	}
	return true
}

// FolderExists reports whether any blob exists under the workspace folder.
// The container listing is enumerated in full and matched client-side.
func (s *WorkspaceService) FolderExists(ctx context.Context, id, name string) bool {
	key := FolderKey(id, name)
	blobs, err := s.container.ListAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to check workspace folder", "key", key, "err", err)
		return false
	}
	for _, b := range blobs {
		if strings.HasPrefix(b.Key, key) {
			return true
		}
	}
	return false
}

// ListFolderFiles returns the names of the blobs inside the workspace folder
// with the folder key stripped and the placeholder marker excluded. Empty
// slice after logging on storage failure.
func (s *WorkspaceService) ListFolderFiles(ctx context.Context, id, name string) []string {
	key := FolderKey(id, name)
	blobs, err := s.container.ListAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list workspace files", "key", key, "err", err)
		return []string{}
	}
	files := []string{}
	for _, b := range blobs {
		rel, ok := strings.CutPrefix(b.Key, key)
		if !ok || rel == placeholderName {
			continue
		}
		files = append(files, rel)
	}
	sort.Strings(files)
	return files
}

// ListFolders returns the names of all workspace folders in the container,
// sorted. A folder is any key of the form workspace/<name>/.placeholder;
// the parent's own marker and markers nested deeper are skipped.
func (s *WorkspaceService) ListFolders(ctx context.Context) []string {
	blobs, err := s.container.ListAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list workspace folders", "err", err)
		return []string{}
	}
	folders := []string{}
	for _, b := range blobs {
		rest, ok := strings.CutPrefix(b.Key, parentPrefix)
		if !ok {
			continue
		}
		folder, marker, found := strings.Cut(rest, "/")
		if !found || marker != placeholderName {
			continue
		}
		folders = append(folders, folder)
	}
	sort.Strings(folders)
	return folders
}
