// Thin wrapper binding an afs service to a single blob container URL.

// Package storage implements blob-backed workspace folder management.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// Blob describes one object in the container.
type Blob struct {
	// Key is the object path relative to the container root, e.g.
	// "workspace/acme-1a2b3c4/.placeholder".
	Key string
	// URL is the absolute storage URL of the object.
	URL string
	// Size is the object size in bytes.
	Size int64
}

// Container is a handle to one blob container. It plays the role a cloud
// SDK's container client would: all keys are relative to the container root
// and the underlying store decides what scheme (file, mem, cloud connector)
// actually backs it.
type Container struct {
	fs      afs.Service
	baseURL string
}

// NewContainer binds fs to the container at baseURL/name.
func NewContainer(fs afs.Service, baseURL, name string) *Container {
	return &Container{
		fs:      fs,
		baseURL: url.Join(baseURL, name),
	}
}

// URL returns the absolute URL of the container root.
func (c *Container) URL() string {
	return c.baseURL
}

// BlobURL returns the absolute URL for a key inside the container. The key
// is appended verbatim so folder keys keep their trailing slash.
func (c *Container) BlobURL(key string) string {
	return strings.TrimSuffix(c.baseURL, "/") + "/" + key
}

// Ensure creates the container when it does not exist yet.
func (c *Container) Ensure(ctx context.Context) error {
	ok, err := c.fs.Exists(ctx, c.baseURL)
	if err != nil {
		return fmt.Errorf("failed to check container %s: %w", c.baseURL, err)
	}
	if ok {
		return nil
	}
	if err := c.fs.Create(ctx, c.baseURL, 0o755, true); err != nil {
		return fmt.Errorf("failed to create container %s: %w", c.baseURL, err)
	}
	return nil
}

// Upload writes data to key, replacing any existing object.
func (c *Container) Upload(ctx context.Context, key string, data []byte) error {
	if err := c.fs.Upload(ctx, c.BlobURL(key), 0o644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Exists reports whether an object is present at key.
func (c *Container) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := c.fs.Exists(ctx, c.BlobURL(key))
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return ok, nil
}

// Delete removes the object at key.
func (c *Container) Delete(ctx context.Context, key string) error {
	if err := c.fs.Delete(ctx, c.BlobURL(key)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// ListAll enumerates every object in the container. Directory entries that
// folder-aware schemes report are descended into, not returned; the result
// is the flat blob listing a cloud container would give.
func (c *Container) ListAll(ctx context.Context) ([]Blob, error) {
	return c.listAll(ctx, c.baseURL, "")
}

func (c *Container) listAll(ctx context.Context, dirURL, prefix string) ([]Blob, error) {
	objects, err := c.fs.List(ctx, dirURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dirURL, err)
	}
	var blobs []Blob
	for _, object := range objects {
		if object.IsDir() {
			// List includes the listed directory itself; skip it to
			// avoid recursing forever.
			if sameURL(object.URL(), dirURL) {
				continue
			}
			sub, err := c.listAll(ctx, url.Join(dirURL, object.Name()), prefix+object.Name()+"/")
			if err != nil {
				return nil, err
			}
			blobs = append(blobs, sub...)
			continue
		}
		blobs = append(blobs, Blob{
			Key:  prefix + object.Name(),
			URL:  url.Join(dirURL, object.Name()),
			Size: object.Size(),
		})
	}
	return blobs, nil
}

// sameURL compares two storage URLs ignoring a trailing slash.
func sameURL(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}
