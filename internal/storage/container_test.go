package storage

import (
	"slices"
	"testing"

	"github.com/viant/afs"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	c := NewContainer(afs.New(), "mem://localhost/"+t.Name(), "blobs")
	if err := c.Ensure(t.Context()); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestContainer_Ensure(t *testing.T) {
	c := NewContainer(afs.New(), "mem://localhost/"+t.Name(), "blobs")
	ctx := t.Context()

	if err := c.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	// Idempotent.
	if err := c.Ensure(ctx); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
}

func TestContainer_UploadExistsDelete(t *testing.T) {
	c := newTestContainer(t)
	ctx := t.Context()

	if err := c.Upload(ctx, "a/b.txt", []byte("hello")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	ok, err := c.Exists(ctx, "a/b.txt")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Error("uploaded object should exist")
	}

	if err := c.Delete(ctx, "a/b.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ok, err = c.Exists(ctx, "a/b.txt")
	if err != nil {
		t.Fatalf("Exists after delete: %v", err)
	}
	if ok {
		t.Error("deleted object should not exist")
	}
}

func TestContainer_ListAll(t *testing.T) {
	c := newTestContainer(t)
	ctx := t.Context()

	for _, key := range []string{"top.txt", "dir/a.txt", "dir/sub/b.txt"} {
		if err := c.Upload(ctx, key, []byte(key)); err != nil {
			t.Fatalf("Upload %s: %v", key, err)
		}
	}

	blobs, err := c.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	keys := make([]string, 0, len(blobs))
	for _, b := range blobs {
		keys = append(keys, b.Key)
	}
	slices.Sort(keys)
	want := []string{"dir/a.txt", "dir/sub/b.txt", "top.txt"}
	if !slices.Equal(keys, want) {
		t.Errorf("ListAll keys = %v, want %v", keys, want)
	}
}

func TestContainer_BlobURL(t *testing.T) {
	c := NewContainer(afs.New(), "mem://localhost/data", "blobs")

	if got, want := c.BlobURL("workspace/x-1/"), "mem://localhost/data/blobs/workspace/x-1/"; got != want {
		t.Errorf("BlobURL = %q, want %q", got, want)
	}
	if got, want := c.BlobURL("a.txt"), "mem://localhost/data/blobs/a.txt"; got != want {
		t.Errorf("BlobURL = %q, want %q", got, want)
	}
}
