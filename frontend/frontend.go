//go:generate sh -c "pnpm install && pnpm build"

// Package frontend embeds the compiled web UI bundle.
//
// The dist directory is populated at build time via go:generate, enabling
// single-binary deployment without external file dependencies.
package frontend

import (
	"embed"
	"io/fs"
)

// Files contains the embedded web frontend.
//
//go:embed dist/*
var Files embed.FS

// Dist returns the bundle rooted at its index.html.
func Dist() fs.FS {
	sub, err := fs.Sub(Files, "dist")
	if err != nil {
		panic(err)
	}
	return sub
}
