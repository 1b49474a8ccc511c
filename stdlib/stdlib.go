// Package stdlib embeds the standard library sources.
package stdlib

import (
	"embed"
	"io/fs"
)

//go:embed date experimental influxdata math regexp strings system testing universe
var sources embed.FS

// FS returns the standard library, one directory per package.
func FS() fs.FS {
	return sources
}
