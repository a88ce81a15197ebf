// Package data holds the default catalog and configuration files shipped with the server.
package data

import "embed"

// FS contains the bundled yaml files (skills, items, enemies, server and logging config).
//
//go:embed *.yaml
var FS embed.FS
