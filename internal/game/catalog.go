// Package game runs a tower session: floors, battles, rewards and upgrades for one player.
package game

import (
	"fmt"
	"io/fs"

	"github.com/lawnchairsociety/relictower/internal/items"
	"github.com/lawnchairsociety/relictower/internal/skills"
	"github.com/lawnchairsociety/relictower/internal/tower"
)

// Catalog bundles the read-only data every session draws from. It is safe to
// share between sessions.
type Catalog struct {
	Skills *skills.Registry
	Items  *items.Registry
	Roster *tower.Roster
}

// CatalogFiles names the YAML files a catalog is built from.
type CatalogFiles struct {
	Skills  string
	Items   string
	Enemies string
}

// DefaultCatalogFiles returns the file names used by the embedded data set.
func DefaultCatalogFiles() CatalogFiles {
	return CatalogFiles{
		Skills:  "skills.yaml",
		Items:   "items.yaml",
		Enemies: "enemies.yaml",
	}
}

// LoadCatalog reads the skill, item and enemy catalogs from fsys.
func LoadCatalog(fsys fs.FS, files CatalogFiles) (*Catalog, error) {
	sk := skills.NewRegistry()
	if err := sk.LoadFromFS(fsys, files.Skills); err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}

	it := items.NewRegistry()
	if err := it.LoadFromFS(fsys, files.Items); err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	roster, err := tower.LoadRosterFromFS(fsys, files.Enemies)
	if err != nil {
		return nil, fmt.Errorf("failed to load enemies: %w", err)
	}

	return &Catalog{Skills: sk, Items: it, Roster: roster}, nil
}
