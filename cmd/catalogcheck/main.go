package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/lawnchairsociety/relictower/data"
	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/tower"
)

func main() {
	dataDir := flag.String("data-dir", "", "Directory with skills/items/enemies YAML files (default: built-in catalog)")
	floors := flag.Int("floors", 12, "Print the scaled enemy for floors 1..n")
	flag.Parse()

	var fsys fs.FS = data.FS
	if *dataDir != "" {
		fsys = os.DirFS(*dataDir)
	}

	catalog, err := game.LoadCatalog(fsys, game.DefaultCatalogFiles())
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d skills, %d items (%d relics, %d cursed), %d enemies\n",
		catalog.Skills.Count(), catalog.Items.Count(),
		len(catalog.Items.Relics()), len(catalog.Items.CursedRelics()),
		catalog.Roster.Len())
	fmt.Printf("Starter skills: %s\n", strings.Join(catalog.Skills.StarterSkills(), ", "))

	// Check that every enemy reference resolves
	missing := 0
	for _, def := range catalog.Roster.All() {
		for _, id := range def.Skills {
			if _, ok := catalog.Skills.Get(id); !ok {
				fmt.Printf("  %s: unknown skill %q\n", def.Name, id)
				missing++
			}
		}
		for _, id := range append(append([]string{}, def.Relics...), def.CursedRelics...) {
			if _, ok := catalog.Items.Get(id); !ok {
				fmt.Printf("  %s: unknown item %q\n", def.Name, id)
				missing++
			}
		}
	}

	fmt.Println("\n--- Enemies by floor ---")
	fmt.Printf("%-6s %-20s %6s %5s %5s %5s %6s  %s\n", "Floor", "Enemy", "HP", "ATK", "DEF", "SUP", "Scale", "Skills")
	spawner := tower.NewEnemySpawner(catalog.Roster, catalog.Skills, catalog.Items)
	for floor := 1; floor <= *floors; floor++ {
		enemy := spawner.Spawn(floor)
		names := make([]string, 0, len(enemy.Skills))
		for _, sk := range enemy.Skills {
			names = append(names, sk.Name)
		}
		tier := ""
		if tower.IsFinalTier(floor, catalog.Roster.Len()) {
			tier = " *"
		}
		fmt.Printf("%-6d %-20s %6d %5d %5d %5d %6.2f  %s%s\n",
			floor, enemy.Name, enemy.MaxHp, enemy.Atk, enemy.Def, enemy.Sup,
			tower.ScaleFactor(floor), strings.Join(names, ", "), tier)
	}

	if missing > 0 {
		fmt.Printf("\n%d unresolved references\n", missing)
		os.Exit(1)
	}
}
