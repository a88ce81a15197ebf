package tower

import (
	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/items"
	"github.com/lawnchairsociety/relictower/internal/logger"
	"github.com/lawnchairsociety/relictower/internal/skills"
)

// EnemySpawner builds floor-scaled enemy units from the roster
type EnemySpawner struct {
	roster *Roster
	skills *skills.Registry
	items  *items.Registry
}

// NewEnemySpawner creates a new enemy spawner with the given catalogs
func NewEnemySpawner(roster *Roster, sk *skills.Registry, it *items.Registry) *EnemySpawner {
	return &EnemySpawner{
		roster: roster,
		skills: sk,
		items:  it,
	}
}

// Roster returns the spawner's roster
func (s *EnemySpawner) Roster() *Roster {
	return s.roster
}

// Spawn creates the enemy for a floor. HP, atk, def and sup are scaled by
// the floor; skills and items are fresh copies from the catalogs. Unknown
// catalog IDs are skipped with a warning.
func (s *EnemySpawner) Spawn(floor int) *combat.Unit {
	def := s.roster.ForFloor(floor)

	u := combat.NewUnit(
		def.Name,
		max(1, ScaleStat(def.Hp, floor)),
		ScaleStat(def.Atk, floor),
		ScaleStat(def.Def, floor),
		ScaleStat(def.BaseSup(), floor),
	)

	for _, id := range def.Skills {
		tpl, ok := s.skills.Get(id)
		if !ok {
			logger.Warning("Unknown enemy skill", "enemy", def.Name, "skill", id)
			continue
		}
		u.Learn(tpl)
	}

	for _, id := range append(append([]string(nil), def.Relics...), def.CursedRelics...) {
		tpl, ok := s.items.Get(id)
		if !ok {
			logger.Warning("Unknown enemy item", "enemy", def.Name, "item", id)
			continue
		}
		u.Equip(tpl)
	}

	// Items may have changed max HP; enemies always start a floor at full health.
	u.Hp = u.MaxHp
	return u
}
