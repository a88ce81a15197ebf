package combat

import (
	"github.com/lawnchairsociety/relictower/internal/items"
	"github.com/lawnchairsociety/relictower/internal/skills"
)

func slash() *skills.Template {
	return &skills.Template{ID: "slash", Name: "Slash", Type: skills.TypeAttack, Power: 1.0, Cooldown: 2000, InitialDelay: 500}
}

func relic(id string, stats items.Stats, special items.Special) *items.Template {
	return &items.Template{ID: id, Name: id, Kind: items.Relic, Stats: stats, Special: special}
}

func cursed(id string, stats items.Stats, special items.Special) *items.Template {
	return &items.Template{ID: id, Name: id, Kind: items.Cursed, Stats: stats, Special: special}
}

func sacrificePawn() *items.Template {
	return cursed("sacrifice_pawn", items.Stats{}, items.Special{CheatDeath: true, BreakOnUse: true})
}

func pair(player, enemy *Unit) (*Combatant, *Combatant) {
	return newCombatant(player, 0), newCombatant(enemy, 0)
}

func ringStats() items.Stats {
	return items.Stats{Atk: 5, Def: 2}
}

func noSpecial() items.Special {
	return items.Special{}
}

func demonMuscle() items.Special {
	return items.Special{SelfDmgTick: 4}
}

func cheatDeathOnly() items.Special {
	return items.Special{CheatDeath: true}
}
