// Package combat implements the real-time, cooldown-driven battle between two units.
package combat

import (
	"math"

	"github.com/lawnchairsociety/relictower/internal/items"
	"github.com/lawnchairsociety/relictower/internal/skills"
)

// Unit is one side of a battle. The player's Unit persists across floors;
// enemies get a fresh Unit per floor.
type Unit struct {
	Name  string
	MaxHp int
	Hp    int // May drop below zero before the battle notices the defeat
	Atk   int
	Def   int
	Sup   int

	Skills []*skills.Instance // Acquisition order
	Relics []*items.Template
	Cursed []*items.Template

	Shield         int
	ShieldDuration float64 // Milliseconds

	Effects []*StatusEffect // Storage order

	singleUseCheatDeath bool
	cheatDeathSpent     bool
}

// NewUnit creates a unit with the given base stats and full HP.
func NewUnit(name string, maxHp, atk, def, sup int) *Unit {
	return &Unit{
		Name:  name,
		MaxHp: maxHp,
		Hp:    maxHp,
		Atk:   atk,
		Def:   def,
		Sup:   sup,
	}
}

// Special returns the unit's item capabilities.
func (u *Unit) Special() items.Special {
	return items.Resolve(u.Relics, u.Cursed)
}

// HealingBanned returns true if an owned item disables healing.
func (u *Unit) HealingBanned() bool {
	return u.Special().HealingBan
}

// IsDead returns true once HP has reached zero.
func (u *Unit) IsDead() bool {
	return u.Hp <= 0
}

// DisplayHp returns HP clamped at zero.
func (u *Unit) DisplayHp() int {
	if u.Hp < 0 {
		return 0
	}
	return u.Hp
}

// Heal restores up to n HP without exceeding max HP and returns the amount restored.
// Healing bans are checked by callers since each heal path reports them differently.
func (u *Unit) Heal(n int) int {
	if n <= 0 {
		return 0
	}
	before := u.Hp
	u.Hp += n
	if u.Hp > u.MaxHp {
		u.Hp = u.MaxHp
	}
	if u.Hp < before {
		u.Hp = before
	}
	return u.Hp - before
}

// Learn adds a fresh level 1 copy of the template to the unit's skills.
func (u *Unit) Learn(tpl *skills.Template) *skills.Instance {
	inst := tpl.Instantiate()
	u.Skills = append(u.Skills, inst)
	return inst
}

// FindSkill returns the owned instance with the given ID.
func (u *Unit) FindSkill(id string) (*skills.Instance, bool) {
	for _, sk := range u.Skills {
		if sk.ID == id {
			return sk, true
		}
	}
	return nil, false
}

// Equip adds a copy of the item to the unit and applies its acquisition effects:
// flat max HP raises both max HP and HP, a max HP factor rescales max HP and clamps HP,
// and a self damage tick registers a permanent curse.
func (u *Unit) Equip(tpl *items.Template) *items.Template {
	it := tpl.Clone()
	if it.Kind == items.Cursed {
		u.Cursed = append(u.Cursed, it)
	} else {
		u.Relics = append(u.Relics, it)
	}

	if it.Stats.MaxHp != 0 {
		u.GrowMaxHp(it.Stats.MaxHp)
	}
	if it.StatsRaw.MaxHp > 0 {
		u.MaxHp = int(math.Floor(float64(u.MaxHp) * it.StatsRaw.MaxHp))
		if u.MaxHp < 1 {
			u.MaxHp = 1
		}
		if u.Hp > u.MaxHp {
			u.Hp = u.MaxHp
		}
	}
	if it.Special.SelfDmgTick > 0 {
		u.ApplyEffect(&StatusEffect{
			Kind:      EffectCurse,
			Value:     it.Special.SelfDmgTick,
			Source:    it.ID,
			SubType:   SubTypeSelfDmgTick,
			Permanent: true,
		})
	}
	return it
}

// GrowMaxHp raises max HP and current HP by n. A negative n shrinks both,
// leaving the unit with at least 1 max HP.
func (u *Unit) GrowMaxHp(n int) {
	u.MaxHp += n
	u.Hp += n
	if u.MaxHp < 1 {
		u.MaxHp = 1
	}
	if u.Hp > u.MaxHp {
		u.Hp = u.MaxHp
	}
}

// ResetTransient clears per-battle state: non-permanent effects and the shield.
// Permanent effects, skills and items are kept.
func (u *Unit) ResetTransient() {
	u.clearTransientEffects()
	u.Shield = 0
	u.ShieldDuration = 0
	u.cheatDeathSpent = false
}

// checkDeathPrevention saves a unit at 0 HP or less if it owns a cheat death item.
// A break-on-use item then destroys every owned item and every non-permanent effect.
func (u *Unit) checkDeathPrevention() bool {
	if u.Hp > 0 {
		return false
	}
	sp := u.Special()
	if !sp.CheatDeath {
		return false
	}
	if u.singleUseCheatDeath && u.cheatDeathSpent {
		return false
	}

	u.Hp = 1
	u.cheatDeathSpent = true
	if sp.BreakOnUse {
		u.Relics = nil
		u.Cursed = nil
		u.clearTransientEffects()
	}
	return true
}
