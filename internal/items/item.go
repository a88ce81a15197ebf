// Package items provides relic and cursed relic templates and the catalog that holds them.
package items

import (
	"fmt"
	"math"
)

// Kind distinguishes ordinary relics from cursed relics.
type Kind int

const (
	Relic Kind = iota
	Cursed
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case Relic:
		return "relic"
	case Cursed:
		return "cursed"
	default:
		return "unknown"
	}
}

// Stats holds the flat additive bonuses an item grants.
type Stats struct {
	Atk   int
	Def   int
	Sup   int
	MaxHp int
}

// IsZero returns true if the item grants no flat stats.
func (s Stats) IsZero() bool {
	return s == Stats{}
}

// StatsRaw holds one-time multiplicative adjustments applied when the item is acquired.
type StatsRaw struct {
	MaxHp float64 // Factor applied to max HP; 0 means none
}

// Special holds the capability flags an item injects into combat.
// Numeric fields are 0 and flags are false when the item does not carry them.
type Special struct {
	CdReduc     float64 // Milliseconds removed from every cooldown
	CdIncrease  float64 // Milliseconds added to every cooldown
	Lifesteal   float64 // Fraction of damage dealt healed back
	HealingBan  bool
	SelfDmgTick float64 // Damage taken every periodic tick
	RandomDelay float64 // Upper bound of a random stall applied to ready skills
	DefZero     bool
	MaxHpReduc  float64 // Fraction of max HP missing at the start of each floor
	CheatDeath  bool
	BreakOnUse  bool // Cheat death destroys every owned item when it triggers
}

// Template is a relic or cursed relic. Catalog entries are never mutated;
// owners receive a Clone.
type Template struct {
	ID          string
	Name        string
	Description string
	Kind        Kind
	Stats       Stats
	StatsRaw    StatsRaw
	Special     Special
}

// Clone returns an independent copy of the item.
func (t *Template) Clone() *Template {
	c := *t
	return &c
}

// Reinforce multiplies every flat stat by 1.5, rounding down, and returns
// the resulting change in max HP so the owner can apply it.
func (t *Template) Reinforce() int {
	before := t.Stats.MaxHp
	t.Stats.Atk = reinforce(t.Stats.Atk)
	t.Stats.Def = reinforce(t.Stats.Def)
	t.Stats.Sup = reinforce(t.Stats.Sup)
	t.Stats.MaxHp = reinforce(t.Stats.MaxHp)
	return t.Stats.MaxHp - before
}

func reinforce(v int) int {
	return int(math.Floor(float64(v) * 1.5))
}

// String returns a short label for logs
func (t *Template) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.Kind)
}
