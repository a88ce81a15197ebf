package combat

import (
	"math"

	"github.com/lawnchairsociety/relictower/internal/skills"
)

// EffectKind is the category of a status effect.
type EffectKind string

const (
	EffectBuff   EffectKind = "buff"
	EffectDebuff EffectKind = "debuff"
	EffectDot    EffectKind = "dot"
	EffectRegen  EffectKind = "regen"
	EffectCurse  EffectKind = "curse"
)

// SubTypeSelfDmgTick labels the curse registered by self damage items.
const SubTypeSelfDmgTick = "selfDmgTick"

// StatusEffect is a timed or permanent modifier attached to a unit.
// Source and Kind together identify an effect: applying the same pair again
// refreshes the existing entry instead of stacking.
type StatusEffect struct {
	Kind      EffectKind `json:"kind"`
	Stat      string     `json:"stat,omitempty"`
	Value     float64    `json:"value"`
	IsPercent bool       `json:"is_percent,omitempty"`
	Duration  float64    `json:"duration"` // Milliseconds remaining; ignored when Permanent
	Source    string     `json:"source"`
	SubType   string     `json:"sub_type,omitempty"`
	Permanent bool       `json:"permanent,omitempty"`
}

// ApplyEffect attaches e to the unit, or refreshes the value and duration of
// the entry with the same source and kind. It returns the stored entry.
func (u *Unit) ApplyEffect(e *StatusEffect) *StatusEffect {
	for _, cur := range u.Effects {
		if cur.Source == e.Source && cur.Kind == e.Kind {
			cur.Stat = e.Stat
			cur.Value = e.Value
			cur.IsPercent = e.IsPercent
			cur.Duration = e.Duration
			cur.SubType = e.SubType
			cur.Permanent = e.Permanent
			return cur
		}
	}
	u.Effects = append(u.Effects, e)
	return e
}

// FindEffect returns the effect with the given source and kind.
func (u *Unit) FindEffect(source string, kind EffectKind) (*StatusEffect, bool) {
	for _, e := range u.Effects {
		if e.Source == source && e.Kind == kind {
			return e, true
		}
	}
	return nil, false
}

func (u *Unit) clearTransientEffects() {
	kept := u.Effects[:0]
	for _, e := range u.Effects {
		if e.Permanent {
			kept = append(kept, e)
		}
	}
	clear(u.Effects[len(kept):])
	u.Effects = kept
}

// ExpireEffects counts every effect and the shield down by delta milliseconds.
// Non-permanent effects that run out are removed; an expired shield is discarded.
// A shield with no duration left expires on the first call.
func ExpireEffects(u *Unit, delta float64) {
	kept := u.Effects[:0]
	for _, e := range u.Effects {
		e.Duration -= delta
		if !e.Permanent && e.Duration <= 0 {
			continue
		}
		kept = append(kept, e)
	}
	clear(u.Effects[len(kept):])
	u.Effects = kept

	if u.Shield > 0 || u.ShieldDuration > 0 {
		u.ShieldDuration -= delta
		if u.ShieldDuration <= 0 {
			u.ShieldDuration = 0
			u.Shield = 0
		}
	}
}

// TickResult summarises one periodic tick on a unit.
type TickResult struct {
	DotDamage    int
	CurseDamage  int
	Regen        int
	Drained      int // HP the opponent stole back from DoT damage
	CheatedDeath bool
}

// TickEffects fires one periodic tick on u: DoTs damage it (and feed the
// opponent's item lifesteal), regen heals it and self damage curses hurt it.
func TickEffects(u, opponent *Unit) TickResult {
	var res TickResult

	// Damage can strip non-permanent effects mid-loop, so iterate a snapshot.
	effects := append([]*StatusEffect(nil), u.Effects...)
	for _, e := range effects {
		switch e.Kind {
		case EffectDot:
			dmg := safeDamage(math.Max(1, math.Floor(e.Value)))
			if ApplyDirectDamage(u, dmg).CheatedDeath {
				res.CheatedDeath = true
			}
			res.DotDamage += dmg

			sp := opponent.Special()
			if sp.Lifesteal > 0 && !sp.HealingBan {
				res.Drained += opponent.Heal(safeHeal(math.Floor(float64(dmg) * sp.Lifesteal)))
			}
		case EffectRegen:
			if !u.HealingBanned() {
				res.Regen += u.Heal(safeHeal(math.Floor(e.Value)))
			}
		case EffectCurse:
			if e.SubType != SubTypeSelfDmgTick {
				continue
			}
			dmg := safeDamage(math.Floor(e.Value))
			if ApplyDirectDamage(u, dmg).CheatedDeath {
				res.CheatedDeath = true
			}
			res.CurseDamage += dmg
		}
	}
	return res
}

func statModEffect(kind EffectKind, mod *skills.StatMod, skillDuration float64, source string) *StatusEffect {
	duration := mod.Duration
	if duration <= 0 {
		duration = skillDuration
	}
	return &StatusEffect{
		Kind:      kind,
		Stat:      mod.Stat,
		Value:     mod.Amount,
		IsPercent: isPercentAmount(mod.Amount),
		Duration:  duration,
		Source:    source,
	}
}

// Debuff amounts below 1 in magnitude are fractions; anything larger is flat.
func isPercentAmount(v float64) bool {
	return math.Abs(v) < 1
}
