package combat

import (
	"math"

	"github.com/lawnchairsociety/relictower/internal/items"
	"github.com/lawnchairsociety/relictower/internal/skills"
)

// Stats are a unit's live combat stats.
type Stats struct {
	Atk int `json:"atk"`
	Def int `json:"def"`
	Sup int `json:"sup"`
}

// CurrentStats computes live stats from base stats, owned item bonuses and
// active buffs and debuffs, in that order. Item bonuses are folded in first so
// percent modifiers act on the item-boosted value. A def zero item overrides
// everything else. Results are floored and never negative.
func CurrentStats(u *Unit) Stats {
	atk := float64(u.Atk)
	def := float64(u.Def)
	sup := float64(u.Sup)

	for _, list := range [][]*items.Template{u.Relics, u.Cursed} {
		for _, it := range list {
			atk += float64(it.Stats.Atk)
			def += float64(it.Stats.Def)
			sup += float64(it.Stats.Sup)
		}
	}

	for _, e := range u.Effects {
		if e.Kind != EffectBuff && e.Kind != EffectDebuff {
			continue
		}
		var v *float64
		switch e.Stat {
		case skills.StatAtk:
			v = &atk
		case skills.StatDef:
			v = &def
		case skills.StatSup:
			v = &sup
		default:
			continue
		}
		if e.IsPercent {
			*v *= 1 + e.Value
		} else {
			*v += e.Value
		}
	}

	if u.Special().DefZero {
		def = 0
	}

	return Stats{
		Atk: clampStat(atk),
		Def: clampStat(def),
		Sup: clampStat(sup),
	}
}

func clampStat(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxInt32
	}
	return int(math.Floor(v))
}
