package combat

import (
	"fmt"
	"math"
	"strings"

	"github.com/lawnchairsociety/relictower/internal/skills"
)

// activation carries everything a resolver needs for one skill use.
type activation struct {
	actor       *Combatant
	target      *Combatant
	skill       *skills.Instance
	actorStats  Stats
	targetStats Stats
}

// resolveFunc applies one skill type's effect and returns the summary text.
type resolveFunc func(a *activation) string

// resolvers maps each skill type to its resolution routine.
var resolvers = map[skills.Type]resolveFunc{
	skills.TypeAttack: resolveAttack,
	skills.TypeShield: resolveShield,
	skills.TypeHeal:   resolveHeal,
	skills.TypeBuff:   resolveBuff,
	skills.TypeDebuff: resolveDebuff,
	skills.TypeDot:    resolveDot,
}

// UseSkill executes one activation of sk by actor against target: self costs,
// stat snapshot, then the type-specific effect. It returns a summary line.
// A skill of an unknown type fizzles without paying its costs.
func UseSkill(actor, target *Combatant, sk *skills.Instance) string {
	a := actor.Unit
	resolve, ok := resolvers[sk.Type]
	if !ok {
		return fmt.Sprintf("%s uses %s: nothing happens", a.Name, sk.Name)
	}

	var parts []string

	if sk.SelfDmg > 0 {
		cost := safeDamage(math.Floor(float64(a.MaxHp) * sk.SelfDmg))
		res := ApplyDirectDamage(a, cost)
		parts = append(parts, fmt.Sprintf("pays %d HP", cost))
		if res.CheatedDeath {
			parts = append(parts, "cheats death")
		}
	}
	if sk.SelfDebuff != nil {
		a.ApplyEffect(statModEffect(EffectDebuff, sk.SelfDebuff, sk.Duration, sk.ID))
	}

	act := &activation{
		actor:       actor,
		target:      target,
		skill:       sk,
		actorStats:  CurrentStats(a),
		targetStats: CurrentStats(target.Unit),
	}

	summary := fmt.Sprintf("%s uses %s: %s", a.Name, sk.Name, resolve(act))
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	return summary
}

func attackDamage(atk int, mult float64, def int) int {
	return safeDamage(math.Max(1, math.Floor(float64(atk)*mult-float64(def))))
}

func describeHit(target *Unit, dmg int, res DamageResult) string {
	msg := fmt.Sprintf("%d damage to %s", dmg, target.Name)
	if res.Absorbed > 0 {
		msg += fmt.Sprintf(" (%d absorbed)", res.Absorbed)
	}
	if res.CheatedDeath {
		msg += fmt.Sprintf(", %s cheats death", target.Name)
	}
	return msg
}

func resolveAttack(a *activation) string {
	actor, target, sk := a.actor.Unit, a.target.Unit, a.skill

	dmg := attackDamage(a.actorStats.Atk, sk.PowerMultiplier(), a.targetStats.Def)

	var healed int
	sp := actor.Special()
	lifesteal := sk.Lifesteal + sp.Lifesteal
	if lifesteal > 0 && !sp.HealingBan {
		healed = actor.Heal(safeHeal(math.Floor(float64(dmg) * lifesteal)))
	}
	if sk.Debuff != nil {
		target.ApplyEffect(statModEffect(EffectDebuff, sk.Debuff, sk.Duration, sk.ID))
	}

	msg := describeHit(target, dmg, ApplyDamage(target, dmg))
	if healed > 0 {
		msg += fmt.Sprintf(", drains %d HP", healed)
	}
	if sk.Debuff != nil {
		msg += fmt.Sprintf(", %s %s", sk.Debuff.Stat, formatAmount(sk.Debuff.Amount))
	}
	return msg
}

func resolveShield(a *activation) string {
	u, sk := a.actor.Unit, a.skill
	amt := safeHeal(math.Floor(sk.Power + float64(a.actorStats.Sup)*2))
	u.Shield += amt
	u.ShieldDuration = sk.Duration
	return fmt.Sprintf("shield +%d for %.1fs", amt, sk.Duration/1000)
}

func resolveHeal(a *activation) string {
	u, sk := a.actor.Unit, a.skill
	if u.HealingBanned() {
		return "healing is banned"
	}
	amt := safeHeal(math.Floor((sk.Power + float64(a.actorStats.Sup)) * (1 + float64(sk.Level)*0.2)))
	return fmt.Sprintf("heals %d HP", u.Heal(amt))
}

func resolveBuff(a *activation) string {
	u, sk := a.actor.Unit, a.skill
	if sk.IsRegen() {
		u.ApplyEffect(&StatusEffect{
			Kind:     EffectRegen,
			Value:    sk.EffectVal,
			Duration: sk.Duration,
			Source:   sk.ID,
			SubType:  sk.EffectType,
		})
		return fmt.Sprintf("regenerates %.0f HP/s for %.1fs", sk.EffectVal, sk.Duration/1000)
	}

	u.ApplyEffect(&StatusEffect{
		Kind:      EffectBuff,
		Stat:      sk.Stat,
		Value:     sk.Amount,
		IsPercent: true,
		Duration:  sk.Duration,
		Source:    sk.ID,
	})
	return fmt.Sprintf("%s %+.0f%% for %.1fs", sk.Stat, sk.Amount*100, sk.Duration/1000)
}

func resolveDebuff(a *activation) string {
	target, sk := a.target.Unit, a.skill
	if sk.Stat == skills.StatCd {
		a.target.Delay(sk.Amount)
		return fmt.Sprintf("%s's skills delayed by %.1fs", target.Name, sk.Amount/1000)
	}

	target.ApplyEffect(&StatusEffect{
		Kind:      EffectDebuff,
		Stat:      sk.Stat,
		Value:     sk.Amount,
		IsPercent: isPercentAmount(sk.Amount),
		Duration:  sk.Duration,
		Source:    sk.ID,
	})
	return fmt.Sprintf("%s's %s %s for %.1fs", target.Name, sk.Stat, formatAmount(sk.Amount), sk.Duration/1000)
}

func resolveDot(a *activation) string {
	target, sk := a.target.Unit, a.skill

	var msg string
	if sk.Power > 0 {
		dmg := attackDamage(a.actorStats.Atk, sk.Power, a.targetStats.Def)
		msg = describeHit(target, dmg, ApplyDamage(target, dmg)) + ", "
	}

	tick := sk.EffectVal + math.Floor(float64(a.actorStats.Sup)*0.2)
	target.ApplyEffect(&StatusEffect{
		Kind:     EffectDot,
		Value:    tick,
		Duration: sk.Duration,
		Source:   sk.ID,
		SubType:  sk.EffectType,
	})
	label := sk.EffectType
	if label == "" {
		label = string(EffectDot)
	}
	return msg + fmt.Sprintf("%s %.0f/s for %.1fs", label, tick, sk.Duration/1000)
}

func formatAmount(v float64) string {
	if isPercentAmount(v) {
		return fmt.Sprintf("%+.0f%%", v*100)
	}
	return fmt.Sprintf("%+.0f", v)
}
