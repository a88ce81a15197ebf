package combat

import (
	"math"

	"github.com/lawnchairsociety/relictower/internal/skills"
)

// randomDelayChance is the probability that a ready skill stalls when the
// owner carries a random delay item.
const randomDelayChance = 0.3

// Cooldown tracks when a skill last fired.
type Cooldown struct {
	LastUsed float64 // Battle timestamp in milliseconds
	Progress float64 // 0..1, display only
}

// EffectiveCooldown returns the skill's cooldown after level adjustments and
// item modifiers, floored at skills.MinCooldown.
func EffectiveCooldown(sk *skills.Instance, u *Unit) float64 {
	sp := u.Special()
	cd := sk.TotalCooldown() - sp.CdReduc + sp.CdIncrease
	if math.IsNaN(cd) || cd < skills.MinCooldown {
		return skills.MinCooldown
	}
	return cd
}

// Combatant binds a unit to its per-battle cooldown timers.
type Combatant struct {
	Unit      *Unit
	Cooldowns []*Cooldown // Parallel to Unit.Skills
}

func newCombatant(u *Unit, start float64) *Combatant {
	c := &Combatant{Unit: u}
	c.resetCooldowns(start)
	return c
}

// resetCooldowns schedules every skill so its first activation lands exactly
// at its initial delay after start.
func (c *Combatant) resetCooldowns(start float64) {
	c.Cooldowns = make([]*Cooldown, len(c.Unit.Skills))
	for i, sk := range c.Unit.Skills {
		c.Cooldowns[i] = &Cooldown{
			LastUsed: start + sk.TotalDelay() - EffectiveCooldown(sk, c.Unit),
		}
	}
}

// cooldown returns the timer for skill i, creating one if the unit learnt a
// skill after the battle started.
func (c *Combatant) cooldown(i int, now float64) *Cooldown {
	for len(c.Cooldowns) <= i {
		sk := c.Unit.Skills[len(c.Cooldowns)]
		c.Cooldowns = append(c.Cooldowns, &Cooldown{
			LastUsed: now + sk.TotalDelay() - EffectiveCooldown(sk, c.Unit),
		})
	}
	return c.Cooldowns[i]
}

// Delay pushes every skill's next activation back by ms.
func (c *Combatant) Delay(ms float64) {
	for _, cd := range c.Cooldowns {
		cd.LastUsed += ms
	}
}

// Progress returns the display progress of skill i.
func (c *Combatant) Progress(i int) float64 {
	if i < 0 || i >= len(c.Cooldowns) {
		return 0
	}
	return c.Cooldowns[i].Progress
}

// SkillDetail is the read-only view of a skill used by tooltips.
type SkillDetail struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	Level             int     `json:"level"`
	EffectiveCooldown float64 `json:"effective_cd"`
	TotalDelay        float64 `json:"total_delay"`
	PowerMultiplier   float64 `json:"power_multiplier"`
	Description       string  `json:"description,omitempty"`
}

// Detail describes sk as owned by u.
func Detail(sk *skills.Instance, u *Unit) SkillDetail {
	return SkillDetail{
		ID:                sk.ID,
		Name:              sk.Name,
		Type:              string(sk.Type),
		Level:             sk.Level,
		EffectiveCooldown: EffectiveCooldown(sk, u),
		TotalDelay:        sk.TotalDelay(),
		PowerMultiplier:   sk.PowerMultiplier(),
		Description:       sk.Description,
	}
}
