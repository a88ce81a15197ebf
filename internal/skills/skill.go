// Package skills provides skill templates and the per-unit skill instances built from them.
package skills

// Type represents how a skill resolves when it fires.
type Type string

const (
	TypeAttack Type = "attack"
	TypeShield Type = "shield"
	TypeHeal   Type = "heal"
	TypeBuff   Type = "buff"
	TypeDebuff Type = "debuff"
	TypeDot    Type = "dot"
)

// Stat names used by buffs and debuffs.
const (
	StatAtk = "atk"
	StatDef = "def"
	StatSup = "sup"
	StatCd  = "cd" // Debuff only: delays every opposing skill instead of creating an effect
)

// EffectRegen marks a buff skill that heals over time instead of raising a stat.
const EffectRegen = "regen"

// MinCooldown is the floor applied to every cooldown, in milliseconds.
const MinCooldown = 500.0

// StatMod is a nested stat change carried by a skill (debuff on hit, self debuff on use).
type StatMod struct {
	Stat     string
	Amount   float64
	Duration float64 // Milliseconds; 0 means "use the skill's duration"
}

// Template is an immutable skill definition from the catalog.
type Template struct {
	ID           string
	Name         string
	Description  string
	Type         Type
	Power        float64
	Cooldown     float64 // Milliseconds between activations
	InitialDelay float64 // Milliseconds before the first activation in a battle
	Duration     float64 // Milliseconds for shields, buffs, debuffs and DoTs
	EffectType   string  // Flavor: poison, burn, regen
	EffectVal    float64 // Tick magnitude for DoT and regen
	Stat         string  // Buff/debuff target stat
	Amount       float64 // Buff/debuff magnitude
	Debuff       *StatMod
	SelfDebuff   *StatMod
	SelfDmg      float64 // Fraction of own max HP paid on use
	Lifesteal    float64 // Fraction of dealt damage healed back
}

// Instance is a skill owned by one unit. It is an independent copy of a Template
// and is the only thing upgrades ever touch.
type Instance struct {
	Template
	Level      int
	ExtraCd    float64
	ExtraDelay float64
}

// Instantiate returns a fresh level 1 instance that shares no memory with the template.
func (t *Template) Instantiate() *Instance {
	inst := &Instance{
		Template: *t,
		Level:    1,
	}
	inst.Debuff = t.Debuff.clone()
	inst.SelfDebuff = t.SelfDebuff.clone()
	return inst
}

func (m *StatMod) clone() *StatMod {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// Clone returns a deep copy of the instance, including its level and adjustments.
func (i *Instance) Clone() *Instance {
	c := *i
	c.Debuff = i.Debuff.clone()
	c.SelfDebuff = i.SelfDebuff.clone()
	return &c
}

// TotalCooldown returns the configured cooldown including player adjustments,
// before any item modifiers.
func (i *Instance) TotalCooldown() float64 {
	return i.Cooldown + i.ExtraCd
}

// TotalDelay returns the initial delay including player adjustments.
func (i *Instance) TotalDelay() float64 {
	return i.InitialDelay + i.ExtraDelay
}

// PowerMultiplier returns the attack multiplier including the per-level bonus.
func (i *Instance) PowerMultiplier() float64 {
	return i.Power + float64(i.Level-1)*0.1
}

// IsRegen returns true if the skill is a heal-over-time buff.
func (i *Instance) IsRegen() bool {
	return i.Type == TypeBuff && i.EffectType == EffectRegen
}

// DealsDamage returns true if the skill hits the opponent directly.
func (t *Template) DealsDamage() bool {
	switch t.Type {
	case TypeAttack:
		return true
	case TypeDot:
		return t.Power > 0
	default:
		return false
	}
}

// TargetsOpponent returns true if the skill's main effect lands on the opponent.
func (t *Template) TargetsOpponent() bool {
	return t.Type == TypeAttack || t.Type == TypeDebuff || t.Type == TypeDot
}
