package combat

import (
	"fmt"
	"math/rand"
	"time"
)

// Outcome is the state of a battle from the player's point of view.
type Outcome int

const (
	Ongoing Outcome = iota
	Victory
	Defeat
)

// String returns the string representation of an Outcome
func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name written by MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ongoing":
		*o = Ongoing
	case "victory":
		*o = Victory
	case "defeat":
		*o = Defeat
	default:
		return fmt.Errorf("unknown battle outcome %q", text)
	}
	return nil
}

// Rules are the tunable timing and rule switches of a battle.
type Rules struct {
	TickInterval        float64 // Milliseconds between periodic effect ticks
	TimeLimit           float64 // Milliseconds before the battle is forfeited
	CarryTickRemainder  bool    // Keep the accumulator overshoot instead of dropping it
	SingleUseCheatDeath bool    // Cheat death triggers at most once per battle
}

// DefaultRules returns the standard battle rules.
func DefaultRules() Rules {
	return Rules{
		TickInterval:        1000,
		TimeLimit:           180000,
		CarryTickRemainder:  true,
		SingleUseCheatDeath: false,
	}
}

// EventKind categorises battle events.
type EventKind string

const (
	EventSkill   EventKind = "skill"
	EventTick    EventKind = "tick"
	EventStall   EventKind = "stall"
	EventEnd     EventKind = "end"
	EventTimeout EventKind = "timeout"
)

// Event is emitted for everything worth showing in a battle log.
type Event struct {
	Time  float64   `json:"time"` // Milliseconds since the battle started
	Kind  EventKind `json:"kind"`
	Actor string    `json:"actor"`
	Text  string    `json:"text"`
}

// Battle is one fight between the player and an enemy. It owns its timers and
// tick accumulator; nothing is shared between battles.
type Battle struct {
	Player *Combatant
	Enemy  *Combatant

	rules   Rules
	rng     *rand.Rand
	emit    func(Event)
	start   float64
	last    float64
	tickAcc float64
	active  bool
	outcome Outcome
}

// NewBattle starts a battle at timestamp start (milliseconds).
func NewBattle(player, enemy *Unit, start float64, rules Rules) *Battle {
	if rules.TickInterval <= 0 {
		rules.TickInterval = DefaultRules().TickInterval
	}
	for _, u := range []*Unit{player, enemy} {
		u.singleUseCheatDeath = rules.SingleUseCheatDeath
		u.cheatDeathSpent = false
	}
	return &Battle{
		Player: newCombatant(player, start),
		Enemy:  newCombatant(enemy, start),
		rules:  rules,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		emit:   func(Event) {},
		start:  start,
		last:   start,
		active: true,
	}
}

// SetRand replaces the random source used for random delays.
func (b *Battle) SetRand(rng *rand.Rand) {
	if rng != nil {
		b.rng = rng
	}
}

// OnEvent registers the callback that receives battle events.
func (b *Battle) OnEvent(fn func(Event)) {
	if fn == nil {
		fn = func(Event) {}
	}
	b.emit = fn
}

// Active returns true while the battle is unresolved.
func (b *Battle) Active() bool {
	return b.active
}

// Outcome returns the battle result so far.
func (b *Battle) Outcome() Outcome {
	return b.outcome
}

// Elapsed returns milliseconds since the battle started, as of the last Advance.
func (b *Battle) Elapsed() float64 {
	return b.last - b.start
}

// Stop ends the battle without a winner being decided by combat.
func (b *Battle) Stop(outcome Outcome) {
	if !b.active {
		return
	}
	b.active = false
	b.outcome = outcome
	b.event(EventEnd, "", outcome.String())
}

// Advance runs one frame at timestamp now: effect expiry, the periodic tick
// when due, player skills, enemy skills, then the win/loss and time limit checks.
func (b *Battle) Advance(now float64) Outcome {
	if !b.active {
		return b.outcome
	}

	delta := now - b.last
	if delta < 0 {
		delta = 0
	}
	b.last = now

	ExpireEffects(b.Player.Unit, delta)
	ExpireEffects(b.Enemy.Unit, delta)

	b.tickAcc += delta
	if b.tickAcc >= b.rules.TickInterval {
		b.tick(b.Player, b.Enemy)
		b.tick(b.Enemy, b.Player)
		if b.rules.CarryTickRemainder {
			b.tickAcc -= b.rules.TickInterval
		} else {
			b.tickAcc = 0
		}
	}

	b.stepSkills(b.Player, b.Enemy, now)
	b.stepSkills(b.Enemy, b.Player, now)

	switch {
	case b.Player.Unit.IsDead():
		b.Stop(Defeat)
	case b.Enemy.Unit.IsDead():
		b.Stop(Victory)
	case b.rules.TimeLimit > 0 && b.Elapsed() >= b.rules.TimeLimit:
		b.event(EventTimeout, "", fmt.Sprintf("Time limit of %.0fs reached", b.rules.TimeLimit/1000))
		b.Stop(Defeat)
	}
	return b.outcome
}

func (b *Battle) tick(c, opponent *Combatant) {
	res := TickEffects(c.Unit, opponent.Unit)
	if res == (TickResult{}) {
		return
	}

	var text string
	if res.DotDamage > 0 {
		text += fmt.Sprintf("%s takes %d damage over time. ", c.Unit.Name, res.DotDamage)
	}
	if res.Drained > 0 {
		text += fmt.Sprintf("%s drains %d HP. ", opponent.Unit.Name, res.Drained)
	}
	if res.Regen > 0 {
		text += fmt.Sprintf("%s regenerates %d HP. ", c.Unit.Name, res.Regen)
	}
	if res.CurseDamage > 0 {
		text += fmt.Sprintf("%s suffers %d curse damage. ", c.Unit.Name, res.CurseDamage)
	}
	if res.CheatedDeath {
		text += fmt.Sprintf("%s cheats death. ", c.Unit.Name)
	}
	if text == "" {
		return
	}
	b.event(EventTick, c.Unit.Name, text[:len(text)-1])
}

// stepSkills updates cooldown progress for every skill of c and fires the
// ready ones in registration order.
func (b *Battle) stepSkills(c, opponent *Combatant, now float64) {
	for i := 0; i < len(c.Unit.Skills); i++ {
		sk := c.Unit.Skills[i]
		cd := c.cooldown(i, now)
		eff := EffectiveCooldown(sk, c.Unit)

		elapsed := now - cd.LastUsed
		cd.Progress = min(1, max(0, elapsed/eff))
		if elapsed < eff {
			continue
		}

		randomDelay := c.Unit.Special().RandomDelay
		if randomDelay > 0 && b.rng.Float64() < randomDelayChance {
			stall := b.rng.Float64() * randomDelay
			cd.LastUsed += stall
			b.event(EventStall, c.Unit.Name, fmt.Sprintf("%s's %s stalls for %.0fms", c.Unit.Name, sk.Name, stall))
			continue
		}

		cd.LastUsed = now
		cd.Progress = 0
		b.event(EventSkill, c.Unit.Name, UseSkill(c, opponent, sk))
	}
}

func (b *Battle) event(kind EventKind, actor, text string) {
	b.emit(Event{
		Time:  b.Elapsed(),
		Kind:  kind,
		Actor: actor,
		Text:  text,
	})
}
