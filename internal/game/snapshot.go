package game

import (
	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/rewards"
)

// SkillSnapshot is the read-only view of one owned skill.
type SkillSnapshot struct {
	combat.SkillDetail
	Progress float64 `json:"progress"`
}

// UnitSnapshot is the read-only view of one side of a battle.
type UnitSnapshot struct {
	Name           string                `json:"name"`
	Hp             int                   `json:"hp"`
	MaxHp          int                   `json:"max_hp"`
	Shield         int                   `json:"shield"`
	ShieldDuration float64               `json:"shield_duration"`
	Base           combat.Stats          `json:"base"`
	Stats          combat.Stats          `json:"stats"`
	Effects        []combat.StatusEffect `json:"effects"`
	Skills         []SkillSnapshot       `json:"skills"`
	Relics         []string              `json:"relics,omitempty"`
	CursedRelics   []string              `json:"cursed_relics,omitempty"`
}

// OfferSnapshot is one entry of the reward batch.
type OfferSnapshot struct {
	Index       int          `json:"index"`
	Kind        rewards.Kind `json:"kind"`
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	IsUpgrade   bool         `json:"is_upgrade,omitempty"`
}

// UpgradeSnapshot describes a pending upgrade choice.
type UpgradeSnapshot struct {
	Skill   combat.SkillDetail      `json:"skill"`
	Options []rewards.UpgradeOption `json:"options"`
}

// Snapshot is everything a presentation layer needs to draw a session.
type Snapshot struct {
	SessionID string           `json:"session_id"`
	Floor     int              `json:"floor"`
	Phase     Phase            `json:"phase"`
	Elapsed   float64          `json:"elapsed"`
	Player    UnitSnapshot     `json:"player"`
	Enemy     *UnitSnapshot    `json:"enemy,omitempty"`
	Offers    []OfferSnapshot  `json:"offers,omitempty"`
	Upgrade   *UpgradeSnapshot `json:"upgrade,omitempty"`
	Summary   *RunSummary      `json:"summary,omitempty"`
	Log       []string         `json:"log"`
}

// Snapshot captures the current session state. The result shares no memory
// with the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID: s.ID,
		Floor:     s.floor,
		Phase:     s.phase,
		Log:       s.Log(),
	}

	var playerCd, enemyCd *combat.Combatant
	if s.battle != nil {
		snap.Elapsed = s.battle.Elapsed()
		playerCd, enemyCd = s.battle.Player, s.battle.Enemy
	}

	snap.Player = snapshotUnit(s.player, playerCd)
	if s.enemy != nil && s.phase == PhaseBattle {
		enemy := snapshotUnit(s.enemy, enemyCd)
		snap.Enemy = &enemy
	}

	for i, o := range s.offers {
		snap.Offers = append(snap.Offers, OfferSnapshot{
			Index:       i,
			Kind:        o.Kind,
			ID:          o.ID(),
			Name:        o.Name(),
			Description: o.Description(),
			IsUpgrade:   o.IsUpgrade,
		})
	}

	if sk, opts := s.PendingUpgrade(); sk != nil {
		snap.Upgrade = &UpgradeSnapshot{
			Skill:   combat.Detail(sk, s.player),
			Options: opts,
		}
	}

	if s.phase == PhaseGameOver {
		sum := s.Summary()
		snap.Summary = &sum
	}
	return snap
}

func snapshotUnit(u *combat.Unit, c *combat.Combatant) UnitSnapshot {
	us := UnitSnapshot{
		Name:           u.Name,
		Hp:             u.DisplayHp(),
		MaxHp:          u.MaxHp,
		Shield:         u.Shield,
		ShieldDuration: u.ShieldDuration,
		Base:           combat.Stats{Atk: u.Atk, Def: u.Def, Sup: u.Sup},
		Stats:          combat.CurrentStats(u),
		Effects:        make([]combat.StatusEffect, 0, len(u.Effects)),
		Skills:         make([]SkillSnapshot, 0, len(u.Skills)),
	}
	for _, e := range u.Effects {
		us.Effects = append(us.Effects, *e)
	}
	for i, sk := range u.Skills {
		ss := SkillSnapshot{SkillDetail: combat.Detail(sk, u)}
		if c != nil && c.Unit == u {
			ss.Progress = c.Progress(i)
		}
		us.Skills = append(us.Skills, ss)
	}
	for _, it := range u.Relics {
		us.Relics = append(us.Relics, it.Name)
	}
	for _, it := range u.Cursed {
		us.CursedRelics = append(us.CursedRelics, it.Name)
	}
	return us
}
