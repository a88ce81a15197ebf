package game

import (
	"context"
	"errors"
	"math/rand"

	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/gametime"
	"github.com/lawnchairsociety/relictower/internal/rewards"
	"github.com/lawnchairsociety/relictower/internal/skills"
)

// Policy makes the reward decisions of an automated run.
type Policy interface {
	// ChooseOffer returns the index of the offer to claim, or -1 to skip.
	ChooseOffer(player *combat.Unit, offers []rewards.Offer) int
	// ChooseUpgrade returns the index of the upgrade option to apply.
	ChooseUpgrade(sk *skills.Instance, options []rewards.UpgradeOption) int
}

// GreedyPolicy takes relics first, then new damaging skills, then upgrades,
// and cursed relics only when nothing else is offered.
type GreedyPolicy struct{}

// ChooseOffer picks the highest scoring offer.
func (GreedyPolicy) ChooseOffer(player *combat.Unit, offers []rewards.Offer) int {
	best, bestScore := -1, 0
	for i, o := range offers {
		if score := greedyScore(o); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func greedyScore(o rewards.Offer) int {
	switch o.Kind {
	case rewards.KindRelic:
		return 5
	case rewards.KindSkill:
		if o.IsUpgrade {
			return 3
		}
		if o.Skill.DealsDamage() {
			return 4
		}
		return 2
	case rewards.KindCursed:
		if o.Item.Special.HealingBan || o.Item.Special.DefZero {
			return 0
		}
		return 1
	}
	return 0
}

// ChooseUpgrade prefers raw power, then cooldown reduction.
func (GreedyPolicy) ChooseUpgrade(sk *skills.Instance, options []rewards.UpgradeOption) int {
	for _, want := range []rewards.UpgradeKind{rewards.UpgradePower, rewards.UpgradeCooldown} {
		for i, opt := range options {
			if opt.Kind == want {
				return i
			}
		}
	}
	return 0
}

// RandomPolicy picks uniformly among offers and upgrade options.
type RandomPolicy struct {
	Rand *rand.Rand
}

// ChooseOffer picks a random offer.
func (p RandomPolicy) ChooseOffer(_ *combat.Unit, offers []rewards.Offer) int {
	if len(offers) == 0 {
		return -1
	}
	return p.Rand.Intn(len(offers))
}

// ChooseUpgrade picks a random option.
func (p RandomPolicy) ChooseUpgrade(_ *skills.Instance, options []rewards.UpgradeOption) int {
	if len(options) == 0 {
		return 0
	}
	return p.Rand.Intn(len(options))
}

// AutoplayConfig bounds an automated run.
type AutoplayConfig struct {
	FrameMs   float64 // Clock step per frame
	MaxFloors int     // Abandon after clearing this many floors; 0 means no cap
}

// Autoplay drives s to the end of the run with policy, stepping clock one
// frame at a time. It stops early when ctx is cancelled.
func Autoplay(ctx context.Context, s *Session, clock *gametime.ManualClock, policy Policy, cfg AutoplayConfig) (RunSummary, error) {
	frame := cfg.FrameMs
	if frame <= 0 {
		frame = gametime.DefaultFrameMs
	}

	for !s.Over() {
		if err := ctx.Err(); err != nil {
			s.Abandon()
			return s.Summary(), err
		}
		if cfg.MaxFloors > 0 && s.Floor() > cfg.MaxFloors {
			s.Abandon()
			break
		}

		if err := s.StartFloor(); err != nil {
			return s.Summary(), err
		}
		for s.Phase() == PhaseBattle {
			if _, err := s.Advance(clock.Advance(frame)); err != nil {
				return s.Summary(), err
			}
		}
		if s.Over() {
			break
		}

		if err := claimWithPolicy(s, policy); err != nil {
			return s.Summary(), err
		}
	}
	return s.Summary(), nil
}

func claimWithPolicy(s *Session, policy Policy) error {
	offers, err := s.GenerateRewardBatch()
	if err != nil {
		return err
	}

	for len(offers) > 0 {
		i := policy.ChooseOffer(s.Player(), offers)
		if i < 0 || i >= len(offers) {
			break
		}
		res, err := s.ClaimReward(offers[i])
		if err != nil {
			return err
		}
		if !res.Declined {
			if res.Upgrade == nil {
				return nil
			}
			sk, opts := s.PendingUpgrade()
			_, err := s.ResolveUpgradeChoice(sk, policy.ChooseUpgrade(sk, opts))
			if errors.Is(err, ErrInvalidOption) {
				_, err = s.ResolveUpgradeChoice(sk, 0)
			}
			return err
		}
		offers = append(offers[:i:i], offers[i+1:]...)
	}
	return s.SkipReward()
}
