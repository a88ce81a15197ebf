package command

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/rewards"
	"github.com/lawnchairsociety/relictower/internal/skills"
)

func (c *Command) executeStart(s *game.Session) (Result, error) {
	if err := s.StartFloor(); err != nil {
		return Result{}, err
	}
	return Result{
		Text:      fmt.Sprintf("Floor %d: %s appears!", s.Floor(), s.Enemy().Name),
		ShowState: true,
	}, nil
}

func (c *Command) executeRewards(s *game.Session) (Result, error) {
	if s.Phase() == game.PhaseUpgrade {
		sk, opts := s.PendingUpgrade()
		return Result{Text: formatUpgrade(sk, opts)}, nil
	}
	offers, err := s.GenerateRewardBatch()
	if err != nil {
		return Result{}, err
	}
	return Result{Text: formatOffers(offers), ShowState: true}, nil
}

func (c *Command) executeClaim(s *game.Session) (Result, error) {
	n, err := c.IntArg(0, "Usage: claim <n>")
	if err != nil {
		return Result{}, err
	}
	res, err := s.ClaimOffer(n)
	if err != nil {
		return Result{}, err
	}

	text := res.Message
	if res.Upgrade != nil {
		sk, opts := s.PendingUpgrade()
		text += "\n" + formatUpgrade(sk, opts)
	}
	return Result{Text: text, ShowState: true}, nil
}

func (c *Command) executeUpgrade(s *game.Session) (Result, error) {
	n, err := c.IntArg(0, "Usage: upgrade <n>")
	if err != nil {
		return Result{}, err
	}
	opt, err := s.ChooseUpgrade(n)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: "Upgraded: " + opt.Label, ShowState: true}, nil
}

func (c *Command) executeSkip(s *game.Session) (Result, error) {
	if err := s.SkipReward(); err != nil {
		return Result{}, err
	}
	return Result{Text: fmt.Sprintf("Rewards skipped. Floor %d awaits.", s.Floor()), ShowState: true}, nil
}

func formatOffers(offers []rewards.Offer) string {
	if len(offers) == 0 {
		return "Nothing to claim. Use 'skip' to continue."
	}
	var b strings.Builder
	b.WriteString("Choose a reward:")
	for i, o := range offers {
		fmt.Fprintf(&b, "\n  %d) %s", i, o)
		if d := o.Description(); d != "" {
			b.WriteString(" - " + d)
		}
	}
	return b.String()
}

func formatUpgrade(sk *skills.Instance, opts []rewards.UpgradeOption) string {
	if sk == nil {
		return "No upgrade pending."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Upgrade %s (Lv.%d):", sk.Name, sk.Level)
	for i, opt := range opts {
		fmt.Fprintf(&b, "\n  %d) %s", i, opt.Label)
	}
	return b.String()
}
