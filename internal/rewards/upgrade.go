package rewards

import (
	"fmt"
	"math"

	"github.com/lawnchairsociety/relictower/internal/skills"
)

// UpgradeKind identifies one way to improve an owned skill.
type UpgradeKind string

const (
	UpgradePower    UpgradeKind = "power"
	UpgradeCooldown UpgradeKind = "cooldown"
	UpgradeDelay    UpgradeKind = "delay"
	UpgradeEffect   UpgradeKind = "effect"
	UpgradeDuration UpgradeKind = "duration"
)

// UpgradeOption is one upgrade choice offered for a skill.
type UpgradeOption struct {
	Kind  UpgradeKind `json:"kind"`
	Label string      `json:"label"`
}

const (
	powerFactor    = 1.2
	cooldownFactor = 0.9
	delayStep      = 100.0
	effectStep     = 5.0
	durationStep   = 1000.0
)

// UpgradeOptions lists the upgrades that make sense for sk, in a stable order.
func UpgradeOptions(sk *skills.Instance) []UpgradeOption {
	var opts []UpgradeOption
	if sk.Power != 0 || sk.Amount != 0 || sk.EffectVal != 0 {
		opts = append(opts, UpgradeOption{Kind: UpgradePower, Label: "Power +20%"})
	}
	opts = append(opts, UpgradeOption{Kind: UpgradeCooldown, Label: "Cooldown -10%"})
	if sk.TotalDelay() > 0 {
		opts = append(opts, UpgradeOption{Kind: UpgradeDelay, Label: "Initial delay -0.1s"})
	}
	if sk.EffectVal > 0 {
		opts = append(opts, UpgradeOption{Kind: UpgradeEffect, Label: fmt.Sprintf("Effect +%.0f", effectStep)})
	}
	if sk.Duration > 0 {
		opts = append(opts, UpgradeOption{Kind: UpgradeDuration, Label: "Duration +1s"})
	}
	return opts
}

// ApplyUpgrade applies option index of UpgradeOptions(sk) and raises the skill level.
func ApplyUpgrade(sk *skills.Instance, index int) (UpgradeOption, error) {
	opts := UpgradeOptions(sk)
	if index < 0 || index >= len(opts) {
		return UpgradeOption{}, fmt.Errorf("option %d of %d: %w", index, len(opts), ErrInvalidOption)
	}

	opt := opts[index]
	switch opt.Kind {
	case UpgradePower:
		switch {
		case sk.Power != 0:
			sk.Power *= powerFactor
		case sk.Amount != 0:
			sk.Amount *= powerFactor
		default:
			sk.EffectVal *= powerFactor
		}
	case UpgradeCooldown:
		total := sk.TotalCooldown()
		target := math.Min(total, math.Max(skills.MinCooldown, total*cooldownFactor))
		sk.ExtraCd = target - sk.Cooldown
	case UpgradeDelay:
		sk.ExtraDelay -= math.Min(delayStep, sk.TotalDelay())
	case UpgradeEffect:
		sk.EffectVal += effectStep
	case UpgradeDuration:
		sk.Duration += durationStep
	}
	sk.Level++
	return opt, nil
}
