package rewards

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/items"
	"github.com/lawnchairsociety/relictower/internal/skills"
)

// ErrInvalidOption is returned when an upgrade option index is out of range.
var ErrInvalidOption = errors.New("invalid upgrade option")

// ClaimResult reports what claiming an offer did to the unit.
type ClaimResult struct {
	Learned    *skills.Instance // New skill
	Upgrade    *skills.Instance // Owned skill waiting for an upgrade choice
	Item       *items.Template  // Owned copy of the claimed or reinforced item
	Reinforced bool
	Declined   bool // Skill capacity reached; nothing changed
	Message    string
}

// Claim applies an offer to u. Owned skills are not changed here: the result
// carries the instance so the caller can present its upgrade options.
func Claim(u *combat.Unit, o Offer, maxSkills int) ClaimResult {
	switch o.Kind {
	case KindSkill:
		return claimSkill(u, o.Skill, maxSkills)
	case KindRelic, KindCursed:
		return claimItem(u, o.Item)
	default:
		return ClaimResult{Declined: true, Message: "Nothing to claim."}
	}
}

func claimSkill(u *combat.Unit, tpl *skills.Template, maxSkills int) ClaimResult {
	if tpl == nil {
		return ClaimResult{Declined: true, Message: "Nothing to claim."}
	}
	if inst, ok := u.FindSkill(tpl.ID); ok {
		return ClaimResult{
			Upgrade: inst,
			Message: fmt.Sprintf("Choose an upgrade for %s.", inst.Name),
		}
	}
	if len(u.Skills) >= maxSkills {
		return ClaimResult{
			Declined: true,
			Message:  fmt.Sprintf("You cannot learn more than %d skills.", maxSkills),
		}
	}
	inst := u.Learn(tpl)
	return ClaimResult{
		Learned: inst,
		Message: fmt.Sprintf("Learned %s!", inst.Name),
	}
}

func claimItem(u *combat.Unit, tpl *items.Template) ClaimResult {
	if tpl == nil {
		return ClaimResult{Declined: true, Message: "Nothing to claim."}
	}

	owned := u.Relics
	if tpl.Kind == items.Cursed {
		owned = u.Cursed
	}
	if i := items.IndexOf(owned, tpl.ID); i >= 0 {
		existing := owned[i]
		if delta := existing.Reinforce(); delta != 0 {
			u.GrowMaxHp(delta)
		}
		return ClaimResult{
			Item:       existing,
			Reinforced: true,
			Message:    fmt.Sprintf("%s grows stronger!", existing.Name),
		}
	}

	it := u.Equip(tpl)
	return ClaimResult{
		Item:    it,
		Message: fmt.Sprintf("Obtained %s!", it.Name),
	}
}
