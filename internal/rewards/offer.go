// Package rewards generates post-battle reward offers and applies the chosen ones.
package rewards

import (
	"fmt"

	"github.com/lawnchairsociety/relictower/internal/items"
	"github.com/lawnchairsociety/relictower/internal/skills"
)

// Kind is the category of a reward offer.
type Kind string

const (
	KindSkill  Kind = "skill"
	KindRelic  Kind = "relic"
	KindCursed Kind = "cursed"
)

// Offer is one reward choice. Exactly one of Skill and Item is set.
type Offer struct {
	Kind      Kind
	Skill     *skills.Template
	Item      *items.Template
	IsUpgrade bool // Skill offers only: the unit already owns this skill
}

// ID returns the catalog ID of the offered skill or item.
func (o Offer) ID() string {
	if o.Skill != nil {
		return o.Skill.ID
	}
	if o.Item != nil {
		return o.Item.ID
	}
	return ""
}

// Name returns the display name of the offered skill or item.
func (o Offer) Name() string {
	if o.Skill != nil {
		return o.Skill.Name
	}
	if o.Item != nil {
		return o.Item.Name
	}
	return ""
}

// Description returns the catalog description of the offer.
func (o Offer) Description() string {
	if o.Skill != nil {
		return o.Skill.Description
	}
	if o.Item != nil {
		return o.Item.Description
	}
	return ""
}

func (o Offer) key() string {
	return string(o.Kind) + ":" + o.ID()
}

// String returns a one-line label for menus and logs
func (o Offer) String() string {
	label := fmt.Sprintf("[%s] %s", o.Kind, o.Name())
	if o.IsUpgrade {
		label += " (upgrade)"
	}
	return label
}
