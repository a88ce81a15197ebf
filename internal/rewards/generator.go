package rewards

import (
	"math/rand"

	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/items"
	"github.com/lawnchairsociety/relictower/internal/skills"
)

const (
	// DefaultOfferCount is the number of offers in a reward batch.
	DefaultOfferCount = 6
	// DefaultMaxSkills is how many skills a unit can own.
	DefaultMaxSkills = 6

	// maxDrawsPerOffer bounds rejection sampling when the catalog cannot fill a batch.
	maxDrawsPerOffer = 100
)

// Weights are the draw probabilities of each offer kind. They need not sum to 1.
type Weights struct {
	Skill  float64
	Relic  float64
	Cursed float64
}

// DefaultWeights returns the standard 60/25/15 split.
func DefaultWeights() Weights {
	return Weights{Skill: 0.60, Relic: 0.25, Cursed: 0.15}
}

// Generator draws reward batches from the skill and item catalogs.
type Generator struct {
	skills *skills.Registry
	items  *items.Registry
	rng    *rand.Rand

	Weights    Weights
	OfferCount int
	MaxSkills  int
}

// NewGenerator creates a generator with the default batch rules.
func NewGenerator(sk *skills.Registry, it *items.Registry, rng *rand.Rand) *Generator {
	return &Generator{
		skills:     sk,
		items:      it,
		rng:        rng,
		Weights:    DefaultWeights(),
		OfferCount: DefaultOfferCount,
		MaxSkills:  DefaultMaxSkills,
	}
}

// Generate returns up to OfferCount offers for u, unique by kind and ID, with
// at most one relic and one cursed relic. Once u owns MaxSkills skills only
// upgrades of owned skills are offered.
func (g *Generator) Generate(u *combat.Unit) []Offer {
	offers := make([]Offer, 0, g.OfferCount)
	seen := make(map[string]bool)
	relics, cursed := 0, 0

	for draws := 0; len(offers) < g.OfferCount && draws < g.OfferCount*maxDrawsPerOffer; draws++ {
		o, ok := g.draw(u)
		if !ok || seen[o.key()] {
			continue
		}
		switch o.Kind {
		case KindRelic:
			if relics >= 1 {
				continue
			}
			relics++
		case KindCursed:
			if cursed >= 1 {
				continue
			}
			cursed++
		}
		seen[o.key()] = true
		offers = append(offers, o)
	}
	return offers
}

func (g *Generator) draw(u *combat.Unit) (Offer, bool) {
	w := g.Weights
	total := w.Skill + w.Relic + w.Cursed
	if total <= 0 {
		return Offer{}, false
	}

	r := g.rng.Float64() * total
	switch {
	case r < w.Skill:
		all := g.skills.All()
		if len(all) == 0 {
			return Offer{}, false
		}
		tpl := all[g.rng.Intn(len(all))]
		_, owned := u.FindSkill(tpl.ID)
		if !owned && len(u.Skills) >= g.MaxSkills {
			return Offer{}, false
		}
		return Offer{Kind: KindSkill, Skill: tpl, IsUpgrade: owned}, true
	case r < w.Skill+w.Relic:
		return pickItem(g.rng, g.items.Relics(), KindRelic)
	default:
		return pickItem(g.rng, g.items.CursedRelics(), KindCursed)
	}
}

func pickItem(rng *rand.Rand, list []*items.Template, kind Kind) (Offer, bool) {
	if len(list) == 0 {
		return Offer{}, false
	}
	return Offer{Kind: kind, Item: list[rng.Intn(len(list))]}, true
}
