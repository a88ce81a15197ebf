package rewards

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/lawnchairsociety/relictower/data"
	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/items"
	"github.com/lawnchairsociety/relictower/internal/skills"
)

func loadCatalogs(t *testing.T) (*skills.Registry, *items.Registry) {
	t.Helper()
	sk := skills.NewRegistry()
	if err := sk.LoadFromFS(data.FS, "skills.yaml"); err != nil {
		t.Fatalf("Failed to load skills: %v", err)
	}
	it := items.NewRegistry()
	if err := it.LoadFromFS(data.FS, "items.yaml"); err != nil {
		t.Fatalf("Failed to load items: %v", err)
	}
	return sk, it
}

func countKinds(offers []Offer) map[Kind]int {
	counts := make(map[Kind]int)
	for _, o := range offers {
		counts[o.Kind]++
	}
	return counts
}

func checkItemLimits(t *testing.T, seed int64, offers []Offer) {
	t.Helper()
	counts := countKinds(offers)
	if counts[KindRelic] > 1 || counts[KindCursed] > 1 {
		t.Errorf("seed %d: %d relics and %d cursed offered, want at most one each", seed, counts[KindRelic], counts[KindCursed])
	}
}

func TestGenerate_BatchConstraints(t *testing.T) {
	sk, it := loadCatalogs(t)
	g := NewGenerator(sk, it, rand.New(rand.NewSource(1)))

	for seed := int64(0); seed < 50; seed++ {
		g.rng = rand.New(rand.NewSource(seed))
		u := combat.NewUnit("Hero", 100, 10, 5, 5)
		slash, _ := sk.Get("slash")
		u.Learn(slash)

		offers := g.Generate(u)

		if len(offers) != DefaultOfferCount {
			t.Fatalf("seed %d: got %d offers, want %d", seed, len(offers), DefaultOfferCount)
		}
		checkItemLimits(t, seed, offers)

		seen := make(map[string]bool)
		for _, o := range offers {
			if seen[o.key()] {
				t.Errorf("seed %d: duplicate offer %s", seed, o.key())
			}
			seen[o.key()] = true
			if o.Kind == KindSkill && o.IsUpgrade != (o.ID() == "slash") {
				t.Errorf("seed %d: %s IsUpgrade = %v", seed, o.ID(), o.IsUpgrade)
			}
		}
	}
}

func TestGenerate_FullSkillsOnlyUpgrades(t *testing.T) {
	sk, it := loadCatalogs(t)
	u := combat.NewUnit("Hero", 100, 10, 5, 5)
	for _, id := range []string{"slash", "quick_stab", "heavy_slam", "parry", "heal", "ignite"} {
		tpl, ok := sk.Get(id)
		if !ok {
			t.Fatalf("Expected %s in the bundled catalog", id)
		}
		u.Learn(tpl)
	}

	for seed := int64(0); seed < 50; seed++ {
		g := NewGenerator(sk, it, rand.New(rand.NewSource(seed)))
		offers := g.Generate(u)

		if len(offers) > DefaultOfferCount {
			t.Errorf("seed %d: got %d offers, want at most %d", seed, len(offers), DefaultOfferCount)
		}
		checkItemLimits(t, seed, offers)
		for _, o := range offers {
			if o.Kind == KindSkill && !o.IsUpgrade {
				t.Errorf("seed %d: new skill %s offered at capacity", seed, o.ID())
			}
		}
	}
}

func TestGenerate_SmallCatalogReturnsWhatFits(t *testing.T) {
	sk := skills.NewRegistry()
	err := sk.Load(&skills.SkillsConfig{Skills: []skills.SkillDefinition{{ID: "slash", Type: "attack", Power: 1}}})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	g := NewGenerator(sk, items.NewRegistry(), rand.New(rand.NewSource(3)))

	offers := g.Generate(combat.NewUnit("Hero", 100, 10, 5, 5))

	if len(offers) != 1 || offers[0].ID() != "slash" {
		t.Errorf("Expected a single slash offer, got %+v", offers)
	}
}

func TestClaim_NewSkill(t *testing.T) {
	sk, _ := loadCatalogs(t)
	tpl, _ := sk.Get("parry")
	u := combat.NewUnit("Hero", 100, 10, 5, 5)

	res := Claim(u, Offer{Kind: KindSkill, Skill: tpl}, DefaultMaxSkills)

	if res.Learned == nil {
		t.Fatal("Expected parry to be learned")
	}
	if res.Learned.Level != 1 || res.Learned.ExtraCd != 0 || res.Learned.ExtraDelay != 0 {
		t.Errorf("Expected a fresh level 1 instance, got %+v", res.Learned)
	}
	if len(u.Skills) != 1 {
		t.Errorf("Expected 1 skill, got %d", len(u.Skills))
	}
}

func TestClaim_SkillAtCapacityDeclined(t *testing.T) {
	sk, _ := loadCatalogs(t)
	u := combat.NewUnit("Hero", 100, 10, 5, 5)
	for _, tpl := range sk.All()[:DefaultMaxSkills] {
		u.Learn(tpl)
	}
	extra := sk.All()[DefaultMaxSkills]

	res := Claim(u, Offer{Kind: KindSkill, Skill: extra}, DefaultMaxSkills)

	if !res.Declined || res.Message == "" {
		t.Errorf("Expected a declined claim with a message, got %+v", res)
	}
	if len(u.Skills) != DefaultMaxSkills {
		t.Errorf("Expected %d skills, got %d", DefaultMaxSkills, len(u.Skills))
	}
}

func TestClaim_OwnedSkillOpensUpgrade(t *testing.T) {
	sk, _ := loadCatalogs(t)
	tpl, _ := sk.Get("slash")
	u := combat.NewUnit("Hero", 100, 10, 5, 5)
	owned := u.Learn(tpl)

	res := Claim(u, Offer{Kind: KindSkill, Skill: tpl, IsUpgrade: true}, DefaultMaxSkills)

	if res.Upgrade != owned {
		t.Errorf("Expected the owned instance to be opened for upgrade, got %p want %p", res.Upgrade, owned)
	}
	if owned.Level != 1 {
		t.Errorf("Expected level unchanged until an option is chosen, got %d", owned.Level)
	}
}

func TestClaim_ItemAcquisition(t *testing.T) {
	_, it := loadCatalogs(t)
	u := combat.NewUnit("Hero", 100, 10, 5, 5)
	u.Hp = 60

	cloak, _ := it.Get("hero_cloak")
	res := Claim(u, Offer{Kind: KindRelic, Item: cloak}, DefaultMaxSkills)
	if res.Item == nil || res.Item == cloak {
		t.Fatalf("Expected a copy of the catalog item, got %p (catalog %p)", res.Item, cloak)
	}
	if u.MaxHp != 180 || u.Hp != 140 {
		t.Errorf("Expected 140/180 hp after cloak, got %d/%d", u.Hp, u.MaxHp)
	}

	glass, _ := it.Get("glass_cannon")
	Claim(u, Offer{Kind: KindCursed, Item: glass}, DefaultMaxSkills)
	if u.MaxHp != 72 || u.Hp != 72 {
		t.Errorf("Expected 72/72 hp after glass cannon, got %d/%d", u.Hp, u.MaxHp)
	}

	muscle, _ := it.Get("demon_muscle")
	Claim(u, Offer{Kind: KindCursed, Item: muscle}, DefaultMaxSkills)
	e, ok := u.FindEffect("demon_muscle", combat.EffectCurse)
	if !ok {
		t.Fatal("Expected demon_muscle curse effect")
	}
	if !e.Permanent || e.Value != 4 {
		t.Errorf("Expected permanent curse of 4, got %+v", e)
	}
}

func TestClaim_DuplicateRelicReinforces(t *testing.T) {
	_, it := loadCatalogs(t)
	u := combat.NewUnit("Hero", 100, 10, 5, 5)
	shell, _ := it.Get("turtle_shell")

	Claim(u, Offer{Kind: KindRelic, Item: shell}, DefaultMaxSkills)
	res := Claim(u, Offer{Kind: KindRelic, Item: shell}, DefaultMaxSkills)

	if !res.Reinforced {
		t.Error("Expected the second claim to reinforce")
	}
	if len(u.Relics) != 1 {
		t.Fatalf("Expected 1 relic, got %d", len(u.Relics))
	}
	if got := u.Relics[0].Stats; got.Def != 18 || got.MaxHp != 30 {
		t.Errorf("Expected reinforced def 18 and maxHp 30, got %+v", got)
	}
	if u.MaxHp != 130 {
		t.Errorf("maxHp = %d, want 130", u.MaxHp)
	}
	if shell.Stats.Def != 12 {
		t.Errorf("Expected catalog entry untouched, def = %d", shell.Stats.Def)
	}
}

func TestUpgradeOptions(t *testing.T) {
	tests := []struct {
		name string
		tpl  skills.Template
		want []UpgradeKind
	}{
		{
			"quick stab",
			skills.Template{Type: skills.TypeAttack, Power: 0.6, Cooldown: 1000},
			[]UpgradeKind{UpgradePower, UpgradeCooldown},
		},
		{
			"slash",
			skills.Template{Type: skills.TypeAttack, Power: 1, Cooldown: 2000, InitialDelay: 500},
			[]UpgradeKind{UpgradePower, UpgradeCooldown, UpgradeDelay},
		},
		{
			"poison blade",
			skills.Template{Type: skills.TypeDot, Power: 0.5, EffectVal: 5, Duration: 5000, Cooldown: 4000, InitialDelay: 500},
			[]UpgradeKind{UpgradePower, UpgradeCooldown, UpgradeDelay, UpgradeEffect, UpgradeDuration},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := UpgradeOptions(tt.tpl.Instantiate())
			var kinds []UpgradeKind
			for _, o := range opts {
				kinds = append(kinds, o.Kind)
			}
			if !reflect.DeepEqual(kinds, tt.want) {
				t.Errorf("UpgradeOptions() kinds = %v, want %v", kinds, tt.want)
			}
		})
	}
}

func TestApplyUpgrade(t *testing.T) {
	slash := &skills.Template{ID: "slash", Type: skills.TypeAttack, Power: 1, Cooldown: 2000, InitialDelay: 50}

	sk := slash.Instantiate()
	if _, err := ApplyUpgrade(sk, 0); err != nil {
		t.Fatalf("ApplyUpgrade(power) failed: %v", err)
	}
	if math.Abs(sk.Power-1.2) > 1e-9 || sk.Level != 2 {
		t.Errorf("Expected power 1.2 at level 2, got %v at %d", sk.Power, sk.Level)
	}

	if _, err := ApplyUpgrade(sk, 1); err != nil {
		t.Fatalf("ApplyUpgrade(cooldown) failed: %v", err)
	}
	if math.Abs(sk.TotalCooldown()-1800) > 1e-9 || sk.Level != 3 {
		t.Errorf("Expected cooldown 1800 at level 3, got %v at %d", sk.TotalCooldown(), sk.Level)
	}

	if _, err := ApplyUpgrade(sk, 2); err != nil {
		t.Fatalf("ApplyUpgrade(delay) failed: %v", err)
	}
	if sk.TotalDelay() != 0 {
		t.Errorf("Expected delay never to go negative, got %v", sk.TotalDelay())
	}
	if sk.Level != 4 {
		t.Errorf("level = %d, want 4", sk.Level)
	}

	if slash.Power != 1 {
		t.Errorf("Expected template untouched, power = %v", slash.Power)
	}
}

func TestApplyUpgrade_CooldownFloor(t *testing.T) {
	sk := (&skills.Template{Type: skills.TypeAttack, Power: 1, Cooldown: 520}).Instantiate()

	if _, err := ApplyUpgrade(sk, 1); err != nil {
		t.Fatalf("ApplyUpgrade failed: %v", err)
	}

	if sk.TotalCooldown() != skills.MinCooldown {
		t.Errorf("TotalCooldown() = %v, want %v", sk.TotalCooldown(), skills.MinCooldown)
	}
}

func TestApplyUpgrade_PowerFallsBackToAmount(t *testing.T) {
	timeStop := (&skills.Template{Type: skills.TypeDebuff, Stat: "cd", Amount: 5000, Duration: 1, Cooldown: 20000}).Instantiate()

	if _, err := ApplyUpgrade(timeStop, 0); err != nil {
		t.Fatalf("ApplyUpgrade failed: %v", err)
	}

	if math.Abs(timeStop.Amount-6000) > 1e-9 {
		t.Errorf("Amount = %v, want 6000", timeStop.Amount)
	}
}

func TestApplyUpgrade_InvalidOption(t *testing.T) {
	sk := (&skills.Template{Type: skills.TypeAttack, Power: 1, Cooldown: 1000}).Instantiate()

	for _, i := range []int{7, -1} {
		if _, err := ApplyUpgrade(sk, i); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("ApplyUpgrade(%d) error = %v, want ErrInvalidOption", i, err)
		}
	}
	if sk.Level != 1 {
		t.Errorf("Expected level unchanged, got %d", sk.Level)
	}
}
