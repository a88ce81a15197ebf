package combat

import (
	"math"
	"testing"
)

func TestApplyDamage_ShieldAbsorption(t *testing.T) {
	tests := []struct {
		name       string
		hp, shield int
		dmg        int
		wantHp     int
		wantShield int
	}{
		{"no shield", 100, 0, 15, 85, 0},
		{"partial shield", 100, 5, 15, 90, 0},
		{"full absorb", 100, 20, 15, 100, 5},
		{"exact absorb", 100, 15, 15, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUnit("Hero", 100, 0, 0, 0)
			u.Hp = tt.hp
			u.Shield = tt.shield

			res := ApplyDamage(u, tt.dmg)

			if u.Hp != tt.wantHp {
				t.Errorf("hp = %d, want %d", u.Hp, tt.wantHp)
			}
			if u.Shield != tt.wantShield {
				t.Errorf("shield = %d, want %d", u.Shield, tt.wantShield)
			}
			if res.Absorbed+res.HpLoss != tt.dmg {
				t.Errorf("absorbed %d + hp loss %d != damage %d", res.Absorbed, res.HpLoss, tt.dmg)
			}
		})
	}
}

func TestApplyDirectDamage_BypassesShield(t *testing.T) {
	u := NewUnit("Hero", 100, 0, 0, 0)
	u.Shield = 50

	ApplyDirectDamage(u, 10)

	if u.Hp != 90 || u.Shield != 50 {
		t.Errorf("Expected 90 hp and shield 50, got %d hp and shield %d", u.Hp, u.Shield)
	}
}

func TestApplyDamage_LethalWithoutCheatDeath(t *testing.T) {
	u := NewUnit("Hero", 100, 0, 0, 0)
	u.Hp = 10

	res := ApplyDamage(u, 15)

	if res.CheatedDeath {
		t.Error("Expected no cheat death without an item")
	}
	if u.Hp != -5 {
		t.Errorf("hp = %d, want -5", u.Hp)
	}
	if u.DisplayHp() != 0 {
		t.Errorf("DisplayHp() = %d, want 0", u.DisplayHp())
	}
	if !u.IsDead() {
		t.Error("Expected unit to be dead")
	}
}

func TestApplyDamage_CheatDeathBreaksItems(t *testing.T) {
	u := NewUnit("Hero", 100, 0, 0, 0)
	u.Hp = 10
	u.Equip(relic("warrior_ring", ringStats(), noSpecial()))
	u.Equip(cursed("demon_muscle", ringStats(), demonMuscle()))
	u.Equip(sacrificePawn())
	u.ApplyEffect(&StatusEffect{Kind: EffectBuff, Stat: "atk", Value: 0.5, IsPercent: true, Duration: 5000, Source: "berserk"})

	res := ApplyDamage(u, 15)

	if !res.CheatedDeath || u.Hp != 1 {
		t.Fatalf("Expected cheat death at 1 hp, got %v at %d", res.CheatedDeath, u.Hp)
	}
	if len(u.Relics) != 0 || len(u.Cursed) != 0 {
		t.Errorf("Expected every item broken, got %d relics and %d cursed", len(u.Relics), len(u.Cursed))
	}
	// only permanent effects survive
	if len(u.Effects) != 1 || !u.Effects[0].Permanent {
		t.Errorf("Expected one permanent effect left, got %+v", u.Effects)
	}
}

func TestApplyDamage_CheatDeathRetriggers(t *testing.T) {
	u := NewUnit("Hero", 100, 0, 0, 0)
	u.Equip(cursed("undying", ringStats(), cheatDeathOnly()))

	for i := 0; i < 2; i++ {
		ApplyDamage(u, 500)
		if u.Hp != 1 {
			t.Fatalf("hit %d: hp = %d, want 1", i+1, u.Hp)
		}
	}
}

func TestApplyDamage_SingleUseCheatDeath(t *testing.T) {
	rules := DefaultRules()
	rules.SingleUseCheatDeath = true
	u := NewUnit("Hero", 100, 0, 0, 0)
	u.Equip(cursed("undying", ringStats(), cheatDeathOnly()))
	NewBattle(u, NewUnit("Slime", 10, 1, 0, 0), 0, rules)

	ApplyDamage(u, 500)
	if u.Hp != 1 {
		t.Fatalf("hp after first lethal hit = %d, want 1", u.Hp)
	}
	ApplyDamage(u, 500)
	if !u.IsDead() {
		t.Error("Expected second lethal hit to kill once cheat death is spent")
	}
}

func TestSafeValues(t *testing.T) {
	damage := []struct {
		in   float64
		want int
	}{
		{math.NaN(), 1},
		{math.Inf(1), 1},
		{7, 7},
	}
	for _, tt := range damage {
		if got := safeDamage(tt.in); got != tt.want {
			t.Errorf("safeDamage(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}

	heal := []struct {
		in   float64
		want int
	}{
		{math.NaN(), 0},
		{-3, 0},
		{12, 12},
	}
	for _, tt := range heal {
		if got := safeHeal(tt.in); got != tt.want {
			t.Errorf("safeHeal(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
