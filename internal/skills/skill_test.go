package skills

import "testing"

func TestInstantiate_DeepCopy(t *testing.T) {
	tpl := &Template{
		ID:         "break_armor",
		Type:       TypeAttack,
		Power:      0.8,
		Cooldown:   5000,
		Debuff:     &StatMod{Stat: StatDef, Amount: -5, Duration: 5000},
		SelfDebuff: &StatMod{Stat: StatDef, Amount: -0.5},
	}

	a := tpl.Instantiate()
	b := tpl.Instantiate()

	if a.Level != 1 {
		t.Errorf("Instantiate().Level = %d, want 1", a.Level)
	}
	if a.ExtraCd != 0 || a.ExtraDelay != 0 {
		t.Errorf("Instantiate() extra cd/delay = %v/%v, want 0/0", a.ExtraCd, a.ExtraDelay)
	}

	a.Power = 2
	a.Debuff.Amount = -50
	a.SelfDebuff.Amount = -1

	if tpl.Power != 0.8 {
		t.Errorf("template power changed to %v after instance upgrade", tpl.Power)
	}
	if tpl.Debuff.Amount != -5 {
		t.Errorf("template debuff changed to %v after instance upgrade", tpl.Debuff.Amount)
	}
	if tpl.SelfDebuff.Amount != -0.5 {
		t.Errorf("template self debuff changed to %v", tpl.SelfDebuff.Amount)
	}
	if b.Power != 0.8 || b.Debuff.Amount != -5 {
		t.Error("second instance shares state with the first")
	}
}

func TestInstance_Clone(t *testing.T) {
	tpl := &Template{ID: "x", Debuff: &StatMod{Stat: StatDef, Amount: -5}}
	a := tpl.Instantiate()
	a.Level = 3
	c := a.Clone()
	c.Debuff.Amount = 0

	if c.Level != 3 {
		t.Errorf("Clone().Level = %d, want 3", c.Level)
	}
	if a.Debuff.Amount != -5 {
		t.Error("Clone shares nested debuff with original")
	}
}

func TestInstance_PowerMultiplier(t *testing.T) {
	tests := []struct {
		power float64
		level int
		want  float64
	}{
		{1.0, 1, 1.0},
		{1.0, 2, 1.1},
		{2.5, 4, 2.8},
	}

	for _, tt := range tests {
		inst := &Instance{Template: Template{Power: tt.power}, Level: tt.level}
		got := inst.PowerMultiplier()
		if got < tt.want-1e-9 || got > tt.want+1e-9 {
			t.Errorf("PowerMultiplier(power=%v, level=%d) = %v, want %v", tt.power, tt.level, got, tt.want)
		}
	}
}

func TestInstance_Totals(t *testing.T) {
	inst := &Instance{
		Template:   Template{Cooldown: 2000, InitialDelay: 500},
		ExtraCd:    300,
		ExtraDelay: 100,
	}
	if got := inst.TotalCooldown(); got != 2300 {
		t.Errorf("TotalCooldown() = %v, want 2300", got)
	}
	if got := inst.TotalDelay(); got != 600 {
		t.Errorf("TotalDelay() = %v, want 600", got)
	}
}

func TestTemplate_DealsDamage(t *testing.T) {
	tests := []struct {
		name string
		tpl  Template
		want bool
	}{
		{"attack", Template{Type: TypeAttack, Power: 1}, true},
		{"dot with hit", Template{Type: TypeDot, Power: 0.5}, true},
		{"dot without hit", Template{Type: TypeDot}, false},
		{"shield", Template{Type: TypeShield, Power: 15}, false},
		{"heal", Template{Type: TypeHeal, Power: 20}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tpl.DealsDamage(); got != tt.want {
				t.Errorf("DealsDamage() = %v, want %v", got, tt.want)
			}
		})
	}
}
