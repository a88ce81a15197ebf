package tower

import (
	"testing"

	"github.com/lawnchairsociety/relictower/data"
	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/items"
	"github.com/lawnchairsociety/relictower/internal/skills"
)

func createTestSpawner(t *testing.T) *EnemySpawner {
	t.Helper()

	sk := skills.NewRegistry()
	if err := sk.LoadFromFS(data.FS, "skills.yaml"); err != nil {
		t.Fatalf("Failed to load skills: %v", err)
	}
	it := items.NewRegistry()
	if err := it.LoadFromFS(data.FS, "items.yaml"); err != nil {
		t.Fatalf("Failed to load items: %v", err)
	}

	sup := 0
	roster, err := NewRoster([]EnemyDefinition{
		{Name: "Slime", Hp: 15, Atk: 8, Def: 2, Skills: []string{"slash"}},
		{Name: "Poison Wasp", Hp: 45, Atk: 12, Def: 0, Skills: []string{"poison_blade", "quick_stab"}},
		{Name: "Shell Beetle", Hp: 80, Atk: 6, Def: 8, Skills: []string{"harden", "no_such_skill"}},
		{Name: "Orc", Hp: 150, Atk: 15, Def: 5, Sup: &sup, Skills: []string{"heavy_slam"}, Relics: []string{"turtle_shell"}},
		{Name: "Assassin", Hp: 100, Atk: 20, Def: 2, Skills: []string{"quick_stab"}, CursedRelics: []string{"glass_cannon"}},
	})
	if err != nil {
		t.Fatalf("Failed to build roster: %v", err)
	}
	return NewEnemySpawner(roster, sk, it)
}

func TestSpawn_FirstFloor(t *testing.T) {
	s := createTestSpawner(t)

	u := s.Spawn(1)

	if u.Name != "Slime" {
		t.Errorf("Expected Slime on floor 1, got %s", u.Name)
	}
	if u.MaxHp != 15 || u.Hp != 15 {
		t.Errorf("Expected 15/15 HP, got %d/%d", u.Hp, u.MaxHp)
	}
	if u.Sup != DefaultEnemySup {
		t.Errorf("Expected default sup %d, got %d", DefaultEnemySup, u.Sup)
	}
	if len(u.Skills) != 1 || u.Skills[0].ID != "slash" {
		t.Errorf("Expected [slash], got %v", u.Skills)
	}
}

func TestSpawn_Floor9Scaling(t *testing.T) {
	s := createTestSpawner(t)

	// Floor 9 wants index 4, the last entry here
	u := s.Spawn(9)

	if u.Name != "Assassin" {
		t.Fatalf("Expected Assassin on floor 9, got %s", u.Name)
	}
	if u.Atk != 32 {
		t.Errorf("Expected atk floor(20*1.64)=32, got %d", u.Atk)
	}
	if u.Def != 3 {
		t.Errorf("Expected def floor(2*1.64)=3, got %d", u.Def)
	}
	if u.Sup != 8 {
		t.Errorf("Expected sup floor(5*1.64)=8, got %d", u.Sup)
	}
	// floor(100*1.64) = 164, then glass cannon keeps 40%
	if u.MaxHp != 65 || u.Hp != 65 {
		t.Errorf("Expected 65/65 HP, got %d/%d", u.Hp, u.MaxHp)
	}
	if len(u.Cursed) != 1 {
		t.Errorf("Expected 1 cursed relic, got %d", len(u.Cursed))
	}
}

func TestSpawn_SkipsUnknownSkills(t *testing.T) {
	s := createTestSpawner(t)

	u := s.Spawn(5)

	if len(u.Skills) != 1 || u.Skills[0].ID != "harden" {
		t.Errorf("Expected only harden, got %d skills", len(u.Skills))
	}
}

func TestSpawn_ExplicitSupAndRelics(t *testing.T) {
	s := createTestSpawner(t)

	u := s.Spawn(7)

	if u.Sup != 0 {
		t.Errorf("Expected explicit sup 0, got %d", u.Sup)
	}
	// floor(150*1.48) = 222, plus turtle shell's 20
	if u.MaxHp != 242 || u.Hp != 242 {
		t.Errorf("Expected 242/242 HP, got %d/%d", u.Hp, u.MaxHp)
	}
	if def := combat.CurrentStats(u).Def; def != 19 {
		t.Errorf("Expected live def floor(5*1.48)+12=19, got %d", def)
	}
}

func TestSpawn_FreshInstances(t *testing.T) {
	s := createTestSpawner(t)

	a := s.Spawn(1)
	b := s.Spawn(1)
	a.Skills[0].Power = 9

	if b.Skills[0].Power == 9 {
		t.Error("Spawned enemies share skill instances")
	}
	tpl, _ := s.skills.Get("slash")
	if tpl.Power == 9 {
		t.Error("Spawned enemy shares the catalog template")
	}
}

func TestLoadRosterFromFS_Defaults(t *testing.T) {
	r, err := LoadRosterFromFS(data.FS, "enemies.yaml")
	if err != nil {
		t.Fatalf("LoadRosterFromFS failed: %v", err)
	}
	if r.Len() != 16 {
		t.Errorf("Expected 16 enemies, got %d", r.Len())
	}
	if r.ForFloor(1).Name != "Slime" {
		t.Errorf("Expected Slime first, got %s", r.ForFloor(1).Name)
	}
	if r.ForFloor(1).BaseSup() != DefaultEnemySup {
		t.Errorf("Expected default sup, got %d", r.ForFloor(1).BaseSup())
	}
}

func TestNewRoster_Errors(t *testing.T) {
	if _, err := NewRoster(nil); err == nil {
		t.Error("Expected error for empty roster")
	}
	if _, err := NewRoster([]EnemyDefinition{{Hp: 10}}); err == nil {
		t.Error("Expected error for unnamed enemy")
	}
}

func TestLoadRosterFromYAML_MissingFile(t *testing.T) {
	if _, err := LoadRosterFromYAML("nonexistent.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
