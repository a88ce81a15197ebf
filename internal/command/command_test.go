package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/lawnchairsociety/relictower/data"
	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/gametime"
	"github.com/lawnchairsociety/relictower/internal/help"
)

func newTestSession(t *testing.T) (*game.Session, *gametime.ManualClock) {
	t.Helper()
	cat, err := game.LoadCatalog(data.FS, game.DefaultCatalogFiles())
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	opts := game.DefaultOptions()
	opts.Seed = 42
	clock := gametime.NewManualClock(0)
	return game.NewSession(cat, clock, opts), clock
}

func run(t *testing.T, s *game.Session, input string) Result {
	t.Helper()
	res, err := ParseCommand(input).Execute(s)
	if err != nil {
		t.Fatalf("%q: unexpected error: %v", input, err)
	}
	return res
}

func fightOut(t *testing.T, s *game.Session, clock *gametime.ManualClock) combat.Outcome {
	t.Helper()
	for i := 0; i < 20000; i++ {
		out, err := s.Advance(clock.Advance(gametime.DefaultFrameMs))
		if err != nil {
			t.Fatalf("Advance() error = %v", err)
		}
		if out != combat.Ongoing {
			return out
		}
	}
	t.Fatal("battle did not end")
	return combat.Ongoing
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantArgs int
	}{
		{"start", "start", 0},
		{"  CLAIM 2 ", "claim", 1},
		{"log 5", "log", 1},
		{"", "", 0},
		{"   ", "", 0},
	}

	for _, tt := range tests {
		cmd := ParseCommand(tt.input)
		if cmd.Name != tt.wantName || len(cmd.Args) != tt.wantArgs {
			t.Errorf("ParseCommand(%q) = %q %v, want %q with %d args",
				tt.input, cmd.Name, cmd.Args, tt.wantName, tt.wantArgs)
		}
	}
}

func TestIntArg(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"claim 0", 0, false},
		{"claim 3", 3, false},
		{"claim", 0, true},
		{"claim x", 0, true},
		{"claim -1", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCommand(tt.input).IntArg(0, "usage")
		if (err != nil) != tt.wantErr {
			t.Errorf("IntArg(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("IntArg(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := ParseCommand("dance").Execute(s)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Execute(dance) error = %v, want ErrUnknownCommand", err)
	}
}

func TestExecute_Help(t *testing.T) {
	s, _ := newTestSession(t)
	res := run(t, s, "help")
	for _, want := range []string{"start", "claim <n>", "upgrade <n>", "quit"} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("help text missing %q", want)
		}
	}
}

func TestExecute_HelpTopic(t *testing.T) {
	if err := help.Initialize(data.FS, "help.yaml"); err != nil {
		t.Fatalf("help.Initialize() error = %v", err)
	}
	s, _ := newTestSession(t)

	if res := run(t, s, "help"); !strings.Contains(res.Text, "Topics: ") {
		t.Errorf("help should list topics, got %q", res.Text)
	}
	if res := run(t, s, "help cursed"); !strings.HasPrefix(res.Text, "RELICS") {
		t.Errorf("help cursed = %q, want the relics topic", res.Text)
	}
	if res := run(t, s, "? nothing"); !strings.Contains(res.Text, "No help available for 'nothing'") {
		t.Errorf("unknown topic = %q", res.Text)
	}
}

func TestExecute_Start(t *testing.T) {
	s, _ := newTestSession(t)

	res := run(t, s, "start")
	if !strings.HasPrefix(res.Text, "Floor 1: ") || !res.ShowState {
		t.Errorf("start = %+v", res)
	}
	if s.Phase() != game.PhaseBattle {
		t.Errorf("Phase() = %s, want battle", s.Phase())
	}

	_, err := ParseCommand("start").Execute(s)
	if !errors.Is(err, game.ErrBattleInProgress) {
		t.Errorf("second start error = %v, want ErrBattleInProgress", err)
	}
}

func TestExecute_RewardsBeforeVictory(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := ParseCommand("rewards").Execute(s)
	if !errors.Is(err, game.ErrNoRewards) {
		t.Errorf("rewards error = %v, want ErrNoRewards", err)
	}
}

func TestExecute_ClaimFlow(t *testing.T) {
	s, clock := newTestSession(t)
	run(t, s, "start")
	if out := fightOut(t, s, clock); out != combat.Victory {
		t.Fatalf("floor 1 outcome = %s, want victory", out)
	}

	res := run(t, s, "rewards")
	if !strings.Contains(res.Text, "0) ") {
		t.Errorf("rewards text = %q, want numbered offers", res.Text)
	}

	if _, err := ParseCommand("claim 99").Execute(s); !errors.Is(err, game.ErrInvalidOption) {
		t.Errorf("claim 99 error = %v, want ErrInvalidOption", err)
	}
	if _, err := ParseCommand("claim").Execute(s); err == nil {
		t.Error("claim without index should fail")
	}

	res = run(t, s, "claim 0")
	if s.Phase() == game.PhaseUpgrade {
		if !strings.Contains(res.Text, "Upgrade ") {
			t.Errorf("claim text = %q, want upgrade options", res.Text)
		}
		run(t, s, "upgrade 0")
	}

	if s.Phase() != game.PhaseIdle || s.Floor() != 2 {
		t.Errorf("after claim: phase %s floor %d, want idle floor 2", s.Phase(), s.Floor())
	}
}

func TestExecute_Skip(t *testing.T) {
	s, clock := newTestSession(t)
	run(t, s, "start")
	fightOut(t, s, clock)

	res := run(t, s, "skip")
	if !strings.Contains(res.Text, "Floor 2") {
		t.Errorf("skip text = %q", res.Text)
	}
	if _, err := ParseCommand("skip").Execute(s); !errors.Is(err, game.ErrNoRewards) {
		t.Errorf("second skip error = %v, want ErrNoRewards", err)
	}
}

func TestExecute_UpgradeWithoutPending(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := ParseCommand("upgrade 0").Execute(s)
	if !errors.Is(err, game.ErrNoPendingUpgrade) {
		t.Errorf("upgrade error = %v, want ErrNoPendingUpgrade", err)
	}
}

func TestExecute_StateAndLog(t *testing.T) {
	s, _ := newTestSession(t)

	if res := run(t, s, "log"); res.Text != "The log is empty." {
		t.Errorf("empty log = %q", res.Text)
	}

	run(t, s, "start")
	res := run(t, s, "status")
	if !res.ShowState || !strings.Contains(res.Text, "HP 100/100") || !strings.Contains(res.Text, "Slash Lv.1") {
		t.Errorf("status = %+v", res)
	}

	res = run(t, s, "log 1")
	if strings.Count(res.Text, "\n") != 0 || !strings.Contains(res.Text, "appears") {
		t.Errorf("log 1 = %q", res.Text)
	}
}

func TestExecute_AbandonNewQuit(t *testing.T) {
	s, _ := newTestSession(t)

	res := run(t, s, "abandon")
	if !s.Over() || !strings.HasPrefix(res.Text, "GAME OVER") {
		t.Errorf("abandon = %+v, over %v", res, s.Over())
	}
	if _, err := ParseCommand("start").Execute(s); !errors.Is(err, game.ErrGameOver) {
		t.Errorf("start after abandon error = %v, want ErrGameOver", err)
	}

	if res := run(t, s, "new"); !res.NewRun {
		t.Error("new should request a fresh run")
	}
	if res := run(t, s, "exit"); !res.Quit {
		t.Error("exit should quit")
	}
}

func TestExecute_Name(t *testing.T) {
	s, _ := newTestSession(t)

	res := run(t, s, "name")
	if res.Text != "You are Player." {
		t.Errorf("name without args = %q", res.Text)
	}
	if res.Rename != "" {
		t.Errorf("name without args should not rename, got %q", res.Rename)
	}

	res = run(t, s, "name Sir  Aria")
	if res.Rename != "Sir Aria" {
		t.Errorf("Rename = %q, want %q", res.Rename, "Sir Aria")
	}
	if s.Player().Name != "Player" {
		t.Error("the command should leave applying the name to the caller")
	}
}
