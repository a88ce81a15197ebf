package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/gametime"
	"github.com/lawnchairsociety/relictower/internal/logger"
	"github.com/lawnchairsociety/relictower/internal/rewards"
	"github.com/lawnchairsociety/relictower/internal/skills"
	"github.com/lawnchairsociety/relictower/internal/tower"
)

// Phase is where a session is in the floor cycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"      // Waiting for the next floor to start
	PhaseBattle   Phase = "battle"    // Battle in progress
	PhaseRewards  Phase = "rewards"   // Floor won, waiting for a reward claim
	PhaseUpgrade  Phase = "upgrade"   // Owned skill claimed, waiting for an upgrade choice
	PhaseGameOver Phase = "game_over" // Run finished
)

// Run outcomes.
const (
	OutcomeDefeat    = "defeat"
	OutcomeAbandoned = "abandoned"
)

// Victory bonus applied to the player after every won floor.
const (
	VictoryMaxHp = 5
	VictoryAtk   = 2
	VictorySup   = 1
	VictoryDef   = 1
)

// MaxLogLines is how many battle log lines a session keeps.
const MaxLogLines = 50

// floorEpsilon keeps fractions like 1-0.8 from flooring one point low.
const floorEpsilon = 1e-9

var (
	ErrNotInBattle      = errors.New("no battle in progress")
	ErrBattleInProgress = errors.New("battle already in progress")
	ErrNoRewards        = errors.New("no rewards to claim")
	ErrRewardPending    = errors.New("reward not claimed yet")
	ErrUnknownOffer     = errors.New("offer is not part of the current batch")
	ErrNoPendingUpgrade = errors.New("no upgrade pending for that skill")
	ErrGameOver         = errors.New("run is over")
	ErrRunStarted       = errors.New("the climb has already begun")
	ErrInvalidOption    = rewards.ErrInvalidOption
)

// PlayerTemplate holds the starting state of a run's player.
type PlayerTemplate struct {
	Name          string
	MaxHp         int
	Atk           int
	Def           int
	Sup           int
	StarterSkills []string // Empty uses the catalog's starter skills
}

// Options configures a session.
type Options struct {
	Rules        combat.Rules
	MaxSkills    int
	RewardOffers int
	Player       PlayerTemplate
	Seed         int64 // 0 seeds from the wall clock
}

// DefaultOptions returns the standard run settings.
func DefaultOptions() Options {
	return Options{
		Rules:        combat.DefaultRules(),
		MaxSkills:    rewards.DefaultMaxSkills,
		RewardOffers: rewards.DefaultOfferCount,
		Player: PlayerTemplate{
			Name:  "Player",
			MaxHp: 100,
			Atk:   10,
			Def:   5,
			Sup:   5,
		},
	}
}

// FloorRecord is the result of one fought floor.
type FloorRecord struct {
	Floor      int            `json:"floor"`
	Enemy      string         `json:"enemy"`
	Outcome    combat.Outcome `json:"outcome"`
	DurationMs float64        `json:"duration_ms"`
	PlayerHp   int            `json:"player_hp"`
}

// Session is one player's run up the tower. A session is not safe for
// concurrent use; the caller owns it from a single goroutine.
type Session struct {
	ID string

	catalog   *Catalog
	opts      Options
	clock     gametime.Clock
	rng       *rand.Rand
	spawner   *tower.EnemySpawner
	generator *rewards.Generator

	player  *combat.Unit
	enemy   *combat.Unit
	battle  *combat.Battle
	floor   int
	phase   Phase
	offers  []rewards.Offer
	pending *skills.Instance

	log       []string
	history   []FloorRecord
	startedAt time.Time
	endedAt   time.Time
	outcome   string
}

// NewSession creates a run at floor 1 with the configured starting player.
func NewSession(cat *Catalog, clock gametime.Clock, opts Options) *Session {
	if clock == nil {
		clock = gametime.NewRealClock()
	}
	if opts.MaxSkills <= 0 {
		opts.MaxSkills = rewards.DefaultMaxSkills
	}
	if opts.RewardOffers <= 0 {
		opts.RewardOffers = rewards.DefaultOfferCount
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	gen := rewards.NewGenerator(cat.Skills, cat.Items, rng)
	gen.OfferCount = opts.RewardOffers
	gen.MaxSkills = opts.MaxSkills

	s := &Session{
		ID:        uuid.NewString(),
		catalog:   cat,
		opts:      opts,
		clock:     clock,
		rng:       rng,
		spawner:   tower.NewEnemySpawner(cat.Roster, cat.Skills, cat.Items),
		generator: gen,
		floor:     1,
		phase:     PhaseIdle,
		startedAt: time.Now(),
	}
	s.player = s.newPlayer()
	return s
}

func (s *Session) newPlayer() *combat.Unit {
	p := s.opts.Player
	name := p.Name
	if name == "" {
		name = "Player"
	}
	u := combat.NewUnit(name, max(1, p.MaxHp), p.Atk, p.Def, p.Sup)

	starters := p.StarterSkills
	if len(starters) == 0 {
		starters = s.catalog.Skills.StarterSkills()
	}
	for _, id := range starters {
		tpl, ok := s.catalog.Skills.Get(id)
		if !ok {
			logger.Warning("Unknown starter skill", "skill", id)
			continue
		}
		if len(u.Skills) < s.opts.MaxSkills {
			u.Learn(tpl)
		}
	}
	return u
}

// Floor returns the current floor number, starting at 1.
func (s *Session) Floor() int { return s.floor }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Player returns the player's unit.
func (s *Session) Player() *combat.Unit { return s.player }

// Enemy returns the current or last enemy, or nil before the first floor.
func (s *Session) Enemy() *combat.Unit { return s.enemy }

// Battle returns the current or last battle, or nil before the first floor.
func (s *Session) Battle() *combat.Battle { return s.battle }

// Log returns a copy of the most recent log lines, oldest first.
func (s *Session) Log() []string {
	return append([]string(nil), s.log...)
}

// History returns the fought floors in order.
func (s *Session) History() []FloorRecord {
	return append([]FloorRecord(nil), s.history...)
}

// Offers returns the current reward batch, if any.
func (s *Session) Offers() []rewards.Offer {
	return append([]rewards.Offer(nil), s.offers...)
}

// PendingUpgrade returns the skill waiting for an upgrade choice and its options.
func (s *Session) PendingUpgrade() (*skills.Instance, []rewards.UpgradeOption) {
	if s.phase != PhaseUpgrade || s.pending == nil {
		return nil, nil
	}
	return s.pending, rewards.UpgradeOptions(s.pending)
}

// Rename changes the player's name. Names are fixed once the first floor
// has been started.
func (s *Session) Rename(name string) error {
	if s.phase != PhaseIdle || s.floor != 1 || s.battle != nil {
		return ErrRunStarted
	}
	s.player.Name = name
	s.opts.Player.Name = name
	return nil
}

// Over returns true once the run has ended.
func (s *Session) Over() bool { return s.phase == PhaseGameOver }

// StartFloor spawns the floor's enemy, resets the player's per-battle state
// and starts the battle clock.
func (s *Session) StartFloor() error {
	switch s.phase {
	case PhaseBattle:
		return ErrBattleInProgress
	case PhaseGameOver:
		return ErrGameOver
	case PhaseRewards, PhaseUpgrade:
		return fmt.Errorf("floor %d: %w", s.floor, ErrRewardPending)
	}

	s.enemy = s.spawner.Spawn(s.floor)

	s.player.ResetTransient()
	s.player.Hp = s.player.MaxHp
	if reduc := s.player.Special().MaxHpReduc; reduc > 0 {
		s.player.Hp = max(1, int(math.Floor(float64(s.player.MaxHp)*(1-reduc)+floorEpsilon)))
	}

	s.battle = combat.NewBattle(s.player, s.enemy, s.clock.Now(), s.opts.Rules)
	s.battle.SetRand(s.rng)
	s.battle.OnEvent(s.onBattleEvent)
	s.phase = PhaseBattle

	s.appendLog(fmt.Sprintf("Floor %d: %s appears!", s.floor, s.enemy.Name))
	logger.Debug("Floor started", "session", s.ID, "floor", s.floor, "enemy", s.enemy.Name)
	return nil
}

// Advance steps the battle to timestamp ts (milliseconds on the session clock).
func (s *Session) Advance(ts float64) (combat.Outcome, error) {
	if s.phase != PhaseBattle || s.battle == nil {
		return combat.Ongoing, ErrNotInBattle
	}

	outcome := s.battle.Advance(ts)
	switch outcome {
	case combat.Victory:
		s.recordFloor(outcome)
		s.applyVictoryBonus()
		s.appendLog(fmt.Sprintf("%s is defeated!", s.enemy.Name))
		s.phase = PhaseRewards
		s.offers = nil
	case combat.Defeat:
		s.recordFloor(outcome)
		s.appendLog(fmt.Sprintf("%s falls on floor %d.", s.player.Name, s.floor))
		s.finish(OutcomeDefeat)
	}
	return outcome, nil
}

// Step advances the battle to the session clock's current time.
func (s *Session) Step() (combat.Outcome, error) {
	return s.Advance(s.clock.Now())
}

func (s *Session) applyVictoryBonus() {
	s.player.MaxHp += VictoryMaxHp
	s.player.Atk += VictoryAtk
	s.player.Sup += VictorySup
	s.player.Def += VictoryDef
}

func (s *Session) recordFloor(outcome combat.Outcome) {
	s.history = append(s.history, FloorRecord{
		Floor:      s.floor,
		Enemy:      s.enemy.Name,
		Outcome:    outcome,
		DurationMs: s.battle.Elapsed(),
		PlayerHp:   s.player.DisplayHp(),
	})
}

// GenerateRewardBatch returns the reward offers for the floor just won. The
// batch is drawn once per victory; later calls return the same offers.
func (s *Session) GenerateRewardBatch() ([]rewards.Offer, error) {
	if s.phase != PhaseRewards {
		return nil, ErrNoRewards
	}
	if s.offers == nil {
		s.offers = s.generator.Generate(s.player)
	}
	return s.Offers(), nil
}

// ClaimReward applies one offer of the current batch. Claiming an owned skill
// moves the session to the upgrade phase; a declined claim leaves the batch open.
func (s *Session) ClaimReward(offer rewards.Offer) (rewards.ClaimResult, error) {
	if s.phase != PhaseRewards {
		return rewards.ClaimResult{}, ErrNoRewards
	}
	if !s.inBatch(offer) {
		return rewards.ClaimResult{}, fmt.Errorf("%s: %w", offer, ErrUnknownOffer)
	}

	res := rewards.Claim(s.player, offer, s.opts.MaxSkills)
	s.appendLog(res.Message)

	switch {
	case res.Declined:
	case res.Upgrade != nil:
		s.pending = res.Upgrade
		s.phase = PhaseUpgrade
	default:
		s.finishRewardStep()
	}
	return res, nil
}

// ClaimOffer claims the offer at index i of the current batch.
func (s *Session) ClaimOffer(i int) (rewards.ClaimResult, error) {
	offers, err := s.GenerateRewardBatch()
	if err != nil {
		return rewards.ClaimResult{}, err
	}
	if i < 0 || i >= len(offers) {
		return rewards.ClaimResult{}, fmt.Errorf("offer %d of %d: %w", i, len(offers), ErrInvalidOption)
	}
	return s.ClaimReward(offers[i])
}

func (s *Session) inBatch(offer rewards.Offer) bool {
	for _, o := range s.offers {
		if o.Kind == offer.Kind && o.ID() == offer.ID() {
			return true
		}
	}
	return false
}

// ResolveUpgradeChoice applies upgrade option optionIndex to the pending skill
// and moves on to the next floor.
func (s *Session) ResolveUpgradeChoice(inst *skills.Instance, optionIndex int) (rewards.UpgradeOption, error) {
	if s.phase != PhaseUpgrade || s.pending == nil || inst != s.pending {
		return rewards.UpgradeOption{}, ErrNoPendingUpgrade
	}

	opt, err := rewards.ApplyUpgrade(inst, optionIndex)
	if err != nil {
		return opt, fmt.Errorf("upgrade %s: %w", inst.Name, err)
	}

	s.appendLog(fmt.Sprintf("%s: %s (Lv.%d)", inst.Name, opt.Label, inst.Level))
	s.pending = nil
	s.finishRewardStep()
	return opt, nil
}

// ChooseUpgrade resolves the pending upgrade with option optionIndex.
func (s *Session) ChooseUpgrade(optionIndex int) (rewards.UpgradeOption, error) {
	return s.ResolveUpgradeChoice(s.pending, optionIndex)
}

// SkipReward declines the whole reward batch and moves on to the next floor.
func (s *Session) SkipReward() error {
	if s.phase != PhaseRewards {
		return ErrNoRewards
	}
	s.appendLog("Rewards skipped.")
	s.finishRewardStep()
	return nil
}

func (s *Session) finishRewardStep() {
	s.offers = nil
	s.floor++
	s.phase = PhaseIdle
}

// Abandon ends the run early. An ongoing battle counts as lost.
func (s *Session) Abandon() {
	if s.phase == PhaseGameOver {
		return
	}
	if s.phase == PhaseBattle && s.battle != nil && s.battle.Active() {
		s.battle.Stop(combat.Defeat)
		s.recordFloor(combat.Defeat)
	}
	s.finish(OutcomeAbandoned)
}

func (s *Session) finish(outcome string) {
	s.phase = PhaseGameOver
	s.outcome = outcome
	s.offers = nil
	s.pending = nil
	s.endedAt = time.Now()

	sum := s.Summary()
	s.appendLog(sum.String())
	logger.Info("Run finished",
		"session", s.ID,
		"floor", sum.Floor,
		"outcome", outcome,
		"skills", len(sum.Skills),
		"items", len(sum.Relics)+len(sum.CursedRelics))
}

func (s *Session) onBattleEvent(e combat.Event) {
	if e.Kind == combat.EventEnd {
		return
	}
	s.appendLog(e.Text)
}

func (s *Session) appendLog(line string) {
	if line == "" {
		return
	}
	s.log = append(s.log, line)
	if over := len(s.log) - MaxLogLines; over > 0 {
		s.log = append(s.log[:0], s.log[over:]...)
	}
	logger.Battle(s.ID, line, "floor", s.floor)
}
