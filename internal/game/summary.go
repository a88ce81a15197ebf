package game

import (
	"fmt"
	"time"

	"github.com/lawnchairsociety/relictower/internal/database"
)

// RunSummary describes a run for the game over screen and the run history.
type RunSummary struct {
	ID           string        `json:"id"`
	PlayerName   string        `json:"player_name"`
	Floor        int           `json:"floor"`
	Outcome      string        `json:"outcome"`
	Skills       []string      `json:"skills"`
	Relics       []string      `json:"relics"`
	CursedRelics []string      `json:"cursed_relics"`
	Floors       []FloorRecord `json:"floors"`
	StartedAt    time.Time     `json:"started_at"`
	EndedAt      time.Time     `json:"ended_at"`
}

// Summary returns the run so far. Outcome is empty until the run ends.
func (s *Session) Summary() RunSummary {
	sum := RunSummary{
		ID:         s.ID,
		PlayerName: s.player.Name,
		Floor:      s.floor,
		Outcome:    s.outcome,
		Floors:     s.History(),
		StartedAt:  s.startedAt,
		EndedAt:    s.endedAt,
	}
	for _, sk := range s.player.Skills {
		sum.Skills = append(sum.Skills, sk.ID)
	}
	for _, it := range s.player.Relics {
		sum.Relics = append(sum.Relics, it.ID)
	}
	for _, it := range s.player.Cursed {
		sum.CursedRelics = append(sum.CursedRelics, it.ID)
	}
	return sum
}

// String returns the game over line.
func (r RunSummary) String() string {
	return fmt.Sprintf("GAME OVER - reached floor %d with %d skills and %d items",
		r.Floor, len(r.Skills), len(r.Relics)+len(r.CursedRelics))
}

// Record converts the summary into a run history row.
func (r RunSummary) Record() *database.Run {
	run := &database.Run{
		ID:           r.ID,
		PlayerName:   r.PlayerName,
		StartedAt:    r.StartedAt,
		EndedAt:      r.EndedAt,
		FloorReached: r.Floor,
		Outcome:      r.Outcome,
		Skills:       r.Skills,
		Relics:       r.Relics,
		CursedRelics: r.CursedRelics,
	}
	for _, f := range r.Floors {
		run.Floors = append(run.Floors, database.FloorResult{
			Floor:      f.Floor,
			Enemy:      f.Enemy,
			Outcome:    f.Outcome.String(),
			DurationMs: int64(f.DurationMs),
			PlayerHp:   f.PlayerHp,
		})
	}
	return run
}
