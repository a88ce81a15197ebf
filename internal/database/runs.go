package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrRunNotFound is returned when a run id is not in the store.
	ErrRunNotFound = errors.New("run not found")

	// ErrFloorRecorded is returned when a run already has a result for a floor.
	ErrFloorRecorded = errors.New("floor already recorded")
)

// Run is a finished tower run.
type Run struct {
	ID           string    `json:"id"`
	PlayerName   string    `json:"player_name"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	FloorReached int       `json:"floor_reached"`
	Outcome      string    `json:"outcome"`
	Skills       []string  `json:"skills"`
	Relics       []string  `json:"relics"`
	CursedRelics []string  `json:"cursed_relics"`

	// Floors is populated by GetRun and written by RecordRun.
	Floors []FloorResult `json:"floors,omitempty"`
}

// FloorResult is the outcome of one floor's battle.
type FloorResult struct {
	ID         int64  `json:"id"`
	RunID      string `json:"run_id"`
	Floor      int    `json:"floor"`
	Enemy      string `json:"enemy"`
	Outcome    string `json:"outcome"`
	DurationMs int64  `json:"duration_ms"`
	PlayerHp   int    `json:"player_hp"`
}

// Duration returns how long the run lasted.
func (r *Run) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// RecordRun stores a run together with its floor results. Recording the same
// run id again replaces the run row and appends any new floor results.
func (d *Database) RecordRun(run *Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run id is required")
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(d.dialect.Rebind(`
		INSERT INTO runs (id, player_name, started_at, ended_at, floor_reached, outcome, skills, relics, cursed_relics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			player_name = excluded.player_name,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			floor_reached = excluded.floor_reached,
			outcome = excluded.outcome,
			skills = excluded.skills,
			relics = excluded.relics,
			cursed_relics = excluded.cursed_relics
	`), run.ID, run.PlayerName, run.StartedAt.UnixMilli(), run.EndedAt.UnixMilli(), run.FloorReached,
		run.Outcome, joinList(run.Skills), joinList(run.Relics), joinList(run.CursedRelics))
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	for i := range run.Floors {
		f := &run.Floors[i]
		if f.ID != 0 {
			continue
		}
		f.RunID = run.ID
		id, err := d.insertFloor(tx, f)
		if err != nil {
			return err
		}
		f.ID = id
	}

	return tx.Commit()
}

// RecordFloor appends one floor result to an existing run.
func (d *Database) RecordFloor(runID string, result FloorResult) (int64, error) {
	result.RunID = runID
	return d.insertFloor(d.db, &result)
}

func (d *Database) insertFloor(q execQuerier, f *FloorResult) (int64, error) {
	id, err := d.dialect.InsertID(q, d.dialect.Rebind(`
		INSERT INTO floor_results (run_id, floor, enemy, outcome, duration_ms, player_hp)
		VALUES (?, ?, ?, ?, ?, ?)`),
		f.RunID, f.Floor, f.Enemy, f.Outcome, f.DurationMs, f.PlayerHp)
	if d.dialect.IsDuplicateKeyError(err) {
		return 0, fmt.Errorf("run %s floor %d: %w", f.RunID, f.Floor, ErrFloorRecorded)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to record floor %d: %w", f.Floor, err)
	}
	return id, nil
}

// GetRun loads a run and its floor results in floor order.
func (d *Database) GetRun(id string) (*Run, error) {
	row := d.db.QueryRow(d.dialect.Rebind(`
		SELECT id, player_name, started_at, ended_at, floor_reached, outcome, skills, relics, cursed_relics
		FROM runs WHERE id = ?
	`), id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := d.db.Query(d.dialect.Rebind(`
		SELECT id, run_id, floor, enemy, outcome, duration_ms, player_hp
		FROM floor_results WHERE run_id = ?
		ORDER BY floor, id
	`), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var f FloorResult
		if err := rows.Scan(&f.ID, &f.RunID, &f.Floor, &f.Enemy, &f.Outcome, &f.DurationMs, &f.PlayerHp); err != nil {
			return nil, err
		}
		run.Floors = append(run.Floors, f)
	}
	return run, rows.Err()
}

// ListRecentRuns returns up to limit runs, most recently ended first.
// Floor results are not loaded.
func (d *Database) ListRecentRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := d.db.Query(d.dialect.Rebind(`
		SELECT id, player_name, started_at, ended_at, floor_reached, outcome, skills, relics, cursed_relics
		FROM runs
		ORDER BY ended_at DESC, id
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// BestFloor returns the highest floor any recorded run reached, or 0 when
// the store is empty.
func (d *Database) BestFloor() (int, error) {
	var best sql.NullInt64
	if err := d.db.QueryRow(`SELECT MAX(floor_reached) FROM runs`).Scan(&best); err != nil {
		return 0, err
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

// CountRuns returns the number of recorded runs.
func (d *Database) CountRuns() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run                    Run
		started, ended         int64
		skills, relics, cursed string
	)
	err := row.Scan(&run.ID, &run.PlayerName, &started, &ended, &run.FloorReached, &run.Outcome,
		&skills, &relics, &cursed)
	if err != nil {
		return nil, err
	}
	run.StartedAt = time.UnixMilli(started)
	run.EndedAt = time.UnixMilli(ended)
	run.Skills = splitList(skills)
	run.Relics = splitList(relics)
	run.CursedRelics = splitList(cursed)
	return &run, nil
}

func joinList(ids []string) string {
	return strings.Join(ids, ",")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
