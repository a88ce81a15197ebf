package balance

import (
	"fmt"
	"io"
	"sort"

	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/game"
)

// FloorStats aggregates every fight on one floor.
type FloorStats struct {
	Floor         int
	Fought        int
	Won           int
	WinRate       float64 // Percent of fights won
	AvgDurationMs float64
	AvgHpLeft     float64 // Over won fights
}

// Report summarizes a batch of runs.
type Report struct {
	Runs        int
	AvgFloor    float64
	MedianFloor int
	BestFloor   int
	Outcomes    map[string]int // Run outcome -> count
	Killers     map[string]int // Enemy that ended a defeated run -> count
	Floors      []FloorStats   // Ascending by floor
}

// Summarize aggregates finished runs.
func Summarize(runs []game.RunSummary) *Report {
	r := &Report{
		Runs:     len(runs),
		Outcomes: make(map[string]int),
		Killers:  make(map[string]int),
	}
	if len(runs) == 0 {
		return r
	}

	type acc struct {
		fought, won  int
		duration, hp float64
	}
	byFloor := make(map[int]*acc)

	reached := make([]int, 0, len(runs))
	total := 0
	for _, run := range runs {
		reached = append(reached, run.Floor)
		total += run.Floor
		r.BestFloor = max(r.BestFloor, run.Floor)
		r.Outcomes[run.Outcome]++

		for _, f := range run.Floors {
			a := byFloor[f.Floor]
			if a == nil {
				a = &acc{}
				byFloor[f.Floor] = a
			}
			a.fought++
			a.duration += f.DurationMs
			if f.Outcome == combat.Victory {
				a.won++
				a.hp += float64(f.PlayerHp)
			}
		}
		if run.Outcome == game.OutcomeDefeat && len(run.Floors) > 0 {
			r.Killers[run.Floors[len(run.Floors)-1].Enemy]++
		}
	}

	sort.Ints(reached)
	r.MedianFloor = reached[len(reached)/2]
	r.AvgFloor = float64(total) / float64(len(runs))

	for floor, a := range byFloor {
		fs := FloorStats{
			Floor:         floor,
			Fought:        a.fought,
			Won:           a.won,
			WinRate:       float64(a.won) / float64(a.fought) * 100,
			AvgDurationMs: a.duration / float64(a.fought),
		}
		if a.won > 0 {
			fs.AvgHpLeft = a.hp / float64(a.won)
		}
		r.Floors = append(r.Floors, fs)
	}
	sort.Slice(r.Floors, func(i, j int) bool { return r.Floors[i].Floor < r.Floors[j].Floor })
	return r
}

// Print writes the report as plain text tables.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Runs: %d\n", r.Runs)
	fmt.Fprintf(w, "Floor reached: avg %.2f, median %d, best %d\n", r.AvgFloor, r.MedianFloor, r.BestFloor)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Outcome   | Runs")
	fmt.Fprintln(w, "----------+------")
	for _, name := range sortedKeys(r.Outcomes) {
		fmt.Fprintf(w, "%-9s | %4d\n", name, r.Outcomes[name])
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Floor | Fights | Win Rate | Avg Time (s) | Avg HP Left")
	fmt.Fprintln(w, "------+--------+----------+--------------+------------")
	for _, f := range r.Floors {
		fmt.Fprintf(w, "%5d | %6d | %7.1f%% | %12.1f | %11.1f\n",
			f.Floor, f.Fought, f.WinRate, f.AvgDurationMs/1000, f.AvgHpLeft)
	}

	if len(r.Killers) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Deadliest enemies:")
	killers := sortedKeys(r.Killers)
	sort.SliceStable(killers, func(i, j int) bool { return r.Killers[killers[i]] > r.Killers[killers[j]] })
	for _, name := range killers {
		fmt.Fprintf(w, "  %-20s %d\n", name, r.Killers[name])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
