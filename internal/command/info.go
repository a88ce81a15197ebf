package command

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/game"
)

const defaultLogLines = 10

func (c *Command) executeLog(s *game.Session) (Result, error) {
	n := defaultLogLines
	if len(c.Args) > 0 {
		var err error
		if n, err = c.IntArg(0, "Usage: log [n]"); err != nil {
			return Result{}, err
		}
	}
	lines := s.Log()
	if n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	if len(lines) == 0 {
		return Result{Text: "The log is empty."}, nil
	}
	return Result{Text: strings.Join(lines, "\n")}, nil
}

// statusLine renders the run status as one line of text.
func statusLine(s *game.Session) string {
	p := s.Player()
	st := combat.CurrentStats(p)

	names := make([]string, 0, len(p.Skills))
	for _, sk := range p.Skills {
		names = append(names, fmt.Sprintf("%s Lv.%d", sk.Name, sk.Level))
	}

	line := fmt.Sprintf("Floor %d [%s] | HP %d/%d | ATK %d DEF %d SUP %d | Skills: %s",
		s.Floor(), s.Phase(), p.DisplayHp(), p.MaxHp, st.Atk, st.Def, st.Sup, strings.Join(names, ", "))
	if e := s.Enemy(); e != nil && s.Phase() == game.PhaseBattle {
		line += fmt.Sprintf(" | %s HP %d/%d", e.Name, e.DisplayHp(), e.MaxHp)
	}
	return line
}
