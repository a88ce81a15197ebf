package items

// Resolve folds the specials of every owned item into one Special.
// Relics are scanned before cursed relics and, for every field, the last
// item that carries it wins. Values never stack.
func Resolve(relics, cursed []*Template) Special {
	var out Special
	for _, list := range [][]*Template{relics, cursed} {
		for _, it := range list {
			s := it.Special
			if s.CdReduc != 0 {
				out.CdReduc = s.CdReduc
			}
			if s.CdIncrease != 0 {
				out.CdIncrease = s.CdIncrease
			}
			if s.Lifesteal != 0 {
				out.Lifesteal = s.Lifesteal
			}
			if s.HealingBan {
				out.HealingBan = true
			}
			if s.SelfDmgTick != 0 {
				out.SelfDmgTick = s.SelfDmgTick
			}
			if s.RandomDelay != 0 {
				out.RandomDelay = s.RandomDelay
			}
			if s.DefZero {
				out.DefZero = true
			}
			if s.MaxHpReduc != 0 {
				out.MaxHpReduc = s.MaxHpReduc
			}
			if s.CheatDeath {
				out.CheatDeath = true
				out.BreakOnUse = s.BreakOnUse
			}
		}
	}
	return out
}
