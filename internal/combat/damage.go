package combat

import "math"

// DamageResult describes how an incoming hit was split between shield and HP.
type DamageResult struct {
	Absorbed     int
	HpLoss       int
	CheatedDeath bool
}

// ApplyDamage routes n damage through the unit's shield first; only the
// remainder reaches HP.
func ApplyDamage(u *Unit, n int) DamageResult {
	if n < 0 {
		n = 0
	}
	absorbed := min(u.Shield, n)
	u.Shield -= absorbed
	rest := n - absorbed

	res := DamageResult{Absorbed: absorbed, HpLoss: rest}
	if rest > 0 {
		u.Hp -= rest
		res.CheatedDeath = u.checkDeathPrevention()
	}
	return res
}

// ApplyDirectDamage subtracts n from HP, bypassing the shield.
func ApplyDirectDamage(u *Unit, n int) DamageResult {
	if n < 0 {
		n = 0
	}
	res := DamageResult{HpLoss: n}
	if n > 0 {
		u.Hp -= n
		res.CheatedDeath = u.checkDeathPrevention()
	}
	return res
}

// safeDamage converts a computed damage value to an int, substituting 1 for
// non-finite results.
func safeDamage(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	return int(v)
}

// safeHeal converts a computed heal value to an int, substituting 0 for
// non-finite or negative results.
func safeHeal(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return int(v)
}
