package entity

// Victory holds the run's kill counters and the latched win flag
type Victory struct {
	EnemiesKilled    int
	TargetKills      int
	BossesKilled     int
	CurrentBossLevel int
	GameWon          bool
}

// NewVictory creates counters for a run needing targetKills kills
func NewVictory(targetKills int) Victory {
	return Victory{TargetKills: targetKills, CurrentBossLevel: 1}
}

// Reached reports whether the kill target has been met
func (v *Victory) Reached() bool {
	return v.EnemiesKilled >= v.TargetKills
}

// Progress returns the fraction of the kill target achieved, capped at 1
func (v *Victory) Progress() float64 {
	if v.TargetKills <= 0 {
		return 1
	}
	return min(float64(v.EnemiesKilled)/float64(v.TargetKills), 1)
}

// Reset zeroes the counters, keeping the target
func (v *Victory) Reset() {
	*v = NewVictory(v.TargetKills)
}
