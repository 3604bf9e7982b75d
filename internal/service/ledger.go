package service

import (
	"time"

	"github.com/youthfc/team-manager-service/internal/model"
)

// The playtime ledger is a derived projection: stored values are only
// written when a player leaves the field (substitution) and at finalization.
// Read paths call LedgerSnapshot, a pure function of the match document and
// an observation instant, so repeated reads can never double-accumulate.

// continuousPlayStart returns the instant the player's current unbroken
// stint began: the time of the most recent substitution that brought them
// on, or the match's creation time if they started.
func continuousPlayStart(m *model.Match, playerID string) time.Time {
	start := m.CreatedAt
	for _, sub := range m.Substitutions {
		if sub.PlayerIn == playerID && sub.Time.After(start) {
			start = sub.Time
		}
	}
	return start
}

// elapsedMinutes is the whole-minute floor between two instants, never negative.
func elapsedMinutes(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from) / time.Minute)
}

// LedgerSnapshot derives the per-player minutes ledger at the given instant.
// Players currently fielded get their stored value plus the minutes of their
// running stint; everyone else keeps the stored value. The match document is
// not mutated.
func LedgerSnapshot(m *model.Match, at time.Time) map[string]int {
	snap := make(map[string]int, len(m.Playtime)+len(m.TeamSheet))
	for id, minutes := range m.Playtime {
		snap[id] = minutes
	}
	for _, id := range m.TeamSheet {
		snap[id] += elapsedMinutes(continuousPlayStart(m, id), at)
	}
	return snap
}

// LedgerTotal sums the minutes of every tracked player.
func LedgerTotal(ledger map[string]int) int {
	total := 0
	for _, minutes := range ledger {
		total += minutes
	}
	return total
}

// ledgerSpread is max - min across all tracked players; the fairness alert
// fires when it exceeds the rotation threshold.
func ledgerSpread(ledger map[string]int) int {
	if len(ledger) == 0 {
		return 0
	}
	first := true
	min, max := 0, 0
	for _, minutes := range ledger {
		if first {
			min, max = minutes, minutes
			first = false
			continue
		}
		if minutes < min {
			min = minutes
		}
		if minutes > max {
			max = minutes
		}
	}
	return max - min
}
