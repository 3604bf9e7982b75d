package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

const maxPlayerAge = 20

func normalizePage(p repository.Page) repository.Page {
	limit := p.Limit
	offset := p.Offset
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return repository.Page{Limit: limit, Offset: offset}
}

func isValidPosition(pos string) bool {
	switch pos {
	case model.PositionGoalkeeper, model.PositionDefender, model.PositionMidfielder, model.PositionForward:
		return true
	default:
		return false
	}
}

// normalizePosition maps case-insensitive input onto the canonical enum value.
func normalizePosition(pos string) string {
	switch strings.ToLower(strings.TrimSpace(pos)) {
	case "goalkeeper":
		return model.PositionGoalkeeper
	case "defender":
		return model.PositionDefender
	case "midfielder":
		return model.PositionMidfielder
	case "forward":
		return model.PositionForward
	default:
		return strings.TrimSpace(pos)
	}
}

func isValidInjuryStatus(status string) bool {
	switch status {
	case model.InjuryHealthy, model.InjuryMinor, model.InjuryMajor, model.InjuryRecovering:
		return true
	default:
		return false
	}
}

func isValidMatchType(typ string) bool {
	return typ == model.TypeMatch || typ == model.TypeTraining
}

func isValidOutcome(result string) bool {
	switch result {
	case model.ResultWin, model.ResultLoss, model.ResultDraw:
		return true
	default:
		return false
	}
}

// validDateOfBirth enforces the junior-squad age rule: not in the future and
// at most 20 years old at validation time.
func validDateOfBirth(dob time.Time, now time.Time) bool {
	if dob.After(now) {
		return false
	}
	age := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		age--
	}
	return age <= maxPlayerAge
}

// parseFormation parses a "D-M-F" spec such as "4-4-2". The goalkeeper is
// implicit and always exactly one, so the three outfield counts may field at
// most ten players.
func parseFormation(s string) (defenders, midfielders, forwards int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("formation %q: expected D-M-F", s)
	}
	counts := make([]int, 3)
	for i, part := range parts {
		n, convErr := strconv.Atoi(part)
		if convErr != nil || n < 0 {
			return 0, 0, 0, fmt.Errorf("formation %q: counts must be non-negative integers", s)
		}
		counts[i] = n
	}
	if counts[0]+counts[1]+counts[2] > 10 {
		return 0, 0, 0, fmt.Errorf("formation %q: at most 10 outfield players", s)
	}
	return counts[0], counts[1], counts[2], nil
}
