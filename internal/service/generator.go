package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

const (
	teamSheetSize        = 11
	recentPlaytimeWindow = 30 * 24 * time.Hour

	// Penalty added to the selection score when a bucket candidate's primary
	// position differs; favors specialists over versatile fillers when
	// minutes are close.
	offPositionPenalty = 10

	// rosterPageSize is the fetch size used when walking the full roster.
	rosterPageSize = 200
)

// recentMinutes aggregates per-player playtime over completed matches in the
// 30 days preceding the target date.
func (s *matchService) recentMinutes(ctx context.Context, target time.Time) (map[string]int, error) {
	matches, err := s.matches.ListCompletedBetween(ctx, target.Add(-recentPlaytimeWindow), target)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int)
	for _, m := range matches {
		for playerID, minutes := range m.Playtime {
			totals[playerID] += minutes
		}
	}
	return totals, nil
}

// eligibleForSelection filters the roster to players who can be fielded:
// available and at most lightly injured.
func eligibleForSelection(players []model.Player) []model.Player {
	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if !p.Availability {
			continue
		}
		if p.InjuryStatus != model.InjuryHealthy && p.InjuryStatus != model.InjuryMinor {
			continue
		}
		out = append(out, p)
	}
	return out
}

func prefersPosition(p model.Player, position string) bool {
	for _, pref := range p.PreferredPositions {
		if pref == position {
			return true
		}
	}
	return false
}

// positionBucket collects candidates for one position. The goalkeeper bucket
// admits primary goalkeepers only; outfield buckets also admit players whose
// preferred positions include the slot, so a player can appear in several
// buckets.
func positionBucket(players []model.Player, position string) []model.Player {
	bucket := make([]model.Player, 0, len(players))
	for _, p := range players {
		if p.Position == position {
			bucket = append(bucket, p)
			continue
		}
		if position != model.PositionGoalkeeper && prefersPosition(p, position) {
			bucket = append(bucket, p)
		}
	}
	return bucket
}

// sortBucket orders candidates ascending by selection score. With
// prioritizeRest the score is pure accumulated minutes (rotation); otherwise
// off-position candidates carry a penalty. Jersey number breaks ties so runs
// are deterministic.
func sortBucket(bucket []model.Player, position string, minutes map[string]int, prioritizeRest bool) {
	score := func(p model.Player) int {
		s := minutes[p.ID]
		if !prioritizeRest && p.Position != position {
			s += offPositionPenalty
		}
		return s
	}
	sort.SliceStable(bucket, func(i, j int) bool {
		si, sj := score(bucket[i]), score(bucket[j])
		if si != sj {
			return si < sj
		}
		return bucket[i].JerseyNumber < bucket[j].JerseyNumber
	})
}

// buildTeamSheet runs the selection heuristic over the eligible pool.
// Pure of I/O so the algorithm is directly testable.
func buildTeamSheet(eligible []model.Player, defenders, midfielders, forwards int, minutes map[string]int, prioritizeRest bool) []string {
	type slot struct {
		position string
		count    int
	}
	slots := []slot{
		{model.PositionGoalkeeper, 1},
		{model.PositionDefender, defenders},
		{model.PositionMidfielder, midfielders},
		{model.PositionForward, forwards},
	}

	selected := make([]string, 0, teamSheetSize)
	taken := make(map[string]bool, teamSheetSize)

	for _, sl := range slots {
		bucket := positionBucket(eligible, sl.position)
		sortBucket(bucket, sl.position, minutes, prioritizeRest)
		picked := 0
		for _, p := range bucket {
			if picked == sl.count {
				break
			}
			if taken[p.ID] {
				continue
			}
			selected = append(selected, p.ID)
			taken[p.ID] = true
			picked++
		}
	}

	// Thin position depth: backfill from the whole pool, least-played first.
	if len(selected) < teamSheetSize {
		rest := make([]model.Player, 0, len(eligible))
		for _, p := range eligible {
			if !taken[p.ID] {
				rest = append(rest, p)
			}
		}
		sort.SliceStable(rest, func(i, j int) bool {
			mi, mj := minutes[rest[i].ID], minutes[rest[j].ID]
			if mi != mj {
				return mi < mj
			}
			return rest[i].JerseyNumber < rest[j].JerseyNumber
		})
		for _, p := range rest {
			if len(selected) == teamSheetSize {
				break
			}
			selected = append(selected, p.ID)
			taken[p.ID] = true
		}
	}

	if len(selected) > teamSheetSize {
		selected = selected[:teamSheetSize]
	}
	return selected
}

// availableRoster walks every page of the available-player listing so squads
// larger than one page are never truncated before selection.
func (s *matchService) availableRoster(ctx context.Context) ([]model.Player, error) {
	avail := true
	filter := repository.PlayerFilter{Availability: &avail}
	page := repository.Page{Limit: rosterPageSize}
	var all []model.Player
	for {
		res, err := s.players.List(ctx, filter, page)
		if err != nil {
			return nil, err
		}
		all = append(all, res.Items...)
		if len(res.Items) < page.Limit || len(all) >= res.Total {
			return all, nil
		}
		page.Offset += len(res.Items)
	}
}

// GenerateTeamSheet builds an 11-player sheet for a scheduled match from the
// eligible roster, the formation and recent-playtime history, and stores it
// on the match.
func (s *matchService) GenerateTeamSheet(ctx context.Context, matchID string, in GenerateTeamInput) (model.Match, error) {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return model.Match{}, err
	}
	if m.Status != model.StatusScheduled {
		return model.Match{}, newInvalidState(fmt.Sprintf("cannot generate a team for a %s match", m.Status))
	}

	defenders, midfielders, forwards, err := parseFormation(in.Formation)
	if err != nil {
		return model.Match{}, newInvalidInput([]FieldError{{Field: "formation", Message: err.Error()}})
	}

	roster, err := s.availableRoster(ctx)
	if err != nil {
		return model.Match{}, err
	}
	eligible := eligibleForSelection(roster)
	if len(eligible) < teamSheetSize {
		return model.Match{}, newInvalidInput([]FieldError{{
			Field:   "players",
			Message: fmt.Sprintf("need at least %d eligible players, have %d", teamSheetSize, len(eligible)),
		}})
	}

	minutes, err := s.recentMinutes(ctx, m.Date)
	if err != nil {
		return model.Match{}, err
	}

	m.TeamSheet = buildTeamSheet(eligible, defenders, midfielders, forwards, minutes, in.PrioritizeRest)

	out, err := s.matches.Update(ctx, m)
	if err != nil {
		s.log.Error().Err(err).Str("match_id", matchID).Msg("store generated team failed")
		return model.Match{}, err
	}
	s.log.Info().
		Str("match_id", matchID).
		Str("formation", in.Formation).
		Bool("prioritize_rest", in.PrioritizeRest).
		Msg("team sheet generated")
	return out, nil
}
