package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

const maxInjuryDescriptionLen = 200

type statsService struct {
	stats   repository.StatsRepository
	players repository.PlayerRepository
	matches repository.MatchRepository
	log     zerolog.Logger
}

func NewStatsService(stats repository.StatsRepository, players repository.PlayerRepository, matches repository.MatchRepository, logger zerolog.Logger) StatsService {
	l := logger.With().Str("module", "service").Str("component", "stats").Logger()
	return &statsService{stats: stats, players: players, matches: matches, log: l}
}

// substitutionCount is the number of log entries involving the player, as
// either side of the swap.
func substitutionCount(m *model.Match, playerID string) int {
	n := 0
	for _, sub := range m.Substitutions {
		if sub.PlayerIn == playerID || sub.PlayerOut == playerID {
			n++
		}
	}
	return n
}

// currentPosition looks the player's primary position up fresh. A deleted
// player yields no position; materialization still records their numbers.
func (s *statsService) currentPosition(ctx context.Context, playerID string) ([]string, error) {
	p, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []string{p.Position}, nil
}

// upsertPreservingInjuries writes the record while carrying over injury
// descriptions previously attached via LogInjury.
func (s *statsService) upsertPreservingInjuries(ctx context.Context, rec model.Statistics) error {
	existing, err := s.stats.GetByPlayerAndMatch(ctx, rec.PlayerID, rec.MatchID)
	switch {
	case err == nil:
		rec.Injuries = existing.Injuries
	case errors.Is(err, repository.ErrNotFound):
	default:
		return err
	}
	_, err = s.stats.Upsert(ctx, rec)
	return err
}

// MaterializeMatch turns a completed match's performance data and ledger
// into one statistics record per participant. Upserts key on the unique
// (player, match) pair, so re-running after a partial failure is safe.
func (s *statsService) MaterializeMatch(ctx context.Context, matchID string) error {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if m.Status != model.StatusCompleted {
		return newInvalidState(fmt.Sprintf("cannot materialize statistics for a %s match", m.Status))
	}

	covered := make(map[string]bool, len(m.Performances))
	for _, perf := range m.Performances {
		covered[perf.PlayerID] = true
		positions, err := s.currentPosition(ctx, perf.PlayerID)
		if err != nil {
			return err
		}
		rec := model.Statistics{
			PlayerID:           perf.PlayerID,
			MatchID:            m.ID,
			MinutesPlayed:      perf.MinutesPlayed,
			PositionsPlayed:    positions,
			Goals:              perf.Goals,
			Assists:            perf.Assists,
			YellowCards:        perf.YellowCards,
			RedCards:           perf.RedCards,
			Rating:             perf.Rating,
			PlayerOfMatch:      perf.PlayerOfMatch,
			SubstitutionsCount: substitutionCount(&m, perf.PlayerID),
		}
		if err := s.upsertPreservingInjuries(ctx, rec); err != nil {
			return err
		}
	}

	// Every fielded player gets a record even without a performance entry:
	// zero stats, ledger minutes, current position.
	for _, playerID := range m.TeamSheet {
		if covered[playerID] {
			continue
		}
		positions, err := s.currentPosition(ctx, playerID)
		if err != nil {
			return err
		}
		rec := model.Statistics{
			PlayerID:           playerID,
			MatchID:            m.ID,
			MinutesPlayed:      m.Playtime[playerID],
			PositionsPlayed:    positions,
			SubstitutionsCount: substitutionCount(&m, playerID),
		}
		if err := s.upsertPreservingInjuries(ctx, rec); err != nil {
			return err
		}
	}

	s.log.Info().Str("match_id", matchID).Msg("statistics materialized")
	return nil
}

func (s *statsService) ListStatsByMatch(ctx context.Context, matchID string) ([]model.Statistics, error) {
	if strings.TrimSpace(matchID) == "" {
		return nil, newInvalidInput([]FieldError{{Field: "match_id", Message: "must not be empty"}})
	}
	return s.stats.ListByMatch(ctx, matchID)
}

func (s *statsService) ListStatsByPlayer(ctx context.Context, playerID string) ([]model.Statistics, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, newInvalidInput([]FieldError{{Field: "player_id", Message: "must not be empty"}})
	}
	return s.stats.ListByPlayer(ctx, playerID)
}

func (s *statsService) GetPlayerAggregates(ctx context.Context, playerID string) (model.PlayerAggregatedStats, error) {
	if strings.TrimSpace(playerID) == "" {
		return model.PlayerAggregatedStats{}, newInvalidInput([]FieldError{{Field: "player_id", Message: "must not be empty"}})
	}
	agg, err := s.stats.AggregateByPlayer(ctx, playerID)
	if err != nil {
		s.log.Error().Err(err).Str("player_id", playerID).Msg("aggregate failed")
		return model.PlayerAggregatedStats{}, err
	}
	return agg, nil
}

// LogInjury appends a free-text injury description to the player's record
// for the match, creating the record if the match is already known. The
// severity keyword escalates the player's roster injury state; unlike the
// substitution side effect, a failed player update fails the operation.
func (s *statsService) LogInjury(ctx context.Context, playerID string, in InjuryInput) (model.Statistics, error) {
	var ferrs []FieldError
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		ferrs = append(ferrs, FieldError{Field: "description", Message: "must not be empty"})
	} else if len([]rune(desc)) > maxInjuryDescriptionLen {
		ferrs = append(ferrs, FieldError{Field: "description", Message: "length must be <= 200"})
	}
	if strings.TrimSpace(in.MatchID) == "" {
		ferrs = append(ferrs, FieldError{Field: "match_id", Message: "must not be empty"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Statistics{}, err
	}

	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return model.Statistics{}, err
	}
	// A statistics record never exists before its parent match does.
	m, err := s.matches.GetByID(ctx, in.MatchID)
	if err != nil {
		return model.Statistics{}, err
	}

	rec, err := s.stats.GetByPlayerAndMatch(ctx, playerID, in.MatchID)
	if errors.Is(err, repository.ErrNotFound) {
		rec = model.Statistics{
			PlayerID:        playerID,
			MatchID:         in.MatchID,
			MinutesPlayed:   m.Playtime[playerID],
			PositionsPlayed: []string{player.Position},
		}
	} else if err != nil {
		return model.Statistics{}, err
	}
	rec.Injuries = append(rec.Injuries, desc)

	switch strings.ToLower(strings.TrimSpace(in.Severity)) {
	case "minor":
		player.InjuryStatus = model.InjuryMinor
	case "major", "severe":
		player.InjuryStatus = model.InjuryMajor
		player.Availability = false
	case "":
	default:
		return model.Statistics{}, newInvalidInput([]FieldError{{Field: "severity", Message: "must be one of minor|major|severe"}})
	}
	if in.Severity != "" {
		if _, err := s.players.Update(ctx, player); err != nil {
			s.log.Error().Err(err).Str("player_id", playerID).Msg("injury escalation failed")
			return model.Statistics{}, err
		}
	}

	out, err := s.stats.Upsert(ctx, rec)
	if err != nil {
		s.log.Error().Err(err).Str("player_id", playerID).Str("match_id", in.MatchID).Msg("injury log failed")
		return model.Statistics{}, err
	}
	s.log.Info().Str("player_id", playerID).Str("match_id", in.MatchID).Str("severity", in.Severity).Msg("injury logged")
	return out, nil
}
