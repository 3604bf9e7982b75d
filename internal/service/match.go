package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/notify"
	"github.com/youthfc/team-manager-service/internal/repository"
)

const (
	defaultMatchDuration = 90
	defaultSubReason     = "Tactical substitution"

	// fairnessSpreadThreshold is the playtime spread (max - min, minutes)
	// beyond which a rotation alert is broadcast.
	fairnessSpreadThreshold = 20
)

type matchService struct {
	matches  repository.MatchRepository
	players  repository.PlayerRepository
	stats    Materializer
	notifier notify.Notifier
	log      zerolog.Logger
}

func NewMatchService(matches repository.MatchRepository, players repository.PlayerRepository, stats Materializer, notifier notify.Notifier, logger zerolog.Logger) MatchService {
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &matchService{matches: matches, players: players, stats: stats, notifier: notifier, log: l}
}

// requirePlayersExist resolves the ids and reports the ones that don't.
func (s *matchService) requirePlayersExist(ctx context.Context, ids []string) ([]model.Player, []FieldError, error) {
	players, err := s.players.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	found := make(map[string]model.Player, len(players))
	for _, p := range players {
		found[p.ID] = p
	}
	var ferrs []FieldError
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			ferrs = append(ferrs, FieldError{Field: "team_sheet", Message: fmt.Sprintf("player %s does not exist", id)})
		}
	}
	return players, ferrs, nil
}

func (s *matchService) ScheduleMatch(ctx context.Context, in ScheduleMatchInput) (model.Match, error) {
	start := time.Now()

	var ferrs []FieldError
	if !isValidMatchType(in.Type) {
		ferrs = append(ferrs, FieldError{Field: "type", Message: "must be one of match|training"})
	}
	if in.Date.IsZero() {
		ferrs = append(ferrs, FieldError{Field: "date", Message: "must be set"})
	}
	if in.Duration < 0 {
		ferrs = append(ferrs, FieldError{Field: "duration", Message: "must be >= 0"})
	}
	if in.Duration == 0 {
		in.Duration = defaultMatchDuration
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("schedule validation failed (structure)")
		return model.Match{}, err
	}

	if len(in.TeamSheet) > 0 {
		_, existErrs, err := s.requirePlayersExist(ctx, in.TeamSheet)
		if err != nil {
			return model.Match{}, err
		}
		if err := newInvalidInput(existErrs); err != nil {
			s.log.Debug().Interface("field_errors", existErrs).Msg("schedule validation failed (existence)")
			return model.Match{}, err
		}
	}

	out, err := s.matches.Create(ctx, model.Match{
		Date:      in.Date,
		Type:      in.Type,
		Status:    model.StatusScheduled,
		TeamSheet: in.TeamSheet,
		Duration:  in.Duration,
		Opponent:  in.Opponent,
		Venue:     in.Venue,
		Notes:     in.Notes,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("schedule match failed")
		return model.Match{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("match_id", out.ID).Str("type", out.Type).Msg("match scheduled")
	return out, nil
}

func (s *matchService) GetMatch(ctx context.Context, id string) (model.Match, error) {
	if strings.TrimSpace(id) == "" {
		return model.Match{}, newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.matches.GetByID(ctx, id)
}

func (s *matchService) ListMatches(ctx context.Context, f repository.MatchFilter, page repository.Page) (repository.PageResult[model.Match], error) {
	var ferrs []FieldError
	if f.Type != "" && !isValidMatchType(f.Type) {
		ferrs = append(ferrs, FieldError{Field: "type", Message: "invalid type filter"})
	}
	if f.Status != "" {
		switch f.Status {
		case model.StatusScheduled, model.StatusOngoing, model.StatusCompleted, model.StatusCancelled:
		default:
			ferrs = append(ferrs, FieldError{Field: "status", Message: "invalid status filter"})
		}
	}
	if err := newInvalidInput(ferrs); err != nil {
		return repository.PageResult[model.Match]{}, err
	}
	p := normalizePage(page)
	res, err := s.matches.List(ctx, f, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list matches failed")
		return repository.PageResult[model.Match]{}, err
	}
	return res, nil
}

// UpdateMatch edits schedule-level fields. Lifecycle-owned state (status,
// substitution log, ledger, result, performances) is not writable here; a
// completed or cancelled match rejects all edits.
func (s *matchService) UpdateMatch(ctx context.Context, m model.Match) (model.Match, error) {
	existing, err := s.matches.GetByID(ctx, m.ID)
	if err != nil {
		return model.Match{}, err
	}
	if existing.Status == model.StatusCompleted || existing.Status == model.StatusCancelled {
		return model.Match{}, newInvalidState(fmt.Sprintf("cannot update a %s match", existing.Status))
	}

	var ferrs []FieldError
	if m.Type != "" && !isValidMatchType(m.Type) {
		ferrs = append(ferrs, FieldError{Field: "type", Message: "must be one of match|training"})
	}
	if m.Duration < 0 {
		ferrs = append(ferrs, FieldError{Field: "duration", Message: "must be >= 0"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Match{}, err
	}

	if len(m.TeamSheet) > 0 {
		_, existErrs, err := s.requirePlayersExist(ctx, m.TeamSheet)
		if err != nil {
			return model.Match{}, err
		}
		if err := newInvalidInput(existErrs); err != nil {
			return model.Match{}, err
		}
		existing.TeamSheet = m.TeamSheet
	}
	if !m.Date.IsZero() {
		existing.Date = m.Date
	}
	if m.Type != "" {
		existing.Type = m.Type
	}
	if m.Duration > 0 {
		existing.Duration = m.Duration
	}
	if m.Opponent != "" {
		existing.Opponent = m.Opponent
	}
	if m.Venue != "" {
		existing.Venue = m.Venue
	}
	if m.Notes != "" {
		existing.Notes = m.Notes
	}

	out, err := s.matches.Update(ctx, existing)
	if err != nil {
		s.log.Error().Err(err).Str("match_id", m.ID).Msg("update match failed")
		return model.Match{}, err
	}
	return out, nil
}

// DeleteMatch removes a match that never ran: only scheduled or cancelled
// matches may be deleted.
func (s *matchService) DeleteMatch(ctx context.Context, id string) error {
	m, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.Status != model.StatusScheduled && m.Status != model.StatusCancelled {
		return newInvalidState(fmt.Sprintf("cannot delete a %s match", m.Status))
	}
	if err := s.matches.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("match_id", id).Msg("delete match failed")
		return err
	}
	s.log.Info().Str("match_id", id).Msg("match deleted")
	return nil
}

// CancelMatch moves scheduled to cancelled. An ongoing match must be ended,
// not cancelled; completed and cancelled are terminal.
func (s *matchService) CancelMatch(ctx context.Context, id string) (model.Match, error) {
	m, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return model.Match{}, err
	}
	if m.Status != model.StatusScheduled {
		return model.Match{}, newInvalidState(fmt.Sprintf("cannot cancel a %s match", m.Status))
	}
	m.Status = model.StatusCancelled
	out, err := s.matches.Update(ctx, m)
	if err != nil {
		s.log.Error().Err(err).Str("match_id", id).Msg("cancel match failed")
		return model.Match{}, err
	}
	s.log.Info().Str("match_id", id).Msg("match cancelled")
	return out, nil
}

// StartMatch moves scheduled to ongoing. An inline team sheet replaces the
// stored one; every listed player must exist and be available. Ledger
// entries are initialized to zero for the fielded players.
func (s *matchService) StartMatch(ctx context.Context, id string, teamSheet []string) (model.Match, error) {
	m, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return model.Match{}, err
	}
	if m.Status != model.StatusScheduled {
		return model.Match{}, newInvalidState(fmt.Sprintf("cannot start a %s match", m.Status))
	}

	if len(teamSheet) > 0 {
		players, ferrs, err := s.requirePlayersExist(ctx, teamSheet)
		if err != nil {
			return model.Match{}, err
		}
		for _, p := range players {
			if !p.Availability {
				ferrs = append(ferrs, FieldError{
					Field:   "team_sheet",
					Message: fmt.Sprintf("player %s (%s) is not available", p.ID, p.Name),
				})
			}
		}
		if err := newInvalidInput(ferrs); err != nil {
			s.log.Debug().Interface("field_errors", ferrs).Str("match_id", id).Msg("start validation failed")
			return model.Match{}, err
		}
		m.TeamSheet = teamSheet
	}

	m.Status = model.StatusOngoing
	if m.Playtime == nil {
		m.Playtime = make(map[string]int, len(m.TeamSheet))
	}
	for _, pid := range m.TeamSheet {
		if _, ok := m.Playtime[pid]; !ok {
			m.Playtime[pid] = 0
		}
	}

	out, err := s.matches.Update(ctx, m)
	if err != nil {
		s.log.Error().Err(err).Str("match_id", id).Msg("start match failed")
		return model.Match{}, err
	}
	s.log.Info().Str("match_id", id).Int("fielded", len(out.TeamSheet)).Msg("match started")
	return out, nil
}

func validatePerformance(p model.PlayerPerformance) []FieldError {
	var ferrs []FieldError
	if strings.TrimSpace(p.PlayerID) == "" {
		ferrs = append(ferrs, FieldError{Field: "player_id", Message: "must not be empty"})
	}
	if p.Goals < 0 || p.Assists < 0 || p.YellowCards < 0 || p.RedCards < 0 {
		ferrs = append(ferrs, FieldError{Field: "player_performances", Message: "counters must be >= 0"})
	}
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 10) {
		ferrs = append(ferrs, FieldError{Field: "rating", Message: "must be between 1 and 10"})
	}
	return ferrs
}

// EndMatch moves ongoing to completed: it finalizes the ledger, merges the
// submitted performances (upsert by player), recomputes the team score from
// player goals for matches, persists, then materializes statistics. A
// materialization failure leaves the match completed; the standalone
// materialize operation is the documented recovery path.
func (s *matchService) EndMatch(ctx context.Context, id string, in EndMatchInput) (model.Match, error) {
	m, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return model.Match{}, err
	}
	if m.Status != model.StatusOngoing {
		return model.Match{}, newInvalidState(fmt.Sprintf("cannot end a %s match", m.Status))
	}

	var ferrs []FieldError
	for _, perf := range in.Performances {
		ferrs = append(ferrs, validatePerformance(perf)...)
	}
	if m.Type == model.TypeMatch {
		if in.Result == nil || !isValidOutcome(in.Result.Result) {
			ferrs = append(ferrs, FieldError{Field: "match_result.result", Message: "must be one of win|loss|draw"})
		}
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Str("match_id", id).Msg("end validation failed")
		return model.Match{}, err
	}

	// Final ledger write: fielded players are credited with their running
	// stint, already-substituted players keep their stored minutes.
	m.Playtime = LedgerSnapshot(&m, time.Now().UTC())

	for _, perf := range in.Performances {
		if idx := m.PerformanceIndex(perf.PlayerID); idx >= 0 {
			m.Performances[idx] = perf
		} else {
			m.Performances = append(m.Performances, perf)
		}
	}
	// The ledger, not the caller, owns minutes played.
	for i := range m.Performances {
		m.Performances[i].MinutesPlayed = m.Playtime[m.Performances[i].PlayerID]
	}

	if m.Type == model.TypeMatch {
		goals := 0
		for _, perf := range m.Performances {
			goals += perf.Goals
		}
		// Player goal entries are the single source of truth for the team
		// score; any caller-supplied ourScore is discarded.
		m.Result = &model.MatchResult{
			Result:        in.Result.Result,
			OurScore:      goals,
			OpponentScore: in.Result.OpponentScore,
		}
	}

	m.Status = model.StatusCompleted
	out, err := s.matches.Update(ctx, m)
	if err != nil {
		s.log.Error().Err(err).Str("match_id", id).Msg("end match failed")
		return model.Match{}, err
	}

	// Required post-condition. There is no rollback: on failure the match
	// stays completed and the caller re-triggers materialization.
	if err := s.stats.MaterializeMatch(ctx, out.ID); err != nil {
		s.log.Error().Err(err).Str("match_id", out.ID).Msg("statistics materialization failed, match remains completed")
		return out, fmt.Errorf("match completed but statistics materialization failed: %w", err)
	}
	s.log.Info().
		Str("match_id", out.ID).
		Int("total_minutes", LedgerTotal(out.Playtime)).
		Msg("match completed")
	return out, nil
}

// Substitute validates and applies a single swap against an ongoing match.
func (s *matchService) Substitute(ctx context.Context, matchID string, in SubstitutionInput) (model.Match, error) {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return model.Match{}, err
	}
	if m.Status != model.StatusOngoing {
		return model.Match{}, newInvalidState(fmt.Sprintf("cannot substitute in a %s match", m.Status))
	}

	if strings.TrimSpace(in.PlayerIn) == "" || strings.TrimSpace(in.PlayerOut) == "" {
		return model.Match{}, newInvalidInput([]FieldError{{Field: "substitution", Message: "player_in and player_out are required"}})
	}
	if in.PlayerIn == in.PlayerOut {
		return model.Match{}, newInvalidInput([]FieldError{{Field: "substitution", Message: "player_in and player_out must differ"}})
	}
	// Both players must resolve; a bad id is a 404, not a validation error.
	if _, err := s.players.GetByID(ctx, in.PlayerOut); err != nil {
		return model.Match{}, err
	}
	if _, err := s.players.GetByID(ctx, in.PlayerIn); err != nil {
		return model.Match{}, err
	}

	outIdx := m.SheetIndex(in.PlayerOut)
	if outIdx < 0 {
		return model.Match{}, newInvalidInput([]FieldError{{Field: "player_out", Message: "is not on the team sheet"}})
	}
	if m.SheetIndex(in.PlayerIn) >= 0 {
		return model.Match{}, newInvalidInput([]FieldError{{Field: "player_in", Message: "is already on the team sheet"}})
	}

	at := time.Now().UTC()
	if in.Time != nil {
		at = in.Time.UTC()
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = defaultSubReason
	}

	// Credit the outgoing player with their time on the field. This path
	// anchors on match creation, not on prior substitution entries.
	if m.Playtime == nil {
		m.Playtime = make(map[string]int, len(m.TeamSheet))
	}
	m.Playtime[in.PlayerOut] += elapsedMinutes(m.CreatedAt, at)
	if _, ok := m.Playtime[in.PlayerIn]; !ok {
		m.Playtime[in.PlayerIn] = 0
	}

	// Position-preserving swap: the incoming player takes the vacated slot.
	m.TeamSheet[outIdx] = in.PlayerIn
	m.Substitutions = append(m.Substitutions, model.Substitution{
		PlayerIn:  in.PlayerIn,
		PlayerOut: in.PlayerOut,
		Time:      at,
		Reason:    reason,
	})

	out, err := s.matches.Update(ctx, m)
	if err != nil {
		s.log.Error().Err(err).Str("match_id", matchID).Msg("substitution failed")
		return model.Match{}, err
	}

	s.applyInjurySideEffect(ctx, in, reason)
	s.broadcastSubstitution(out, in, at, reason)

	s.log.Info().
		Str("match_id", out.ID).
		Str("player_in", in.PlayerIn).
		Str("player_out", in.PlayerOut).
		Str("reason", reason).
		Msg("substitution applied")
	return out, nil
}

// applyInjurySideEffect updates the outgoing player's injury state when the
// reason mentions an injury. Failures are logged and swallowed: the
// substitution itself has already committed.
func (s *matchService) applyInjurySideEffect(ctx context.Context, in SubstitutionInput, reason string) {
	if !strings.Contains(strings.ToLower(reason), "injury") || in.InjuryStatus == "" {
		return
	}
	if !isValidInjuryStatus(in.InjuryStatus) {
		s.log.Warn().Str("injury_status", in.InjuryStatus).Msg("ignoring invalid injury status on substitution")
		return
	}
	player, err := s.players.GetByID(ctx, in.PlayerOut)
	if err != nil {
		s.log.Warn().Err(err).Str("player_id", in.PlayerOut).Msg("injury status update skipped")
		return
	}
	player.InjuryStatus = in.InjuryStatus
	if in.InjuryNotes != "" {
		player.Notes = in.InjuryNotes
	}
	if _, err := s.players.Update(ctx, player); err != nil {
		s.log.Warn().Err(err).Str("player_id", in.PlayerOut).Msg("injury status update failed")
	}
}

// broadcastSubstitution emits the advisory live events. Never fails.
func (s *matchService) broadcastSubstitution(m model.Match, in SubstitutionInput, at time.Time, reason string) {
	s.notifier.Emit(notify.EventSubstitution, map[string]any{
		"match_id":   m.ID,
		"player_in":  in.PlayerIn,
		"player_out": in.PlayerOut,
		"time":       at,
		"reason":     reason,
	})
	if spread := ledgerSpread(m.Playtime); spread > fairnessSpreadThreshold {
		s.notifier.Emit(notify.EventFairnessAlert, map[string]any{
			"match_id":       m.ID,
			"spread_minutes": spread,
			"threshold":      fairnessSpreadThreshold,
		})
	}
}

// Playtime returns the derived minutes ledger. For an ongoing match the
// snapshot includes the running stints of fielded players; nothing is
// persisted on this read path.
func (s *matchService) Playtime(ctx context.Context, matchID string) (map[string]int, error) {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status == model.StatusOngoing {
		return LedgerSnapshot(&m, time.Now().UTC()), nil
	}
	if m.Playtime == nil {
		return map[string]int{}, nil
	}
	return m.Playtime, nil
}
