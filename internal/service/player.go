package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

type playerService struct {
	players repository.PlayerRepository
	log     zerolog.Logger
}

func NewPlayerService(players repository.PlayerRepository, logger zerolog.Logger) PlayerService {
	l := logger.With().Str("module", "service").Str("component", "player").Logger()
	return &playerService{players: players, log: l}
}

// validatePlayer normalizes and checks the caller-editable fields, returning
// the canonical form alongside any field errors.
func validatePlayer(p model.Player, now time.Time) (model.Player, []FieldError) {
	var ferrs []FieldError

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "must not be empty"})
	} else if ln := len([]rune(p.Name)); ln > 100 {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "length must be <= 100"})
	}

	if p.JerseyNumber < 1 || p.JerseyNumber > 99 {
		ferrs = append(ferrs, FieldError{Field: "jersey_number", Message: "must be between 1 and 99"})
	}

	p.Position = normalizePosition(p.Position)
	if !isValidPosition(p.Position) {
		ferrs = append(ferrs, FieldError{Field: "position", Message: "must be one of Goalkeeper, Defender, Midfielder, Forward"})
	}

	// Preferred positions default to the primary position when empty.
	if len(p.PreferredPositions) == 0 {
		p.PreferredPositions = []string{p.Position}
	} else {
		for i, pos := range p.PreferredPositions {
			p.PreferredPositions[i] = normalizePosition(pos)
			if !isValidPosition(p.PreferredPositions[i]) {
				ferrs = append(ferrs, FieldError{Field: "preferred_positions", Message: "contains an invalid position"})
				break
			}
		}
	}

	if p.InjuryStatus == "" {
		p.InjuryStatus = model.InjuryHealthy
	} else if !isValidInjuryStatus(p.InjuryStatus) {
		ferrs = append(ferrs, FieldError{Field: "injury_status", Message: "must be one of Healthy, Minor Injury, Major Injury, Recovering"})
	}

	if p.DateOfBirth != nil && !validDateOfBirth(*p.DateOfBirth, now) {
		ferrs = append(ferrs, FieldError{Field: "date_of_birth", Message: "must not be in the future and must yield age <= 20"})
	}

	return p, ferrs
}

func (s *playerService) CreatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	start := time.Now()
	p, ferrs := validatePlayer(p, start.UTC())
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("player validation failed")
		return model.Player{}, err
	}

	out, err := s.players.Create(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("jersey", p.JerseyNumber).Str("name", p.Name).Msg("create player failed")
		return model.Player{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("player_id", out.ID).Msg("player created")
	return out, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	if strings.TrimSpace(id) == "" {
		return model.Player{}, newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.players.GetByID(ctx, id)
}

func (s *playerService) ListPlayers(ctx context.Context, f repository.PlayerFilter, page repository.Page) (repository.PageResult[model.Player], error) {
	var ferrs []FieldError
	if f.Position != "" {
		f.Position = normalizePosition(f.Position)
		if !isValidPosition(f.Position) {
			ferrs = append(ferrs, FieldError{Field: "position", Message: "invalid position filter"})
		}
	}
	if f.InjuryStatus != "" && !isValidInjuryStatus(f.InjuryStatus) {
		ferrs = append(ferrs, FieldError{Field: "injury_status", Message: "invalid injury status filter"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	p := normalizePage(page)
	res, err := s.players.List(ctx, f, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list players failed")
		return repository.PageResult[model.Player]{}, err
	}
	return res, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	if strings.TrimSpace(p.ID) == "" {
		return model.Player{}, newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	p, ferrs := validatePlayer(p, time.Now().UTC())
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Str("player_id", p.ID).Msg("player validation failed")
		return model.Player{}, err
	}
	out, err := s.players.Update(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Str("player_id", p.ID).Msg("update player failed")
		return model.Player{}, err
	}
	return out, nil
}

// DeletePlayer removes the roster entry. References from matches and
// statistics are weak, nothing cascades.
func (s *playerService) DeletePlayer(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	if err := s.players.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("player_id", id).Msg("delete player failed")
		return err
	}
	s.log.Info().Str("player_id", id).Msg("player deleted")
	return nil
}
