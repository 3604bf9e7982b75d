// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidState marks operations attempted against a match whose lifecycle
// status forbids them, e.g. substituting in a non-ongoing match (maps to HTTP 409).
var ErrInvalidState = errors.New("invalid state")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// newInvalidInput is the package-internal shorthand.
func newInvalidInput(fe []FieldError) error { return NewInvalidInputError(fe) }

// invalidStateError carries the human-readable transition message.
type invalidStateError struct{ msg string }

func (e *invalidStateError) Error() string { return e.msg }
func (e *invalidStateError) Unwrap() error { return ErrInvalidState }

func newInvalidState(msg string) error { return &invalidStateError{msg: msg} }

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// PlayerService defines roster use cases.
type PlayerService interface {
	CreatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	GetPlayer(ctx context.Context, id string) (model.Player, error)
	ListPlayers(ctx context.Context, f repository.PlayerFilter, page repository.Page) (repository.PageResult[model.Player], error)
	UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	DeletePlayer(ctx context.Context, id string) error
}

// ScheduleMatchInput carries the caller-editable fields of a new match.
type ScheduleMatchInput struct {
	Date      time.Time
	Type      string
	TeamSheet []string
	Duration  int
	Opponent  string
	Venue     string
	Notes     string
}

// SubstitutionInput describes one substitution against an ongoing match.
// Time defaults to now, Reason to "Tactical substitution". InjuryStatus is
// only consulted when the reason mentions an injury.
type SubstitutionInput struct {
	PlayerIn     string
	PlayerOut    string
	Time         *time.Time
	Reason       string
	InjuryStatus string
	InjuryNotes  string
}

// EndMatchInput finalizes an ongoing match. Result is mandatory for matches
// of type "match"; OurScore inside it is ignored and recomputed from player
// goals. Performances are merged into the match with upsert semantics.
type EndMatchInput struct {
	Result       *model.MatchResult
	Performances []model.PlayerPerformance
}

// GenerateTeamInput drives the auto-generation heuristic.
type GenerateTeamInput struct {
	Formation      string
	PrioritizeRest bool
}

// Materializer is the slice of the stats use cases the match lifecycle
// needs: turning a completed match into persisted statistics records.
type Materializer interface {
	MaterializeMatch(ctx context.Context, matchID string) error
}

// MatchService defines the match lifecycle, substitution, playtime and team
// generation use cases.
type MatchService interface {
	ScheduleMatch(ctx context.Context, in ScheduleMatchInput) (model.Match, error)
	GetMatch(ctx context.Context, id string) (model.Match, error)
	ListMatches(ctx context.Context, f repository.MatchFilter, page repository.Page) (repository.PageResult[model.Match], error)
	UpdateMatch(ctx context.Context, m model.Match) (model.Match, error)
	DeleteMatch(ctx context.Context, id string) error
	CancelMatch(ctx context.Context, id string) (model.Match, error)
	StartMatch(ctx context.Context, id string, teamSheet []string) (model.Match, error)
	EndMatch(ctx context.Context, id string, in EndMatchInput) (model.Match, error)
	Substitute(ctx context.Context, matchID string, in SubstitutionInput) (model.Match, error)
	Playtime(ctx context.Context, matchID string) (map[string]int, error)
	GenerateTeamSheet(ctx context.Context, matchID string, in GenerateTeamInput) (model.Match, error)
}

// InjuryInput is a free-text injury report attached to a player's match record.
type InjuryInput struct {
	MatchID     string
	Description string
	Severity    string
}

// StatsService defines materialized statistics use cases.
type StatsService interface {
	Materializer
	ListStatsByMatch(ctx context.Context, matchID string) ([]model.Statistics, error)
	ListStatsByPlayer(ctx context.Context, playerID string) ([]model.Statistics, error)
	GetPlayerAggregates(ctx context.Context, playerID string) (model.PlayerAggregatedStats, error)
	LogInjury(ctx context.Context, playerID string, in InjuryInput) (model.Statistics, error)
}
