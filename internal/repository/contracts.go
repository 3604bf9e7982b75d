package repository

import (
	"context"
	"time"

	"github.com/youthfc/team-manager-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PlayerRepository declares persistence operations for roster players.
// I return domain models and surface domain errors from errors.go rather
// than store-specific codes.
type PlayerRepository interface {
	// Create rejects duplicate jersey numbers with ErrAlreadyExists.
	Create(ctx context.Context, p model.Player) (model.Player, error)
	GetByID(ctx context.Context, id string) (model.Player, error)
	// GetByIDs resolves a set of ids; missing ids are simply absent from the
	// result, not an error. Callers decide whether a gap is fatal.
	GetByIDs(ctx context.Context, ids []string) ([]model.Player, error)
	List(ctx context.Context, f PlayerFilter, p Page) (PageResult[model.Player], error)
	// Update applies the same jersey uniqueness rule as Create.
	Update(ctx context.Context, p model.Player) (model.Player, error)
	Delete(ctx context.Context, id string) error
}

// MatchRepository declares persistence operations for matches and training
// sessions. Update replaces the whole document; per-match operations are
// optimistic read-modify-write with no server-side lock.
type MatchRepository interface {
	Create(ctx context.Context, m model.Match) (model.Match, error)
	GetByID(ctx context.Context, id string) (model.Match, error)
	List(ctx context.Context, f MatchFilter, p Page) (PageResult[model.Match], error)
	Update(ctx context.Context, m model.Match) (model.Match, error)
	Delete(ctx context.Context, id string) error
	// ListCompletedBetween feeds the team generator's recent-playtime window.
	ListCompletedBetween(ctx context.Context, from, to time.Time) ([]model.Match, error)
}

// StatsRepository declares operations for materialized per-(player, match)
// statistics records. Upsert keys on the unique playerID+matchID pair so
// materialization re-runs never duplicate records.
type StatsRepository interface {
	GetByPlayerAndMatch(ctx context.Context, playerID, matchID string) (model.Statistics, error)
	Upsert(ctx context.Context, s model.Statistics) (model.Statistics, error)
	ListByMatch(ctx context.Context, matchID string) ([]model.Statistics, error)
	ListByPlayer(ctx context.Context, playerID string) ([]model.Statistics, error)
	AggregateByPlayer(ctx context.Context, playerID string) (model.PlayerAggregatedStats, error)
}
