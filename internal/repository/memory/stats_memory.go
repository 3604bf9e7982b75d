package memory

import (
	"context"
	"sort"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

type statsRepository struct{ store *Store }

func NewStatsRepository(store *Store) repository.StatsRepository {
	return &statsRepository{store: store}
}

// statsKey enforces uniqueness of the (player, match) pair.
func statsKey(playerID, matchID string) string { return playerID + "_" + matchID }

func cloneStats(s model.Statistics) model.Statistics {
	out := s
	out.PositionsPlayed = append([]string(nil), s.PositionsPlayed...)
	out.Injuries = append([]string(nil), s.Injuries...)
	if s.Rating != nil {
		rating := *s.Rating
		out.Rating = &rating
	}
	return out
}

func (r *statsRepository) GetByPlayerAndMatch(ctx context.Context, playerID, matchID string) (model.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return model.Statistics{}, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.stats[statsKey(playerID, matchID)]
	if !ok {
		return model.Statistics{}, repository.ErrNotFound
	}
	return cloneStats(s), nil
}

func (r *statsRepository) Upsert(ctx context.Context, s model.Statistics) (model.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return model.Statistics{}, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := statsKey(s.PlayerID, s.MatchID)
	s.ID = key
	ts := now()
	if existing, ok := r.store.stats[key]; ok {
		s.CreatedAt = existing.CreatedAt
	} else {
		s.CreatedAt = ts
	}
	s.UpdatedAt = ts
	r.store.stats[key] = cloneStats(s)
	return cloneStats(s), nil
}

func (r *statsRepository) ListByMatch(ctx context.Context, matchID string) ([]model.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]model.Statistics, 0, 16)
	for _, s := range r.store.stats {
		if s.MatchID == matchID {
			out = append(out, cloneStats(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *statsRepository) ListByPlayer(ctx context.Context, playerID string) ([]model.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]model.Statistics, 0, 16)
	for _, s := range r.store.stats {
		if s.PlayerID == playerID {
			out = append(out, cloneStats(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out, nil
}

func (r *statsRepository) AggregateByPlayer(ctx context.Context, playerID string) (model.PlayerAggregatedStats, error) {
	records, err := r.ListByPlayer(ctx, playerID)
	if err != nil {
		return model.PlayerAggregatedStats{}, err
	}
	return repository.ReduceAggregates(records), nil
}

var _ repository.StatsRepository = (*statsRepository)(nil)
