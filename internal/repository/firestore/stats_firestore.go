package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

type statsRepository struct{ client *firestore.Client }

func NewStatsRepository(client *firestore.Client) repository.StatsRepository {
	return &statsRepository{client: client}
}

func (r *statsRepository) col() *firestore.CollectionRef {
	return r.client.Collection(statsCollection)
}

// statsDocID keys the document on the unique (player, match) pair, so a
// repeated materialization run overwrites instead of duplicating.
func statsDocID(playerID, matchID string) string { return playerID + "_" + matchID }

func (r *statsRepository) GetByPlayerAndMatch(ctx context.Context, playerID, matchID string) (model.Statistics, error) {
	doc, err := r.col().Doc(statsDocID(playerID, matchID)).Get(ctx)
	if err != nil {
		return model.Statistics{}, repository.MapStoreError(err)
	}
	var s model.Statistics
	if err := doc.DataTo(&s); err != nil {
		return model.Statistics{}, err
	}
	return s, nil
}

func (r *statsRepository) Upsert(ctx context.Context, s model.Statistics) (model.Statistics, error) {
	s.ID = statsDocID(s.PlayerID, s.MatchID)
	ts := time.Now().UTC()
	if existing, err := r.GetByPlayerAndMatch(ctx, s.PlayerID, s.MatchID); err == nil {
		s.CreatedAt = existing.CreatedAt
	} else if err != repository.ErrNotFound {
		return model.Statistics{}, err
	} else {
		s.CreatedAt = ts
	}
	s.UpdatedAt = ts
	if _, err := r.col().Doc(s.ID).Set(ctx, s); err != nil {
		return model.Statistics{}, repository.MapStoreError(err)
	}
	return s, nil
}

func (r *statsRepository) ListByMatch(ctx context.Context, matchID string) ([]model.Statistics, error) {
	out, err := readAll[model.Statistics](r.col().Where("matchId", "==", matchID).Documents(ctx))
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *statsRepository) ListByPlayer(ctx context.Context, playerID string) ([]model.Statistics, error) {
	out, err := readAll[model.Statistics](r.col().Where("playerId", "==", playerID).Documents(ctx))
	if err != nil {
		return nil, err
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
