package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

type matchRepository struct{ client *firestore.Client }

func NewMatchRepository(client *firestore.Client) repository.MatchRepository {
	return &matchRepository{client: client}
}

func (r *matchRepository) col() *firestore.CollectionRef {
	return r.client.Collection(matchesCollection)
}

func (r *matchRepository) Create(ctx context.Context, m model.Match) (model.Match, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	ts := time.Now().UTC()
	m.CreatedAt = ts
	m.UpdatedAt = ts
	if _, err := r.col().Doc(m.ID).Set(ctx, m); err != nil {
		return model.Match{}, repository.MapStoreError(err)
	}
	return m, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id string) (model.Match, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return model.Match{}, repository.MapStoreError(err)
	}
	var m model.Match
	if err := doc.DataTo(&m); err != nil {
		return model.Match{}, err
	}
	return m, nil
}

func (r *matchRepository) List(ctx context.Context, f repository.MatchFilter, page repository.Page) (repository.PageResult[model.Match], error) {
	q := r.col().Query
	if f.Type != "" {
		q = q.Where("type", "==", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status", "==", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("date", ">=", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("date", "<=", f.To)
	}
	matches, err := readAll[model.Match](q.Documents(ctx))
	if err != nil {
		return repository.PageResult[model.Match]{}, err
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Date.Equal(matches[j].Date) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].Date.Before(matches[j].Date)
	})
	return paginate(matches, page), nil
}

func (r *matchRepository) Update(ctx context.Context, m model.Match) (model.Match, error) {
	existing, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return model.Match{}, err
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now().UTC()
	if _, err := r.col().Doc(m.ID).Set(ctx, m); err != nil {
		return model.Match{}, repository.MapStoreError(err)
	}
	return m, nil
}

func (r *matchRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if _, err := r.col().Doc(id).Delete(ctx); err != nil {
		return repository.MapStoreError(err)
	}
	return nil
}

func (r *matchRepository) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]model.Match, error) {
	q := r.col().
		Where("status", "==", model.StatusCompleted).
		Where("date", ">=", from).
		Where("date", "<=", to)
	matches, err := readAll[model.Match](q.Documents(ctx))
	if err != nil {
		return nil, err
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Date.Before(matches[j].Date) })
	return matches, nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
