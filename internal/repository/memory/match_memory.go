package memory

import (
	"context"
	"sort"
	"time"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

type matchRepository struct{ store *Store }

func NewMatchRepository(store *Store) repository.MatchRepository {
	return &matchRepository{store: store}
}

func cloneMatch(m model.Match) model.Match {
	out := m
	out.TeamSheet = append([]string(nil), m.TeamSheet...)
	out.Substitutions = append([]model.Substitution(nil), m.Substitutions...)
	out.Performances = make([]model.PlayerPerformance, len(m.Performances))
	for i, p := range m.Performances {
		out.Performances[i] = p
		if p.Rating != nil {
			rating := *p.Rating
			out.Performances[i].Rating = &rating
		}
	}
	if m.Playtime != nil {
		out.Playtime = make(map[string]int, len(m.Playtime))
		for k, v := range m.Playtime {
			out.Playtime[k] = v
		}
	}
	if m.Result != nil {
		res := *m.Result
		out.Result = &res
	}
	return out
}

func (r *matchRepository) Create(ctx context.Context, m model.Match) (model.Match, error) {
	if err := ctx.Err(); err != nil {
		return model.Match{}, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if m.ID == "" {
		m.ID = newID()
	}
	ts := now()
	m.CreatedAt = ts
	m.UpdatedAt = ts
	r.store.matches[m.ID] = cloneMatch(m)
	return cloneMatch(m), nil
}

func (r *matchRepository) GetByID(ctx context.Context, id string) (model.Match, error) {
	if err := ctx.Err(); err != nil {
		return model.Match{}, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	m, ok := r.store.matches[id]
	if !ok {
		return model.Match{}, repository.ErrNotFound
	}
	return cloneMatch(m), nil
}

func (r *matchRepository) List(ctx context.Context, f repository.MatchFilter, page repository.Page) (repository.PageResult[model.Match], error) {
	if err := ctx.Err(); err != nil {
		return repository.PageResult[model.Match]{}, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	items := make([]model.Match, 0, len(r.store.matches))
	for _, m := range r.store.matches {
		if !f.Matches(m.Type, m.Status, m.Date) {
			continue
		}
		items = append(items, cloneMatch(m))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Date.Equal(items[j].Date) {
			return items[i].ID < items[j].ID
		}
		return items[i].Date.Before(items[j].Date)
	})
	return paginate(items, page), nil
}

func (r *matchRepository) Update(ctx context.Context, m model.Match) (model.Match, error) {
	if err := ctx.Err(); err != nil {
		return model.Match{}, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.matches[m.ID]
	if !ok {
		return model.Match{}, repository.ErrNotFound
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = now()
	r.store.matches[m.ID] = cloneMatch(m)
	return cloneMatch(m), nil
}

func (r *matchRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.matches[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.matches, id)
	return nil
}

func (r *matchRepository) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]model.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []model.Match
	for _, m := range r.store.matches {
		if m.Status != model.StatusCompleted {
			continue
		}
		if m.Date.Before(from) || m.Date.After(to) {
			continue
		}
		out = append(out, cloneMatch(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
