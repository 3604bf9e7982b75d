package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

type playerRepository struct{ store *Store }

func NewPlayerRepository(store *Store) repository.PlayerRepository {
	return &playerRepository{store: store}
}

func clonePlayer(p model.Player) model.Player {
	out := p
	out.PreferredPositions = append([]string(nil), p.PreferredPositions...)
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		out.DateOfBirth = &dob
	}
	return out
}

func (r *playerRepository) jerseyTaken(number int, exceptID string) bool {
	for _, p := range r.store.players {
		if p.JerseyNumber == number && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ctx.Err(); err != nil {
		return model.Player{}, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.jerseyTaken(p.JerseyNumber, "") {
		return model.Player{}, repository.ErrAlreadyExists
	}
	if p.ID == "" {
		p.ID = newID()
	}
	ts := now()
	p.CreatedAt = ts
	p.UpdatedAt = ts
	r.store.players[p.ID] = clonePlayer(p)
	return clonePlayer(p), nil
}

func (r *playerRepository) GetByID(ctx context.Context, id string) (model.Player, error) {
	if err := ctx.Err(); err != nil {
		return model.Player{}, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.players[id]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	return clonePlayer(p), nil
}

func (r *playerRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.store.players[id]; ok {
			out = append(out, clonePlayer(p))
		}
	}
	return out, nil
}

func (r *playerRepository) List(ctx context.Context, f repository.PlayerFilter, page repository.Page) (repository.PageResult[model.Player], error) {
	if err := ctx.Err(); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	items := make([]model.Player, 0, len(r.store.players))
	for _, p := range r.store.players {
		if f.Availability != nil && p.Availability != *f.Availability {
			continue
		}
		if f.Position != "" && !strings.EqualFold(p.Position, f.Position) {
			continue
		}
		if f.InjuryStatus != "" && !strings.EqualFold(p.InjuryStatus, f.InjuryStatus) {
			continue
		}
		items = append(items, clonePlayer(p))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].JerseyNumber < items[j].JerseyNumber })
	return paginate(items, page), nil
}

func (r *playerRepository) Update(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ctx.Err(); err != nil {
		return model.Player{}, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.players[p.ID]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	if r.jerseyTaken(p.JerseyNumber, p.ID) {
		return model.Player{}, repository.ErrAlreadyExists
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = now()
	r.store.players[p.ID] = clonePlayer(p)
	return clonePlayer(p), nil
}

func (r *playerRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.players[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.players, id)
	return nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
