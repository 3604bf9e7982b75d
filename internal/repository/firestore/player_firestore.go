package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

type playerRepository struct{ client *firestore.Client }

func NewPlayerRepository(client *firestore.Client) repository.PlayerRepository {
	return &playerRepository{client: client}
}

func (r *playerRepository) col() *firestore.CollectionRef {
	return r.client.Collection(playersCollection)
}

// jerseyTaken checks for another player holding the same jersey number.
// There is no store-side unique constraint; the pre-check is best effort and
// racing writers are accepted (the roster is edited by a single coach).
func (r *playerRepository) jerseyTaken(ctx context.Context, number int, exceptID string) (bool, error) {
	iter := r.col().Where("jerseyNumber", "==", number).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return false, nil
		}
		if err != nil {
			return false, repository.MapStoreError(err)
		}
		if doc.Ref.ID != exceptID {
			return true, nil
		}
	}
}

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	taken, err := r.jerseyTaken(ctx, p.JerseyNumber, "")
	if err != nil {
		return model.Player{}, err
	}
	if taken {
		return model.Player{}, repository.ErrAlreadyExists
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	ts := time.Now().UTC()
	p.CreatedAt = ts
	p.UpdatedAt = ts
	if _, err := r.col().Doc(p.ID).Set(ctx, p); err != nil {
		return model.Player{}, repository.MapStoreError(err)
	}
	return p, nil
}

func (r *playerRepository) GetByID(ctx context.Context, id string) (model.Player, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return model.Player{}, repository.MapStoreError(err)
	}
	var p model.Player
	if err := doc.DataTo(&p); err != nil {
		return model.Player{}, err
	}
	return p, nil
}

func (r *playerRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Player, error) {
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.col().Doc(id))
	}
	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, repository.MapStoreError(err)
	}
	out := make([]model.Player, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var p model.Player
		if err := doc.DataTo(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *playerRepository) List(ctx context.Context, f repository.PlayerFilter, page repository.Page) (repository.PageResult[model.Player], error) {
	q := r.col().Query
	if f.Availability != nil {
		q = q.Where("availability", "==", *f.Availability)
	}
	if f.Position != "" {
		q = q.Where("position", "==", f.Position)
	}
	if f.InjuryStatus != "" {
		q = q.Where("injuryStatus", "==", f.InjuryStatus)
	}
	players, err := readAll[model.Player](q.Documents(ctx))
	if err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	sort.Slice(players, func(i, j int) bool { return players[i].JerseyNumber < players[j].JerseyNumber })
	return paginate(players, page), nil
}

func (r *playerRepository) Update(ctx context.Context, p model.Player) (model.Player, error) {
	existing, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return model.Player{}, err
	}
	taken, err := r.jerseyTaken(ctx, p.JerseyNumber, p.ID)
	if err != nil {
		return model.Player{}, err
	}
	if taken {
		return model.Player{}, repository.ErrAlreadyExists
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	if _, err := r.col().Doc(p.ID).Set(ctx, p); err != nil {
		return model.Player{}, repository.MapStoreError(err)
	}
	return p, nil
}

func (r *playerRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if _, err := r.col().Doc(id).Delete(ctx); err != nil {
		return repository.MapStoreError(err)
	}
	return nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
