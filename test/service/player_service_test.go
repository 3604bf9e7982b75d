package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
	"github.com/youthfc/team-manager-service/internal/service"
)

// fakePlayerRepo is a map-backed PlayerRepository shared across the service
// tests in this package.
type fakePlayerRepo struct {
	nextID  int
	players map[string]model.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{nextID: 1, players: map[string]model.Player{}}
}

func (f *fakePlayerRepo) add(p model.Player) model.Player {
	if p.ID == "" {
		p.ID = fmt.Sprintf("player-%d", f.nextID)
		f.nextID++
	}
	f.players[p.ID] = p
	return p
}

func (f *fakePlayerRepo) Create(_ context.Context, p model.Player) (model.Player, error) {
	for _, existing := range f.players {
		if existing.JerseyNumber == p.JerseyNumber {
			return model.Player{}, repository.ErrAlreadyExists
		}
	}
	return f.add(p), nil
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id string) (model.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePlayerRepo) GetByIDs(_ context.Context, ids []string) ([]model.Player, error) {
	var out []model.Player
	for _, id := range ids {
		if p, ok := f.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlayerRepo) List(_ context.Context, filter repository.PlayerFilter, page repository.Page) (repository.PageResult[model.Player], error) {
	var matched []model.Player
	for _, p := range f.players {
		if filter.Availability != nil && p.Availability != *filter.Availability {
			continue
		}
		if filter.Position != "" && p.Position != filter.Position {
			continue
		}
		if filter.InjuryStatus != "" && p.InjuryStatus != filter.InjuryStatus {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].JerseyNumber < matched[j].JerseyNumber })

	res := repository.PageResult[model.Player]{Items: []model.Player{}, Total: len(matched)}
	limit := page.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return res, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	res.Items = matched[offset:end]
	return res, nil
}

func (f *fakePlayerRepo) Update(_ context.Context, p model.Player) (model.Player, error) {
	if _, ok := f.players[p.ID]; !ok {
		return model.Player{}, repository.ErrNotFound
	}
	f.players[p.ID] = p
	return p, nil
}

func (f *fakePlayerRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.players[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.players, id)
	return nil
}

var _ repository.PlayerRepository = (*fakePlayerRepo)(nil)

func serviceErrIsInvalid(err error) bool {
	return errors.Is(err, service.ErrInvalidInput)
}

func serviceErrIsInvalidState(err error) bool {
	return errors.Is(err, service.ErrInvalidState)
}

func hasFieldError(err error, field string) bool {
	for _, fe := range service.FieldErrors(err) {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestPlayerService_CreatePlayer_Validation(t *testing.T) {
	logger := zerolog.New(io.Discard)
	tooOld := time.Now().UTC().AddDate(-25, 0, 0)
	future := time.Now().UTC().AddDate(1, 0, 0)
	young := time.Now().UTC().AddDate(-12, 0, 0)

	cases := []struct {
		name    string
		player  model.Player
		wantErr bool
		field   string
	}{
		{"missing name", model.Player{JerseyNumber: 7, Position: "Forward"}, true, "name"},
		{"jersey too low", model.Player{Name: "A", JerseyNumber: 0, Position: "Forward"}, true, "jersey_number"},
		{"jersey too high", model.Player{Name: "A", JerseyNumber: 100, Position: "Forward"}, true, "jersey_number"},
		{"bad position", model.Player{Name: "A", JerseyNumber: 7, Position: "Striker"}, true, "position"},
		{"bad preferred position", model.Player{Name: "A", JerseyNumber: 7, Position: "Forward", PreferredPositions: []string{"Sweeper"}}, true, "preferred_positions"},
		{"bad injury status", model.Player{Name: "A", JerseyNumber: 7, Position: "Forward", InjuryStatus: "Broken"}, true, "injury_status"},
		{"dob in future", model.Player{Name: "A", JerseyNumber: 7, Position: "Forward", DateOfBirth: &future}, true, "date_of_birth"},
		{"dob too old", model.Player{Name: "A", JerseyNumber: 7, Position: "Forward", DateOfBirth: &tooOld}, true, "date_of_birth"},
		{"ok", model.Player{Name: "A", JerseyNumber: 7, Position: "forward", DateOfBirth: &young, Availability: true}, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := service.NewPlayerService(newFakePlayerRepo(), logger)
			_, err := svc.CreatePlayer(context.Background(), tc.player)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr {
				if !serviceErrIsInvalid(err) {
					t.Fatalf("want invalid input, got %v", err)
				}
				if tc.field != "" && !hasFieldError(err, tc.field) {
					t.Fatalf("field %s not reported in %v", tc.field, service.FieldErrors(err))
				}
			}
		})
	}
}

func TestPlayerService_CreatePlayer_Defaults(t *testing.T) {
	logger := zerolog.New(io.Discard)
	repo := newFakePlayerRepo()
	svc := service.NewPlayerService(repo, logger)

	created, err := svc.CreatePlayer(context.Background(), model.Player{
		Name:         "Jonas Berg",
		JerseyNumber: 9,
		Position:     "midfielder",
		Availability: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Position != model.PositionMidfielder {
		t.Fatalf("position not normalized: %q", created.Position)
	}
	if len(created.PreferredPositions) != 1 || created.PreferredPositions[0] != model.PositionMidfielder {
		t.Fatalf("preferred positions not defaulted: %v", created.PreferredPositions)
	}
	if created.InjuryStatus != model.InjuryHealthy {
		t.Fatalf("injury status not defaulted: %q", created.InjuryStatus)
	}
}

func TestPlayerService_CreatePlayer_DuplicateJersey(t *testing.T) {
	logger := zerolog.New(io.Discard)
	repo := newFakePlayerRepo()
	svc := service.NewPlayerService(repo, logger)
	ctx := context.Background()

	first := model.Player{Name: "A", JerseyNumber: 8, Position: "Defender", Availability: true}
	if _, err := svc.CreatePlayer(ctx, first); err != nil {
		t.Fatalf("seed: %v", err)
	}
	second := model.Player{Name: "B", JerseyNumber: 8, Position: "Forward", Availability: true}
	if _, err := svc.CreatePlayer(ctx, second); !errors.Is(err, repository.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestPlayerService_GetPlayer_EmptyID(t *testing.T) {
	svc := service.NewPlayerService(newFakePlayerRepo(), zerolog.New(io.Discard))
	if _, err := svc.GetPlayer(context.Background(), "  "); !serviceErrIsInvalid(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestPlayerService_ListPlayers_FilterValidation(t *testing.T) {
	svc := service.NewPlayerService(newFakePlayerRepo(), zerolog.New(io.Discard))
	_, err := svc.ListPlayers(context.Background(), repository.PlayerFilter{Position: "Libero"}, repository.Page{})
	if !serviceErrIsInvalid(err) || !hasFieldError(err, "position") {
		t.Fatalf("expected position filter error, got %v", err)
	}
}

func TestPlayerService_DeletePlayer(t *testing.T) {
	repo := newFakePlayerRepo()
	created := repo.add(model.Player{Name: "X", JerseyNumber: 3, Position: model.PositionDefender})
	svc := service.NewPlayerService(repo, zerolog.New(io.Discard))
	ctx := context.Background()

	if err := svc.DeletePlayer(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeletePlayer(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
