// Package contract holds reusable repository conformance suites. Every
// store implementation (Firestore, memory) must pass them unchanged.
package contract

import (
	"context"
	"testing"
	"time"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

type PlayerFactory func(t *testing.T) (repository.PlayerRepository, func())

type MatchFactory func(t *testing.T) (repository.MatchRepository, func())

type StatsFactory func(t *testing.T) (repository.StatsRepository, func())

func testPlayer(jersey int, position string) model.Player {
	return model.Player{
		Name:               "Test Player",
		JerseyNumber:       jersey,
		Position:           position,
		PreferredPositions: []string{position},
		InjuryStatus:       model.InjuryHealthy,
		Availability:       true,
	}
}

func RunPlayerRepositoryContract(t *testing.T, makeRepo PlayerFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, testPlayer(7, model.PositionForward))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.ID == "" {
			t.Fatalf("expected generated id")
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.JerseyNumber != 7 || got.Position != model.PositionForward {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), "missing-id")
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate_jersey_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, testPlayer(10, model.PositionMidfielder)); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.Create(ctx, testPlayer(10, model.PositionDefender))
		if err == nil || err != repository.ErrAlreadyExists {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("update_jersey_collision", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, testPlayer(4, model.PositionDefender)); err != nil {
			t.Fatalf("seed: %v", err)
		}
		second, err := repo.Create(ctx, testPlayer(5, model.PositionDefender))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		second.JerseyNumber = 4
		if _, err := repo.Update(ctx, second); err != repository.ErrAlreadyExists {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
		second.JerseyNumber = 6
		updated, err := repo.Update(ctx, second)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.JerseyNumber != 6 {
			t.Fatalf("update not applied: %+v", updated)
		}
	})

	t.Run("list_filters_and_pagination", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		positions := []string{
			model.PositionGoalkeeper, model.PositionDefender, model.PositionDefender,
			model.PositionMidfielder, model.PositionForward,
		}
		for i, pos := range positions {
			p := testPlayer(20+i, pos)
			if i == 4 {
				p.Availability = false
			}
			if _, err := repo.Create(ctx, p); err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
		}
		res, err := repo.List(ctx, repository.PlayerFilter{Position: model.PositionDefender}, repository.Page{Limit: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 2 || res.Total != 2 {
			t.Fatalf("unexpected defenders page: len=%d total=%d", len(res.Items), res.Total)
		}
		avail := true
		res, err = repo.List(ctx, repository.PlayerFilter{Availability: &avail}, repository.Page{Limit: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 2 || res.Total != 4 {
			t.Fatalf("unexpected availability page: len=%d total=%d", len(res.Items), res.Total)
		}
	})

	t.Run("get_by_ids_skips_missing", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, testPlayer(30, model.PositionMidfielder))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		got, err := repo.GetByIDs(ctx, []string{created.ID, "absent"})
		if err != nil {
			t.Fatalf("get by ids: %v", err)
		}
		if len(got) != 1 || got[0].ID != created.ID {
			t.Fatalf("unexpected resolution: %+v", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, testPlayer(40, model.PositionForward))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		if err := repo.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := repo.Delete(ctx, created.ID); err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunMatchRepositoryContract(t *testing.T, makeRepo MatchFactory) {
	t.Helper()

	t.Run("create_get_update", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		m, err := repo.Create(ctx, model.Match{
			Date:      time.Now().UTC().Add(24 * time.Hour),
			Type:      model.TypeMatch,
			Status:    model.StatusScheduled,
			TeamSheet: []string{"p1", "p2"},
			Duration:  60,
			Opponent:  "Riverside U16",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := repo.GetByID(ctx, m.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Opponent != "Riverside U16" || len(got.TeamSheet) != 2 {
			t.Fatalf("mismatch: %+v", got)
		}
		got.Status = model.StatusOngoing
		got.Playtime = map[string]int{"p1": 0, "p2": 0}
		updated, err := repo.Update(ctx, got)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Status != model.StatusOngoing || len(updated.Playtime) != 2 {
			t.Fatalf("update not applied: %+v", updated)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), "missing-match")
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_filter_status_and_range", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		for i := 0; i < 4; i++ {
			status := model.StatusScheduled
			if i%2 == 0 {
				status = model.StatusCompleted
			}
			_, err := repo.Create(ctx, model.Match{
				Date:     base.AddDate(0, 0, i*7),
				Type:     model.TypeTraining,
				Status:   status,
				Duration: 90,
			})
			if err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
		}
		res, err := repo.List(ctx, repository.MatchFilter{Status: model.StatusCompleted}, repository.Page{Limit: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 2 {
			t.Fatalf("unexpected total: %d", res.Total)
		}
		completed, err := repo.ListCompletedBetween(ctx, base.AddDate(0, 0, -1), base.AddDate(0, 0, 8))
		if err != nil {
			t.Fatalf("list completed: %v", err)
		}
		if len(completed) != 1 {
			t.Fatalf("unexpected window size: %d", len(completed))
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		m, err := repo.Create(ctx, model.Match{Date: time.Now().UTC(), Type: model.TypeMatch, Status: model.StatusScheduled, Duration: 60})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		if err := repo.Delete(ctx, m.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, m.ID); err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func RunStatsRepositoryContract(t *testing.T, makeRepo StatsFactory) {
	t.Helper()

	t.Run("upsert_is_keyed_on_pair", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		first, err := repo.Upsert(ctx, model.Statistics{PlayerID: "p1", MatchID: "m1", Goals: 1, MinutesPlayed: 60})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
		second, err := repo.Upsert(ctx, model.Statistics{PlayerID: "p1", MatchID: "m1", Goals: 2, MinutesPlayed: 75})
		if err != nil {
			t.Fatalf("upsert again: %v", err)
		}
		if first.ID != second.ID {
			t.Fatalf("pair key changed: %s vs %s", first.ID, second.ID)
		}
		all, err := repo.ListByMatch(ctx, "m1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 1 || all[0].Goals != 2 {
			t.Fatalf("expected single updated record, got %+v", all)
		}
	})

	t.Run("pair_lookup_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByPlayerAndMatch(context.Background(), "nobody", "nowhere")
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("aggregate_by_player", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		rating := 8.0
		seeds := []model.Statistics{
			{PlayerID: "p2", MatchID: "m1", Goals: 2, Assists: 1, MinutesPlayed: 90, Rating: &rating, PlayerOfMatch: true},
			{PlayerID: "p2", MatchID: "m2", Goals: 1, MinutesPlayed: 30, SubstitutionsCount: 1},
			{PlayerID: "other", MatchID: "m1", Goals: 5, MinutesPlayed: 90},
		}
		for _, s := range seeds {
			if _, err := repo.Upsert(ctx, s); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		agg, err := repo.AggregateByPlayer(ctx, "p2")
		if err != nil {
			t.Fatalf("aggregate: %v", err)
		}
		if agg.MatchesPlayed != 2 || agg.TotalGoals != 3 || agg.TotalMinutes != 120 {
			t.Fatalf("unexpected totals: %+v", agg)
		}
		if agg.AvgMinutes != 60 || agg.AvgRating != 8.0 || agg.PlayerOfMatchAwards != 1 {
			t.Fatalf("unexpected averages: %+v", agg)
		}
	})
}
