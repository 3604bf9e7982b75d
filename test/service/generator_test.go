package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/service"
)

// seedPositionalSquad fills the roster with enough depth for a 4-4-2:
// 2 goalkeepers, 5 defenders, 5 midfielders, 3 forwards.
func seedPositionalSquad(players *fakePlayerRepo) map[string][]string {
	byPosition := map[string][]string{}
	jersey := 1
	addGroup := func(position string, n int) {
		for i := 0; i < n; i++ {
			p := players.add(model.Player{
				ID:           fmt.Sprintf("%s-%d", position, i+1),
				Name:         fmt.Sprintf("%s %d", position, i+1),
				JerseyNumber: jersey,
				Position:     position,
				Availability: true,
				InjuryStatus: model.InjuryHealthy,
			})
			byPosition[position] = append(byPosition[position], p.ID)
			jersey++
		}
	}
	addGroup(model.PositionGoalkeeper, 2)
	addGroup(model.PositionDefender, 5)
	addGroup(model.PositionMidfielder, 5)
	addGroup(model.PositionForward, 3)
	return byPosition
}

func countPosition(players *fakePlayerRepo, sheet []string, position string) int {
	n := 0
	for _, id := range sheet {
		p, _ := players.GetByID(context.Background(), id)
		if p.Position == position {
			n++
		}
	}
	return n
}

func TestGenerateTeamSheet_FormationProducesElevenWithOneKeeper(t *testing.T) {
	players := newFakePlayerRepo()
	seedPositionalSquad(players)
	matches := newFakeMatchRepo()
	svc := newMatchService(matches, players, nil, nil)
	ctx := context.Background()

	scheduled := matches.add(model.Match{Type: model.TypeMatch, Status: model.StatusScheduled, Date: time.Now().Add(72 * time.Hour)})
	m, err := svc.GenerateTeamSheet(ctx, scheduled.ID, service.GenerateTeamInput{Formation: "4-4-2"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(m.TeamSheet) != 11 {
		t.Fatalf("expected 11 players, got %d", len(m.TeamSheet))
	}
	if gk := countPosition(players, m.TeamSheet, model.PositionGoalkeeper); gk != 1 {
		t.Fatalf("expected exactly 1 goalkeeper, got %d", gk)
	}
	seen := map[string]bool{}
	for _, id := range m.TeamSheet {
		if seen[id] {
			t.Fatalf("duplicate selection %s: %v", id, m.TeamSheet)
		}
		seen[id] = true
	}
}

func TestGenerateTeamSheet_WalksEveryRosterPage(t *testing.T) {
	players := newFakePlayerRepo()
	// The first listing page is all forwards; every goalkeeper and defender
	// sorts after it. Truncating the roster at one page would leave the
	// sheet without a keeper.
	for i := 0; i < 220; i++ {
		players.add(model.Player{
			ID:           fmt.Sprintf("fw-%d", i+1),
			Name:         fmt.Sprintf("Forward %d", i+1),
			JerseyNumber: i + 1,
			Position:     model.PositionForward,
			Availability: true,
			InjuryStatus: model.InjuryHealthy,
		})
	}
	players.add(model.Player{
		ID: "gk-late", Name: "Late Keeper", JerseyNumber: 221,
		Position: model.PositionGoalkeeper, Availability: true, InjuryStatus: model.InjuryHealthy,
	})
	for i := 0; i < 4; i++ {
		players.add(model.Player{
			ID:           fmt.Sprintf("def-late-%d", i+1),
			Name:         fmt.Sprintf("Late Defender %d", i+1),
			JerseyNumber: 222 + i,
			Position:     model.PositionDefender,
			Availability: true,
			InjuryStatus: model.InjuryHealthy,
		})
	}
	matches := newFakeMatchRepo()
	svc := newMatchService(matches, players, nil, nil)
	ctx := context.Background()

	scheduled := matches.add(model.Match{Type: model.TypeMatch, Status: model.StatusScheduled, Date: time.Now().Add(72 * time.Hour)})
	m, err := svc.GenerateTeamSheet(ctx, scheduled.ID, service.GenerateTeamInput{Formation: "4-4-2"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(m.TeamSheet) != 11 {
		t.Fatalf("expected 11 players, got %d", len(m.TeamSheet))
	}
	if gk := countPosition(players, m.TeamSheet, model.PositionGoalkeeper); gk != 1 {
		t.Fatalf("expected the second-page goalkeeper to be seen, got %d keepers", gk)
	}
	if d := countPosition(players, m.TeamSheet, model.PositionDefender); d != 4 {
		t.Fatalf("expected all 4 second-page defenders, got %d", d)
	}
}

func TestGenerateTeamSheet_RotationPrefersRestedPlayers(t *testing.T) {
	players := newFakePlayerRepo()
	byPos := seedPositionalSquad(players)
	matches := newFakeMatchRepo()
	svc := newMatchService(matches, players, nil, nil)
	ctx := context.Background()

	target := time.Now().Add(72 * time.Hour)
	// One defender played heavily in a recent completed match; the others
	// are fresh, so a 4-4-2 should bench the tired one.
	tired := byPos[model.PositionDefender][0]
	matches.add(model.Match{
		Type: model.TypeMatch, Status: model.StatusCompleted,
		Date:     target.AddDate(0, 0, -7),
		Playtime: map[string]int{tired: 90},
	})

	scheduled := matches.add(model.Match{Type: model.TypeMatch, Status: model.StatusScheduled, Date: target})
	m, err := svc.GenerateTeamSheet(ctx, scheduled.ID, service.GenerateTeamInput{Formation: "4-4-2", PrioritizeRest: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, id := range m.TeamSheet {
		if id == tired {
			t.Fatalf("tired defender selected despite 4 rested alternatives: %v", m.TeamSheet)
		}
	}
}

func TestGenerateTeamSheet_OldPlaytimeOutsideWindowIgnored(t *testing.T) {
	players := newFakePlayerRepo()
	byPos := seedPositionalSquad(players)
	matches := newFakeMatchRepo()
	svc := newMatchService(matches, players, nil, nil)
	ctx := context.Background()

	target := time.Now().Add(72 * time.Hour)
	// Heavy minutes, but two months back: outside the 30-day window, so the
	// lowest-jersey defender is still picked first.
	veteran := byPos[model.PositionDefender][0]
	matches.add(model.Match{
		Type: model.TypeMatch, Status: model.StatusCompleted,
		Date:     target.AddDate(0, -2, 0),
		Playtime: map[string]int{veteran: 500},
	})

	scheduled := matches.add(model.Match{Type: model.TypeMatch, Status: model.StatusScheduled, Date: target})
	m, err := svc.GenerateTeamSheet(ctx, scheduled.ID, service.GenerateTeamInput{Formation: "4-4-2", PrioritizeRest: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	found := false
	for _, id := range m.TeamSheet {
		if id == veteran {
			found = true
		}
	}
	if !found {
		t.Fatalf("stale playtime should not bench the player: %v", m.TeamSheet)
	}
}

func TestGenerateTeamSheet_Rejections(t *testing.T) {
	players := newFakePlayerRepo()
	seedPositionalSquad(players)
	matches := newFakeMatchRepo()
	svc := newMatchService(matches, players, nil, nil)
	ctx := context.Background()

	t.Run("bad formation", func(t *testing.T) {
		scheduled := matches.add(model.Match{Type: model.TypeMatch, Status: model.StatusScheduled, Date: time.Now()})
		for _, formation := range []string{"", "4-4", "4-4-x", "5-5-5"} {
			_, err := svc.GenerateTeamSheet(ctx, scheduled.ID, service.GenerateTeamInput{Formation: formation})
			if !serviceErrIsInvalid(err) || !hasFieldError(err, "formation") {
				t.Fatalf("formation %q: expected formation error, got %v", formation, err)
			}
		}
	})

	t.Run("non scheduled match", func(t *testing.T) {
		ongoing := matches.add(model.Match{Type: model.TypeMatch, Status: model.StatusOngoing, Date: time.Now()})
		_, err := svc.GenerateTeamSheet(ctx, ongoing.ID, service.GenerateTeamInput{Formation: "4-4-2"})
		if !serviceErrIsInvalidState(err) {
			t.Fatalf("expected invalid state, got %v", err)
		}
	})

	t.Run("too few eligible players", func(t *testing.T) {
		thin := newFakePlayerRepo()
		seedSquad(thin, 8)
		thinSvc := newMatchService(matches, thin, nil, nil)
		scheduled := matches.add(model.Match{Type: model.TypeMatch, Status: model.StatusScheduled, Date: time.Now()})
		_, err := thinSvc.GenerateTeamSheet(ctx, scheduled.ID, service.GenerateTeamInput{Formation: "4-4-2"})
		if !serviceErrIsInvalid(err) || !hasFieldError(err, "players") {
			t.Fatalf("expected players error, got %v", err)
		}
	})
}

func TestGenerateTeamSheet_InjuredAndUnavailableExcluded(t *testing.T) {
	players := newFakePlayerRepo()
	byPos := seedPositionalSquad(players)
	matches := newFakeMatchRepo()
	svc := newMatchService(matches, players, nil, nil)
	ctx := context.Background()

	// A major injury and an unavailability both remove a defender from the
	// pool; 3 healthy defenders remain so the formation backfills.
	hurt, _ := players.GetByID(ctx, byPos[model.PositionDefender][0])
	hurt.InjuryStatus = model.InjuryMajor
	if _, err := players.Update(ctx, hurt); err != nil {
		t.Fatalf("seed: %v", err)
	}
	away, _ := players.GetByID(ctx, byPos[model.PositionDefender][1])
	away.Availability = false
	if _, err := players.Update(ctx, away); err != nil {
		t.Fatalf("seed: %v", err)
	}

	scheduled := matches.add(model.Match{Type: model.TypeMatch, Status: model.StatusScheduled, Date: time.Now().Add(24 * time.Hour)})
	m, err := svc.GenerateTeamSheet(ctx, scheduled.ID, service.GenerateTeamInput{Formation: "4-4-2"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(m.TeamSheet) != 11 {
		t.Fatalf("expected 11 players, got %d", len(m.TeamSheet))
	}
	for _, id := range m.TeamSheet {
		if id == hurt.ID || id == away.ID {
			t.Fatalf("ineligible player %s selected: %v", id, m.TeamSheet)
		}
	}
}
