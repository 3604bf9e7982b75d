package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/youthfc/team-manager-service/internal/handler"
	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
	"github.com/youthfc/team-manager-service/internal/service"
	"github.com/youthfc/team-manager-service/pkg/response"
)

// stubMatchService returns canned values; the last* fields record what the
// handler forwarded.
type stubMatchService struct {
	match            model.Match
	err              error
	list             repository.PageResult[model.Match]
	playtime         map[string]int
	lastSubstitution service.SubstitutionInput
	lastTeamSheet    []string
}

func (s *stubMatchService) ScheduleMatch(ctx context.Context, in service.ScheduleMatchInput) (model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) GetMatch(ctx context.Context, id string) (model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) ListMatches(ctx context.Context, f repository.MatchFilter, p repository.Page) (repository.PageResult[model.Match], error) {
	return s.list, s.err
}
func (s *stubMatchService) UpdateMatch(ctx context.Context, m model.Match) (model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) DeleteMatch(ctx context.Context, id string) error { return s.err }
func (s *stubMatchService) CancelMatch(ctx context.Context, id string) (model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) StartMatch(ctx context.Context, id string, teamSheet []string) (model.Match, error) {
	s.lastTeamSheet = teamSheet
	return s.match, s.err
}
func (s *stubMatchService) EndMatch(ctx context.Context, id string, in service.EndMatchInput) (model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) Substitute(ctx context.Context, matchID string, in service.SubstitutionInput) (model.Match, error) {
	s.lastSubstitution = in
	return s.match, s.err
}
func (s *stubMatchService) Playtime(ctx context.Context, matchID string) (map[string]int, error) {
	return s.playtime, s.err
}
func (s *stubMatchService) GenerateTeamSheet(ctx context.Context, matchID string, in service.GenerateTeamInput) (model.Match, error) {
	return s.match, s.err
}

var _ service.MatchService = (*stubMatchService)(nil)

func newMatchRouter(ms service.MatchService, ss service.StatsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.Register(r, handler.Options{
		Pinger:    stubPingerNoop{},
		PlayerSvc: &stubPlayerService{},
		MatchSvc:  ms,
		StatsSvc:  ss,
	})
	return r
}

func TestMatchHandler_Schedule_Created(t *testing.T) {
	stub := &stubMatchService{match: model.Match{ID: "m1", Status: model.StatusScheduled}}
	r := newMatchRouter(stub, &stubStatsService{})

	body, _ := json.Marshal(map[string]any{"type": "match", "date": "2026-09-12T14:00:00Z", "opponent": "Eastside U15"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches", bytes.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMatchHandler_List_BadDateFilter(t *testing.T) {
	r := newMatchRouter(&stubMatchService{}, &stubStatsService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/matches?from=yesterday", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var payload response.ErrorPayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.FieldErrors) != 1 || payload.FieldErrors[0].Field != "from" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestMatchHandler_Start_BodyOptional(t *testing.T) {
	stub := &stubMatchService{match: model.Match{ID: "m1", Status: model.StatusOngoing}}
	r := newMatchRouter(stub, &stubStatsService{})

	// No body at all: the stored team sheet is used.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches/m1/start", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 without body, got %d: %s", w.Code, w.Body.String())
	}

	body, _ := json.Marshal(map[string]any{"team_sheet": []string{"p1", "p2"}})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches/m1/start", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with body, got %d", w.Code)
	}
}

func TestMatchHandler_Start_ChunkedBodyIsRead(t *testing.T) {
	stub := &stubMatchService{match: model.Match{ID: "m1", Status: model.StatusOngoing}}
	r := newMatchRouter(stub, &stubStatsService{})

	// A chunked transfer reports ContentLength -1; the submitted sheet must
	// still reach the service.
	body, _ := json.Marshal(map[string]any{"team_sheet": []string{"p1", "p2"}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches/m1/start", bytes.NewReader(body))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(stub.lastTeamSheet) != 2 || stub.lastTeamSheet[0] != "p1" {
		t.Fatalf("team sheet not forwarded: %v", stub.lastTeamSheet)
	}
}

func TestMatchHandler_Start_MalformedBodyRejected(t *testing.T) {
	stub := &stubMatchService{match: model.Match{ID: "m1"}}
	r := newMatchRouter(stub, &stubStatsService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches/m1/start", bytes.NewReader([]byte("{"))))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestMatchHandler_End_InvalidStateMapsTo409(t *testing.T) {
	stub := &stubMatchService{err: service.ErrInvalidState}
	r := newMatchRouter(stub, &stubStatsService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches/m1/end", nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestMatchHandler_Substitution_ForwardsInput(t *testing.T) {
	stub := &stubMatchService{match: model.Match{ID: "m1"}}
	r := newMatchRouter(stub, &stubStatsService{})

	body, _ := json.Marshal(map[string]string{
		"player_in":  "p10",
		"player_out": "p2",
		"reason":     "Knock, possible ankle injury",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches/m1/substitutions", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.lastSubstitution.PlayerIn != "p10" || stub.lastSubstitution.PlayerOut != "p2" {
		t.Fatalf("input not forwarded: %+v", stub.lastSubstitution)
	}
}

func TestMatchHandler_Playtime(t *testing.T) {
	stub := &stubMatchService{playtime: map[string]int{"p1": 45, "p2": 30}}
	r := newMatchRouter(stub, &stubStatsService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/matches/m1/playtime", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload struct {
		Playtime map[string]int `json:"playtime"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Playtime["p1"] != 45 {
		t.Fatalf("unexpected ledger: %+v", payload.Playtime)
	}
}

func TestMatchHandler_GenerateTeam(t *testing.T) {
	stub := &stubMatchService{match: model.Match{ID: "m1", TeamSheet: make([]string, 11)}}
	r := newMatchRouter(stub, &stubStatsService{})

	body, _ := json.Marshal(map[string]any{"formation": "4-4-2", "prioritize_rest": true})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches/m1/generate-team", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMatchHandler_Materialize(t *testing.T) {
	r := newMatchRouter(&stubMatchService{}, &stubStatsService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches/m1/materialize", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	failing := &stubStatsService{materializeErr: service.ErrInvalidState}
	r = newMatchRouter(&stubMatchService{}, failing)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches/m1/materialize", nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for non-completed match, got %d", w.Code)
	}
}
