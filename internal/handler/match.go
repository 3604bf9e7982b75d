package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
	"github.com/youthfc/team-manager-service/internal/service"
	"github.com/youthfc/team-manager-service/pkg/response"
)

type MatchHandler struct {
	svc   service.MatchService
	stats service.StatsService
}

func NewMatchHandler(svc service.MatchService, stats service.StatsService) *MatchHandler {
	return &MatchHandler{svc: svc, stats: stats}
}

func (h *MatchHandler) Register(r *gin.RouterGroup, coachOnly gin.HandlerFunc) {
	g := r.Group("/matches")
	{
		g.POST("", coachOnly, h.schedule)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.PUT("/:id", coachOnly, h.update)
		g.DELETE("/:id", coachOnly, h.delete)
		g.POST("/:id/start", coachOnly, h.start)
		g.POST("/:id/end", coachOnly, h.end)
		g.POST("/:id/cancel", coachOnly, h.cancel)
		g.POST("/:id/substitutions", coachOnly, h.substitute)
		g.GET("/:id/playtime", h.playtime)
		g.POST("/:id/generate-team", coachOnly, h.generateTeam)
		g.POST("/:id/materialize", coachOnly, h.materialize)
		g.GET("/:id/stats", h.listStats)
	}
}

type matchRequest struct {
	Date      time.Time `json:"date"`
	Type      string    `json:"type"`
	TeamSheet []string  `json:"team_sheet"`
	Duration  int       `json:"duration"`
	Opponent  string    `json:"opponent"`
	Venue     string    `json:"venue"`
	Notes     string    `json:"notes"`
}

func (h *MatchHandler) schedule(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.ScheduleMatch(c.Request.Context(), service.ScheduleMatchInput{
		Date:      req.Date,
		Type:      req.Type,
		TeamSheet: req.TeamSheet,
		Duration:  req.Duration,
		Opponent:  req.Opponent,
		Venue:     req.Venue,
		Notes:     req.Notes,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, m)
}

func (h *MatchHandler) getByID(c *gin.Context) {
	m, err := h.svc.GetMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) list(c *gin.Context) {
	filter := repository.MatchFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = t
		} else {
			response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "from", Message: "must be RFC3339"}}))
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = t
		} else {
			response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "to", Message: "must be RFC3339"}}))
			return
		}
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	res, err := h.svc.ListMatches(c.Request.Context(), filter, repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *MatchHandler) update(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.UpdateMatch(c.Request.Context(), model.Match{
		ID:        c.Param("id"),
		Date:      req.Date,
		Type:      req.Type,
		TeamSheet: req.TeamSheet,
		Duration:  req.Duration,
		Opponent:  req.Opponent,
		Venue:     req.Venue,
		Notes:     req.Notes,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) delete(c *gin.Context) {
	if err := h.svc.DeleteMatch(c.Request.Context(), c.Param("id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type startMatchRequest struct {
	TeamSheet []string `json:"team_sheet"`
}

func (h *MatchHandler) start(c *gin.Context) {
	var req startMatchRequest
	// The body is optional: starting without one keeps the stored sheet.
	// io.EOF means an empty body, which is fine; ContentLength is not
	// checked because chunked requests report -1.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.StartMatch(c.Request.Context(), c.Param("id"), req.TeamSheet)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

type endMatchRequest struct {
	MatchResult  *model.MatchResult        `json:"match_result"`
	Performances []model.PlayerPerformance `json:"player_performances"`
}

func (h *MatchHandler) end(c *gin.Context) {
	var req endMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.EndMatch(c.Request.Context(), c.Param("id"), service.EndMatchInput{
		Result:       req.MatchResult,
		Performances: req.Performances,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) cancel(c *gin.Context) {
	m, err := h.svc.CancelMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

type substitutionRequest struct {
	PlayerIn     string     `json:"player_in"`
	PlayerOut    string     `json:"player_out"`
	Time         *time.Time `json:"time"`
	Reason       string     `json:"reason"`
	InjuryStatus string     `json:"injury_status"`
	InjuryNotes  string     `json:"injury_notes"`
}

func (h *MatchHandler) substitute(c *gin.Context) {
	var req substitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.Substitute(c.Request.Context(), c.Param("id"), service.SubstitutionInput{
		PlayerIn:     req.PlayerIn,
		PlayerOut:    req.PlayerOut,
		Time:         req.Time,
		Reason:       req.Reason,
		InjuryStatus: req.InjuryStatus,
		InjuryNotes:  req.InjuryNotes,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) playtime(c *gin.Context) {
	ledger, err := h.svc.Playtime(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"playtime": ledger})
}

type generateTeamRequest struct {
	Formation      string `json:"formation"`
	PrioritizeRest bool   `json:"prioritize_rest"`
}

func (h *MatchHandler) generateTeam(c *gin.Context) {
	var req generateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.GenerateTeamSheet(c.Request.Context(), c.Param("id"), service.GenerateTeamInput{
		Formation:      req.Formation,
		PrioritizeRest: req.PrioritizeRest,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

// materialize re-runs statistics materialization for a completed match.
// It is the recovery path when the post-completion step failed.
func (h *MatchHandler) materialize(c *gin.Context) {
	if err := h.stats.MaterializeMatch(c.Request.Context(), c.Param("id")); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"status": "materialized"})
}

func (h *MatchHandler) listStats(c *gin.Context) {
	records, err := h.stats.ListStatsByMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, records)
}
