package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
	"github.com/youthfc/team-manager-service/internal/service"
	"github.com/youthfc/team-manager-service/pkg/response"
)

// parseBoolQuery is a helper to flexibly parse boolean-like query parameters.
func parseBoolQuery(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1"
}

type PlayerHandler struct {
	svc   service.PlayerService
	stats service.StatsService
}

func NewPlayerHandler(svc service.PlayerService, stats service.StatsService) *PlayerHandler {
	return &PlayerHandler{svc: svc, stats: stats}
}

func (h *PlayerHandler) Register(r *gin.RouterGroup, coachOnly gin.HandlerFunc) {
	g := r.Group("/players")
	{
		g.POST("", coachOnly, h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.PUT("/:id", coachOnly, h.update)
		g.DELETE("/:id", coachOnly, h.delete)
		g.GET("/:id/stats", h.listStats)
		g.GET("/:id/aggregates", h.getAggregates)
		g.POST("/:id/injuries", coachOnly, h.logInjury)
	}
}

type playerRequest struct {
	Name               string     `json:"name"`
	JerseyNumber       int        `json:"jersey_number"`
	Position           string     `json:"position"`
	PreferredPositions []string   `json:"preferred_positions"`
	InjuryStatus       string     `json:"injury_status"`
	Availability       *bool      `json:"availability"`
	DateOfBirth        *time.Time `json:"date_of_birth"`
	Notes              string     `json:"notes"`
}

func (req *playerRequest) toModel(id string) model.Player {
	availability := true
	if req.Availability != nil {
		availability = *req.Availability
	}
	return model.Player{
		ID:                 id,
		Name:               req.Name,
		JerseyNumber:       req.JerseyNumber,
		Position:           req.Position,
		PreferredPositions: req.PreferredPositions,
		InjuryStatus:       req.InjuryStatus,
		Availability:       availability,
		DateOfBirth:        req.DateOfBirth,
		Notes:              req.Notes,
	}
}

func (h *PlayerHandler) create(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	player, err := h.svc.CreatePlayer(c.Request.Context(), req.toModel(""))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, player)
}

func (h *PlayerHandler) getByID(c *gin.Context) {
	player, err := h.svc.GetPlayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, player)
}

func (h *PlayerHandler) list(c *gin.Context) {
	var filter repository.PlayerFilter
	if v := c.Query("availability"); v != "" {
		avail := parseBoolQuery(v)
		filter.Availability = &avail
	}
	filter.Position = c.Query("position")
	filter.InjuryStatus = c.Query("injury_status")

	// Atoi errors are ignored intentionally, as 0 is a valid default for limit/offset, handled by the service layer.
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	res, err := h.svc.ListPlayers(c.Request.Context(), filter, repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *PlayerHandler) update(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	player, err := h.svc.UpdatePlayer(c.Request.Context(), req.toModel(c.Param("id")))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, player)
}

func (h *PlayerHandler) delete(c *gin.Context) {
	if err := h.svc.DeletePlayer(c.Request.Context(), c.Param("id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlayerHandler) listStats(c *gin.Context) {
	records, err := h.stats.ListStatsByPlayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, records)
}

func (h *PlayerHandler) getAggregates(c *gin.Context) {
	agg, err := h.stats.GetPlayerAggregates(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, agg)
}

type logInjuryRequest struct {
	MatchID     string `json:"match_id"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

func (h *PlayerHandler) logInjury(c *gin.Context) {
	var req logInjuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	rec, err := h.stats.LogInjury(c.Request.Context(), c.Param("id"), service.InjuryInput{
		MatchID:     req.MatchID,
		Description: req.Description,
		Severity:    req.Severity,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, rec)
}
