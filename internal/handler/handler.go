package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youthfc/team-manager-service/internal/service"
)

// Options bundles what Register needs: services, the readiness probe,
// middleware for authentication and the coach/admin gate, and the optional
// websocket feed.
type Options struct {
	Pinger    Pinger
	PlayerSvc service.PlayerService
	MatchSvc  service.MatchService
	StatsSvc  service.StatsService

	// Authenticate guards every /api/v1 route; CoachOnly additionally
	// guards mutations. Tests pass no-ops.
	Authenticate gin.HandlerFunc
	CoachOnly    gin.HandlerFunc

	// ServeWS, when set, mounts the advisory live-event feed at /ws.
	ServeWS http.HandlerFunc
}

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, opts Options) {
	h := NewHealthHandler(opts.Pinger)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	if opts.ServeWS != nil {
		r.GET("/ws", gin.WrapF(opts.ServeWS))
	}

	authn := opts.Authenticate
	if authn == nil {
		authn = func(c *gin.Context) { c.Next() }
	}
	coach := opts.CoachOnly
	if coach == nil {
		coach = func(c *gin.Context) { c.Next() }
	}

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	api.Use(authn)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewPlayerHandler(opts.PlayerSvc, opts.StatsSvc).Register(api, coach)
		NewMatchHandler(opts.MatchSvc, opts.StatsSvc).Register(api, coach)
	}
}
