// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"voyage/internal/http/handlers"
	"voyage/internal/http/middleware"
	"voyage/internal/maps"
	"voyage/internal/metrics"
	"voyage/internal/modules/session"
)

type ServerDeps struct {
	Planner     handlers.Planner
	Sessions    *session.Service
	Exporter    handlers.Exporter
	Places      maps.DetailsProvider
	Metrics     *metrics.Metrics
	Log         *zap.Logger
	PlanTimeout time.Duration
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(
		middleware.Recovery(s.deps.Log),
		middleware.Session(),
		middleware.Logging(s.deps.Log, s.deps.Metrics),
	)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))

	itineraries := handlers.NewItineraryHandler(s.deps.Planner, s.deps.Sessions, s.deps.PlanTimeout)
	sessions := handlers.NewSessionHandler(s.deps.Sessions, s.deps.Exporter)
	places := handlers.NewPlacesHandler(s.deps.Places)

	api := r.Group("/api")
	api.GET("/durations", itineraries.Durations)
	api.POST("/itineraries", itineraries.Plan)
	api.GET("/itineraries/current", itineraries.Current)
	api.POST("/itineraries/current/email", sessions.Email)
	api.POST("/session/login", sessions.Login)
	api.POST("/session/logout", sessions.Logout)
	api.GET("/places/:xid", places.Details)

	return r
}
