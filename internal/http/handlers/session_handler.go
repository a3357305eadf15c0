// README: Session identity and email export endpoints.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"voyage/internal/modules/export"
	"voyage/internal/modules/session"
)

// Exporter sends a session's current itinerary to its identity.
type Exporter interface {
	Email(ctx context.Context, sess export.Session) error
}

type SessionHandler struct {
	sessions *session.Service
	exporter Exporter
}

func NewSessionHandler(sessions *session.Service, exporter Exporter) *SessionHandler {
	return &SessionHandler{sessions: sessions, exporter: exporter}
}

type loginReq struct {
	Email string `json:"email"`
}

// Login handles POST /api/session/login.
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	sc, ok := scope(c, h.sessions)
	if !ok {
		return
	}
	if err := sc.Login(c.Request.Context(), req.Email); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Logout handles POST /api/session/logout.
func (h *SessionHandler) Logout(c *gin.Context) {
	sc, ok := scope(c, h.sessions)
	if !ok {
		return
	}
	if err := sc.Logout(c.Request.Context()); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Email handles POST /api/itineraries/current/email.
func (h *SessionHandler) Email(c *gin.Context) {
	sc, ok := scope(c, h.sessions)
	if !ok {
		return
	}
	if err := h.exporter.Email(c.Request.Context(), sc); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusAccepted, gin.H{"status": "sent"})
}
