package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wireboard-server/internal/auth"
	"github.com/vovakirdan/wireboard-server/internal/core"
)

// APIHandlers provides HTTP handlers for the REST endpoints next to /ws.
type APIHandlers struct {
	hub    *core.Hub
	tokens *auth.TokenService
	log    *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub *core.Hub, tokens *auth.TokenService, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		hub:    hub,
		tokens: tokens,
		log:    logger,
	}
}

// TokenResponse represents the token response body.
type TokenResponse struct {
	Token string `json:"token"`
}

// StatsResponse represents the stats response body.
type StatsResponse struct {
	Clients int `json:"clients"`
	Lines   int `json:"lines"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health reports liveness.
// GET /health
func (h *APIHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats reports the number of connected clients and logged lines.
// GET /stats
func (h *APIHandlers) Stats(c *gin.Context) {
	clients, lines := h.hub.Stats()
	c.JSON(http.StatusOK, StatsResponse{Clients: clients, Lines: lines})
}

// IssueToken hands out a guest session token.
// POST /api/token
func (h *APIHandlers) IssueToken(c *gin.Context) {
	if !h.tokens.Enabled() {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "authentication disabled"})
		return
	}

	token, err := h.tokens.IssueGuest()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to issue token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
