package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wireboard-server/internal/auth"
	"github.com/vovakirdan/wireboard-server/internal/config"
	"github.com/vovakirdan/wireboard-server/internal/core"
)

// NewServer builds the HTTP server hosting the board endpoints.
func NewServer(hub *core.Hub, tokens *auth.TokenService, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	api := NewAPIHandlers(hub, tokens, logger)
	router.GET("/health", api.Health)
	router.GET("/stats", api.Stats)
	router.POST("/api/token", api.IssueToken)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, tokens, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
