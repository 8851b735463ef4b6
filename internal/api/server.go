// Package api exposes the bot's HTTP surface: REST endpoints for scan
// history, open paper positions and the blacklist, plus a WebSocket
// feed of live events.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"dexscreener-analysis-bot/config"
	"dexscreener-analysis-bot/internal/analysis"
	"dexscreener-analysis-bot/internal/database"
	"dexscreener-analysis-bot/internal/events"
	"dexscreener-analysis-bot/internal/papertrade"
	"dexscreener-analysis-bot/internal/scanner"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server is the HTTP API server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     config.ServerConfig
	startTime  time.Time

	repo      *database.Repository
	scanner   *scanner.Scanner
	trades    *papertrade.Manager
	blacklist *analysis.Blacklist
	wsHub     *WSHub
}

// NewServer creates a new API server
func NewServer(
	cfg config.ServerConfig,
	repo *database.Repository,
	sc *scanner.Scanner,
	trades *papertrade.Manager,
	blacklist *analysis.Blacklist,
	eventBus *events.EventBus,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.AllowedOrigins == "" || cfg.AllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(cfg.AllowedOrigins, ",")
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	router.Use(cors.New(corsConfig))

	server := &Server{
		router:    router,
		config:    cfg,
		startTime: time.Now(),
		repo:      repo,
		scanner:   sc,
		trades:    trades,
		blacklist: blacklist,
		wsHub:     InitWebSocket(eventBus),
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/status", s.handleStatus)

		api.GET("/positions", s.handleGetPositions)
		api.GET("/trades", s.handleGetTrades)
		api.GET("/scans", s.handleGetScans)

		api.GET("/blacklist", s.handleGetBlacklist)
		api.POST("/blacklist", s.handleAddToBlacklist)

		api.GET("/scanner/last", s.handleLastScan)
		api.POST("/scanner/scan", s.handleTriggerScan)
	}

	s.router.GET("/ws", s.handleWebSocket)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting HTTP server on %s", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}
