package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// handleHealth returns server health status
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	dbStatus := "disabled"
	if s.repo != nil {
		if err := s.repo.HealthCheck(ctx); err != nil {
			dbStatus = "unhealthy"
		} else {
			dbStatus = "healthy"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"uptime":     time.Since(s.startTime).String(),
		"database":   dbStatus,
		"ws_clients": s.wsHub.GetClientCount(),
	})
}

// handleStatus returns a bot overview
func (s *Server) handleStatus(c *gin.Context) {
	resp := gin.H{
		"uptime": time.Since(s.startTime).String(),
	}

	if s.trades != nil {
		opens, closes := s.trades.Stats()
		resp["open_positions"] = len(s.trades.OpenPositions())
		resp["trades_opened"] = opens
		resp["trades_closed"] = closes
	}
	if s.blacklist != nil {
		resp["blacklist_size"] = s.blacklist.Len()
	}
	if s.scanner != nil {
		resp["last_scan"] = s.scanner.LastScan()
	}

	c.JSON(http.StatusOK, resp)
}

// handleGetPositions returns open paper positions
func (s *Server) handleGetPositions(c *gin.Context) {
	if s.trades == nil {
		c.JSON(http.StatusOK, gin.H{"positions": []interface{}{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": s.trades.OpenPositions()})
}

// handleGetTrades returns recent completed paper trades
func (s *Server) handleGetTrades(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	trades, err := s.repo.RecentClosedTrades(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades})
}

// handleGetScans returns recent scan records, optionally filtered by pattern
func (s *Server) handleGetScans(c *gin.Context) {
	pattern := c.Query("pattern")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	scans, err := s.repo.RecentScans(c.Request.Context(), pattern, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scans": scans})
}

// handleGetBlacklist returns the current blacklist
func (s *Server) handleGetBlacklist(c *gin.Context) {
	if s.blacklist == nil {
		c.JSON(http.StatusOK, gin.H{"blacklist": []string{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blacklist": s.blacklist.Addresses()})
}

// handleAddToBlacklist adds a pair address to the blacklist
func (s *Server) handleAddToBlacklist(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}
	if s.blacklist == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "blacklist not available"})
		return
	}

	s.blacklist.Add(req.Address)
	c.JSON(http.StatusOK, gin.H{"blacklisted": req.Address})
}

// handleLastScan returns the most recent scan cycle summary
func (s *Server) handleLastScan(c *gin.Context) {
	if s.scanner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scanner not available"})
		return
	}

	last := s.scanner.LastScan()
	if last == nil {
		c.JSON(http.StatusOK, gin.H{"last_scan": nil, "message": "no scan completed yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"last_scan": last})
}

// handleTriggerScan kicks off a scan cycle without waiting for the ticker
func (s *Server) handleTriggerScan(c *gin.Context) {
	if s.scanner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scanner not available"})
		return
	}

	go s.scanner.Scan()
	c.JSON(http.StatusAccepted, gin.H{"message": "scan triggered"})
}
