package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.opts.Version,
		"uptime":  int64(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"db": gin.H{
				"status": "down",
				"error":  err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"version": s.opts.Version,
		"uptime":  int64(time.Since(s.startTime).Seconds()),
		"db": gin.H{
			"status": "up",
		},
	})
}
