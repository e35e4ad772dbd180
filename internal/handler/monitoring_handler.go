package handler

import (
	"net/http"
	"strings"

	"associapro/config"
	"associapro/internal/auth"
	"associapro/internal/domain"
	"associapro/internal/service"

	"github.com/gin-gonic/gin"
)

type MonitoringHandler struct {
	cfg *config.JWTConfig
	svc *service.MonitoringService
}

func NewMonitoringHandler(cfg *config.JWTConfig, svc *service.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{cfg: cfg, svc: svc}
}

// Handle dispatches on the action field. healthCheck is open so load
// balancers can probe it; getStats needs an admin bearer token.
func (h *MonitoringHandler) Handle(c *gin.Context) {
	var req struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request"})
		return
	}
	switch req.Action {
	case "getStats":
		if !h.isAdmin(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			return
		}
		c.JSON(http.StatusOK, h.svc.GetStats())
	case "healthCheck":
		hc := h.svc.Health(c.Request.Context())
		status := http.StatusOK
		if hc.Status != "healthy" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, hc)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
	}
}

func (h *MonitoringHandler) isAdmin(c *gin.Context) bool {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	claims, err := auth.ParseAccessToken(h.cfg, strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return false
	}
	return claims.Role == domain.RoleAdmin
}
