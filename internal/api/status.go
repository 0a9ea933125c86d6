package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lilo791027/banbiao-auto2/internal/model"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Ready     bool   `json:"ready"`
	Version   string `json:"version"`
	StartedAt string `json:"startedAt"`
	Uptime    string `json:"uptime"`
}

// ConfigResponse 配置响应
type ConfigResponse struct {
	Rules          model.RuleOptions `json:"rules"`
	RosterEncoding string            `json:"rosterEncoding"`
	MaxUploadMB    int64             `json:"maxUploadMB"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Ready:     true,
		Version:   h.version,
		StartedAt: h.startedAt.Format(time.RFC3339),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// GetConfig 获取生效的转换规则
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ConfigResponse{
		Rules:          h.cfg.RuleOptions(),
		RosterEncoding: h.cfg.Roster.Encoding,
		MaxUploadMB:    h.cfg.Server.MaxUploadMB,
	})
}
