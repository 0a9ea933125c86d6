package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lilo791027/banbiao-auto2/internal/config"
)

// Handler 班表转换 API 处理器；不持有请求间共享的可变状态
type Handler struct {
	cfg       *config.AppConfig
	logger    *zap.Logger
	version   string
	startedAt time.Time
}

// NewHandler 创建 API 处理器
func NewHandler(cfg *config.AppConfig, logger *zap.Logger, version string) *Handler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		version:   version,
		startedAt: time.Now(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	// 生效规则
	router.GET("/config", h.GetConfig)

	// 工作表识别
	router.POST("/sheets", h.RecognizeSheets)

	// 班表转换
	router.POST("/analyze", h.Analyze)
	router.POST("/convert", h.Convert)
}
