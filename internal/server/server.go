package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/MaulidiahYasmin/yovitwo/internal/bot"
	"github.com/MaulidiahYasmin/yovitwo/internal/config"
	"github.com/MaulidiahYasmin/yovitwo/internal/service"
)

// Server webhook 模式的 HTTP 服务
// 接收 Telegram 回调并复用长轮询的处理路径，另暴露日报查询接口
type Server struct {
	router *gin.Engine
	svc    *service.Service
	bot    *bot.Bot
	token  string
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, svc *service.Service, b *bot.Bot) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router: gin.Default(),
		svc:    svc,
		bot:    b,
		token:  cfg.Telegram.Token,
	}

	s.setupRoutes()
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Telegram webhook 回调，路径含 token 防伪
	s.router.POST("/webhook/:token", s.handleWebhook)

	api := s.router.Group("/api")
	{
		api.GET("/report", s.handleReport)
	}
}

// handleWebhook 处理 Telegram 回调
func (s *Server) handleWebhook(c *gin.Context) {
	if c.Param("token") != s.token {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
		return
	}

	s.bot.HandleUpdate(update)
	c.Status(http.StatusOK)
}

// handleReport 日报查询，date 缺省为当天
func (s *Server) handleReport(c *gin.Context) {
	tanggal := c.Query("date")
	if tanggal == "" {
		tanggal = s.svc.FormatDate(s.svc.Now())
	}

	entries, err := s.svc.DailyReport(tanggal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":    tanggal,
		"count":   len(entries),
		"entries": entries,
	})
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
