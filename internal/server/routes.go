package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/xpanvictor/voxrelay/docs"
	"github.com/xpanvictor/voxrelay/internal/app"
	"github.com/xpanvictor/voxrelay/internal/config"
	"github.com/xpanvictor/voxrelay/internal/domains/session"
	"github.com/xpanvictor/voxrelay/internal/domains/user"
	"github.com/xpanvictor/voxrelay/internal/handlers"
	wshandler "github.com/xpanvictor/voxrelay/internal/handlers/websocket"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type Dependencies struct {
	Config    *config.Settings
	Logger    *Logger.Logger
	Processor handlers.Processor
	Pipeline  handlers.PipelineStats
	Sessions  session.SessionService
	Users     user.UserService
}

func NewServerDependencies(a *app.App) Dependencies {
	return Dependencies{
		Config:    a.Config,
		Logger:    a.Logger,
		Processor: a.Orchestrator,
		Pipeline:  a.Orchestrator,
		Sessions:  a.Sessions,
		Users:     a.Users,
	}
}

// NewRouter builds the engine with the shared middleware stack and every route.
// The returned websocket handler must be closed on shutdown.
func NewRouter(dep Dependencies) (*gin.Engine, *wshandler.WebSocketHandler) {
	if !dep.Config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		handlers.RequestLoggerMiddleware(dep.Logger),
		handlers.ErrorHandlerMiddleware(dep.Logger),
		handlers.CORSMiddleware(),
	)
	return r, InitializeRoutes(r, dep)
}

func InitializeRoutes(r *gin.Engine, dep Dependencies) *wshandler.WebSocketHandler {
	cfg := dep.Config

	r.GET("/", serviceInfo)
	r.GET("/health", health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	process := handlers.NewProcessHandler(dep.Processor, dep.Users, handlers.ProcessConfig{
		MaxAudioBytes:     cfg.Server.MaxAudioBytes,
		DefaultSampleRate: cfg.Audio.DefaultSampleRate,
		LegacySessionKey:  cfg.Pipeline.LegacySessionKey,
	}, dep.Logger)
	r.POST("/process", process.ProcessLegacy)
	r.POST("/process/:sessionKey", process.Process)

	sessions := handlers.NewSessionHandler(dep.Sessions, dep.Logger)
	sg := r.Group("/sessions")
	{
		sg.DELETE("/:sessionKey", sessions.Purge)
		sg.GET("/:sessionKey/history", sessions.History)
	}

	stats := handlers.NewStatsHandler(dep.Sessions, dep.Pipeline, dep.Logger)
	st := r.Group("/stats")
	{
		st.GET("/sessions", stats.Sessions)
		st.GET("/pipeline", stats.Pipeline)
	}

	users := handlers.NewUserHandler(dep.Users, dep.Logger)
	ug := r.Group("/users")
	{
		ug.POST("", users.Create)
		ug.GET("/:id", users.Get)
		ug.PUT("/:id/ai-alias", users.UpdateAIAlias)
		ug.PUT("/:id/custom-prompt", users.UpdateCustomPrompt)
	}

	devices := handlers.NewDeviceHandler(dep.Users, dep.Logger)
	dg := r.Group("/devices")
	{
		dg.POST("", devices.Register)
		dg.GET("/:deviceId", devices.Get)
	}

	ws := wshandler.NewWebSocketHandler(dep.Processor, wshandler.Config{
		BufferBytes:       cfg.Audio.StreamBufferBytes,
		DefaultSampleRate: cfg.Audio.DefaultSampleRate,
	}, dep.Logger)
	ws.RegisterRoutes(r)

	return ws
}

// serviceInfo lists the main endpoints
// @Summary Service info
// @Tags Health
// @Produce json
// @Success 200 {object} handlers.ServiceInfoResponse
// @Router / [get]
func serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, handlers.ServiceInfoResponse{
		Service: "voxrelay",
		Version: Version,
		Endpoints: map[string]string{
			"process": "POST /process/{sessionKey}",
			"stream":  "GET /ws/process/{sessionKey}",
			"purge":   "DELETE /sessions/{sessionKey}",
			"history": "GET /sessions/{sessionKey}/history",
			"stats":   "GET /stats/sessions, GET /stats/pipeline",
			"users":   "POST /users",
			"devices": "POST /devices",
			"docs":    "GET /swagger/index.html",
		},
	})
}

// health reports liveness
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} handlers.HealthResponse
// @Router /health [get]
func health(c *gin.Context) {
	c.JSON(http.StatusOK, handlers.HealthResponse{Status: "ok"})
}
