package http

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Livecast/internal/adapters/signal"
	"github.com/dkeye/Livecast/internal/adapters/storage"
	"github.com/dkeye/Livecast/internal/app/orch"
	"github.com/dkeye/Livecast/internal/config"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/dkeye/Livecast/internal/logging"
	"github.com/dkeye/Livecast/internal/metrics"
)

const clientTokenKey = "client_token"

// ClientTokenMiddleware keeps a per-browser token in the cookie session.
// It only correlates connections in logs; nothing is authorised by it.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(clientTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			session.Set(clientTokenKey, token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

type Deps struct {
	Orch       *orch.Orchestrator
	Storage    storage.Storage
	ICEServers []webrtc.ICEServer
}

func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.GinMiddleware())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("LivecastSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	page := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) { c.File(filepath.Join(cfg.StaticPath, name)) }
	}
	r.GET("/", page("index.html"))
	r.GET("/broadcast", page("broadcast.html"))
	r.GET("/view", page("view.html"))

	if local, ok := deps.Storage.(*storage.LocalStorage); ok {
		r.Static(local.PublicPrefix(), local.BasePath())
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "connections": deps.Orch.Registry.Count()})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	ctrl := signal.NewSignalWSController(deps.Orch, signal.Options{
		ReadLimit:     cfg.WebSocket.ReadLimit,
		PingPeriod:    cfg.WebSocket.PingPeriod,
		PongWait:      cfg.WebSocket.PongWait,
		WriteWait:     cfg.WebSocket.WriteWait,
		SendBuffer:    cfg.WebSocket.SendBuffer,
		ChatMaxLength: cfg.Chat.MaxLength,
		ChatLimit:     cfg.Chat.RateLimit,
		ChatInterval:  cfg.Chat.RateInterval,
	})

	api := r.Group("/api")
	api.GET("/ws/signal", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})
	api.GET("/streams", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"streams": deps.Orch.Directory.List()})
	})
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": deps.Orch.Rooms.List()})
	})
	api.GET("/rooms/:id/members", func(c *gin.Context) {
		roomID, err := domain.ParseRoomID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
			return
		}
		room, ok := deps.Orch.Rooms.Get(roomID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"roomId": roomID, "members": room.MembersSnapshot()})
	})
	api.GET("/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": deps.ICEServers})
	})
	if deps.Storage != nil {
		api.POST("/upload", UploadHandler(deps.Storage, cfg.Storage.MaxUpload, cfg.Storage.URLTTL))
	}

	return r
}
