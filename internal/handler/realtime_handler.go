package handler

import (
	"pulse-chat-be/internal/pkg/logger"
	"pulse-chat-be/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type RealtimeHandler struct {
	hub    *realtime.Hub
	router *realtime.EventRouter
	logger logger.ILogger
}

func NewRealtimeHandler(hub *realtime.Hub, router *realtime.EventRouter, log logger.ILogger) *RealtimeHandler {
	return &RealtimeHandler{
		hub:    hub,
		router: router,
		logger: log,
	}
}

// ServeWs upgrades the connection and runs the realtime session. No
// credential is required at handshake time; authentication happens
// in-band via the authenticate event.
func (h *RealtimeHandler) ServeWs(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("RealtimeHandler", "Starting WebSocket session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
			realtime.ServeWs(h.hub, h.router, conn)
			h.logger.Info("RealtimeHandler", "WebSocket session ended", nil)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the realtime routes.
func (h *RealtimeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
