package ws

import (
	"net/http"
	"strings"

	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/pkg/jwt"
	"skillbridge/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub     *Hub
	tokens  jwt.Service
	log     *logger.Logger
	origins []string
}

// NewHandler accepts upgrades from the comma separated allowedOrigins only;
// empty allows any.
func NewHandler(hub *Hub, tokens jwt.Service, allowedOrigins string, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return &Handler{hub: hub, tokens: tokens, log: log, origins: origins}
}

func (h *Handler) originAllowed(origin string) bool {
	if len(h.origins) == 0 || origin == "" {
		return true
	}
	for _, o := range h.origins {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return h.originAllowed(r.Header.Get("Origin"))
		},
	}
}

// Handle authenticates with ?token= (browsers cannot set headers on the
// websocket handshake) or a bearer header, then upgrades.
func (h *Handler) Handle(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		token, _ = middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	}
	if token == "" {
		return middleware.Unauthorized("No token provided", nil)
	}
	claims, err := h.tokens.ValidateAccessToken(token)
	if err != nil {
		return middleware.Unauthorized("Invalid token. Please login again.", err)
	}

	up := h.upgrader()
	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("ws upgrade failed", "error", err)
			return
		}

		client := NewClient(h.hub, conn, claims.UserID)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
