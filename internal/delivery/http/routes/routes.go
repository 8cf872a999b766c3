package routes

import (
	"skillbridge/internal/delivery/http/handler"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Skill   *handler.SkillHandler
	Message *handler.MessageHandler
	Review  *handler.ReviewHandler
	Upload  *handler.UploadHandler
	Socket  *ws.Handler
}

type Registry struct {
	handlers Handlers
	auth     *middleware.AuthMiddleware
}

func NewRegistry(h Handlers, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{handlers: h, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerSocket(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	authMw := r.auth.Middleware()

	if h := r.handlers.Auth; h != nil {
		h.RegisterRoutes(api.Group("/auth"), authMw)
	}
	if h := r.handlers.User; h != nil {
		h.RegisterRoutes(api.Group("/users"), authMw)
	}
	if h := r.handlers.Skill; h != nil {
		h.RegisterRoutes(api.Group("/skills"), authMw)
	}
	if h := r.handlers.Review; h != nil {
		h.RegisterRoutes(api.Group("/reviews"), authMw)
	}
	if h := r.handlers.Message; h != nil {
		h.RegisterRoutes(api.Group("/messages", authMw))
	}
	if h := r.handlers.Upload; h != nil {
		h.RegisterRoutes(api.Group("/upload", authMw))
	}
}

func (r *Registry) registerSocket(app *fiber.App) {
	if r.handlers.Socket != nil {
		app.Get("/ws", r.handlers.Socket.Handle)
	}
}
