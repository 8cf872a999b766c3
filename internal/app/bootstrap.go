package app

import (
	"context"
	"fmt"
	"strings"

	"skillbridge/internal/config"
	"skillbridge/internal/delivery/http/handler"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/delivery/http/routes"
	"skillbridge/internal/pkg/logger"
	"skillbridge/internal/pkg/validate"
	"skillbridge/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app around an already wired container.
func New(c *Container) *App {
	cfg := c.Config
	f := fiber.New(fiber.Config{
		AppName:         cfg.App.AppName,
		BodyLimit:       cfg.App.BodyLimit,
		StructValidator: validate.StructValidator{},
	})

	registerGlobalMiddleware(f, cfg, c.Log)

	authMw := middleware.NewAuthMiddleware(c.JWT)
	routes.NewRegistry(routes.Handlers{
		Health:  handler.NewHealthHandler(c.DB, c.Cache),
		Auth:    handler.NewAuthHandler(c.Auth),
		User:    handler.NewUserHandler(c.Users),
		Skill:   handler.NewSkillHandler(c.Skills),
		Message: handler.NewMessageHandler(c.Message),
		Review:  handler.NewReviewHandler(c.Reviews),
		Upload:  handler.NewUploadHandler(c.Uploads),
		Socket:  ws.NewHandler(c.Hub, c.JWT, cfg.App.FrontendURL, c.Log),
	}, authMw).Register(f)

	f.Use(func(c fiber.Ctx) error {
		return middleware.NotFound("Route not found", nil)
	})

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container, starts the realtime hub and returns the app
// with a cleanup func that releases every resource.
func Bootstrap(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, log *logger.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())

	errMw := middleware.NewErrorMiddleware(log, cfg.IsDevelopment())
	app.Use(errMw.Middleware())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(cfg.App.FrontendURL),
		AllowCredentials: true,
		AllowHeaders:     []string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, fiber.HeaderAuthorization},
	}))
}

func allowedOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"http://localhost:5000"}
	}
	return out
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
