package middleware

import (
	"time"

	"skillbridge/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

type AccessLogMiddleware struct {
	log *logger.Logger
}

func NewAccessLogMiddleware(log *logger.Logger) *AccessLogMiddleware {
	if log == nil {
		log = logger.Nop()
	}
	return &AccessLogMiddleware{log: log}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		status := c.Response().StatusCode()
		fields := []interface{}{
			"rid", rid,
			"ip", c.IP(),
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", status,
			"latency", time.Since(start),
			"resp_bytes", len(c.Response().Body()),
			"ua", c.Get(fiber.HeaderUserAgent),
		}
		if uid, ok := c.Locals(CtxUserIDKey).(uuid.UUID); ok {
			fields = append(fields, "user_id", uid)
		}

		if status >= 500 {
			m.log.Warn("http access", fields...)
		} else {
			m.log.Info("http access", fields...)
		}
		return err
	}
}
