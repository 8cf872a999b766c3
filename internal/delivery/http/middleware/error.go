package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"

	"skillbridge/internal/pkg/logger"
	"skillbridge/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

func BadRequest(message string, cause error) *AppError {
	return NewAppError(fiber.StatusBadRequest, message, nil, cause)
}

func Unauthorized(message string, cause error) *AppError {
	return NewAppError(fiber.StatusUnauthorized, message, nil, cause)
}

func Forbidden(message string, cause error) *AppError {
	return NewAppError(fiber.StatusForbidden, message, nil, cause)
}

func NotFound(message string, cause error) *AppError {
	return NewAppError(fiber.StatusNotFound, message, nil, cause)
}

func Internal(cause error) *AppError {
	return NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, cause)
}

// ErrorMiddleware renders every handler error in the response envelope. In
// development 5xx responses carry the cause (and the stack for panics).
type ErrorMiddleware struct {
	log         *logger.Logger
	exposeCause bool
}

func NewErrorMiddleware(log *logger.Logger, exposeCause bool) *ErrorMiddleware {
	if log == nil {
		log = logger.Nop()
	}
	return &ErrorMiddleware{log: log, exposeCause: exposeCause}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				m.log.Error("panic recovered", "panic", r, "path", c.Path(), "stack", stack)
				var data interface{}
				if m.exposeCause {
					data = fiber.Map{"error": fmt.Sprint(r), "stack": stack}
				}
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, data)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 {
			m.log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
			if m.exposeCause {
				data = fiber.Map{"error": err.Error()}
			}
		}
		return response.Error(c, status, msg, data)
	}
}

func normalizeError(err error) (int, string, interface{}) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}
		return status, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}
		return status, msg, nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
