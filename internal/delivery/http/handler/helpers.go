package handler

import (
	"errors"
	"strconv"
	"strings"

	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/domain/message"
	"skillbridge/internal/domain/review"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/validate"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// mapCommonError covers the errors every handler shares. Handler-specific
// sentinels are matched by the caller first.
func mapCommonError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *middleware.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if msg, ok := validate.Message(err); ok {
		return middleware.BadRequest(msg, err)
	}

	switch {
	case errors.Is(err, user.ErrNotFound):
		return middleware.NotFound("User not found", err)
	case errors.Is(err, skill.ErrNotFound):
		return middleware.NotFound("Skill not found", err)
	case errors.Is(err, review.ErrNotFound):
		return middleware.NotFound("Review not found", err)
	case errors.Is(err, message.ErrNotFound):
		return middleware.NotFound("Message not found", err)
	default:
		return middleware.Internal(err)
	}
}

// bindBody decodes the request body; the app's StructValidator then runs the
// `validate` tags of out.
func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		if msg, ok := validate.Message(err); ok {
			return middleware.BadRequest(msg, err)
		}
		return middleware.BadRequest("Invalid request payload", err)
	}
	return nil
}

func parseIDParam(c fiber.Ctx, key, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(key)))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid "+what+" id", err)
	}
	return id, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, middleware.BadRequest("Invalid "+key+" parameter", err)
	}
	return n, nil
}

func pageQuery(c fiber.Ctx) (int, int, error) {
	page, err := parseQueryIntStrict(c, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

// optionalID parses a JSON id that may be absent or empty.
func optionalID(s string, what string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, middleware.BadRequest("Invalid "+what+" id", err)
	}
	return &id, nil
}
