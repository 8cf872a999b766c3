package handler

import (
	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"
	ucuser "skillbridge/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type updateProfileRequest struct {
	FirstName         *string               `json:"firstName"`
	LastName          *string               `json:"lastName"`
	Bio               *string               `json:"bio"`
	Location          *string               `json:"location"`
	ProfilePicture    *string               `json:"profilePicture"`
	Skills            *[]user.DeclaredSkill `json:"skills"`
	LearningInterests *[]string             `json:"learningInterests"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router, authMw fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/search/suggestions", h.Suggestions)
	r.Put("/me", authMw, h.UpdateMe)
	r.Delete("/me", authMw, h.DeactivateMe)
	r.Get("/:id/stats", h.Stats)
	r.Get("/:id", h.Profile)
}

func (h *UserHandler) List(c fiber.Ctx) error {
	page, limit, err := pageQuery(c)
	if err != nil {
		return err
	}

	res, err := h.uc.List(c.Context(), ucuser.ListParams{
		Search:   c.Query("search"),
		Skills:   c.Query("skills"),
		Location: c.Query("location"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return mapCommonError(err)
	}

	data := fiber.Map{
		"users":      dto.NewUserResponses(res.Users),
		"pagination": response.NewPagination(res.Page, res.Limit, res.Total),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *UserHandler) Suggestions(c fiber.Ctx) error {
	items, err := h.uc.Suggestions(c.Context(), c.Query("q"))
	if err != nil {
		return mapCommonError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *UserHandler) Profile(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	prof, err := h.uc.Profile(c.Context(), id)
	if err != nil {
		return mapCommonError(err)
	}

	res := dto.ProfileResponse{
		User:    dto.NewUserResponse(prof.User, false),
		Skills:  dto.NewSkillResponses(prof.Skills),
		Reviews: dto.NewReviewResponses(prof.Reviews),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *UserHandler) Stats(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	stats, err := h.uc.Stats(c.Context(), id)
	if err != nil {
		return mapCommonError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, stats)
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	u, err := h.uc.UpdateProfile(c.Context(), userID, ucuser.UpdateProfileInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Bio:               req.Bio,
		Location:          req.Location,
		ProfilePicture:    req.ProfilePicture,
		Skills:            req.Skills,
		LearningInterests: req.LearningInterests,
	})
	if err != nil {
		return mapCommonError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated successfully", dto.NewUserResponse(u, true))
}

func (h *UserHandler) DeactivateMe(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Deactivate(c.Context(), userID); err != nil {
		return mapCommonError(err)
	}
	return response.Success(c, fiber.StatusOK, "Account deactivated successfully", nil)
}
