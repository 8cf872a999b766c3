package handler

import (
	"errors"

	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/pkg/validate"
	"skillbridge/internal/usecase"
	ucskill "skillbridge/internal/usecase/skill"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

type skillRequest struct {
	Title              *string             `json:"title"`
	Description        *string             `json:"description"`
	Category           *string             `json:"category"`
	Subcategory        *string             `json:"subcategory"`
	Level              *string             `json:"level"`
	SkillType          *string             `json:"skillType"`
	Tags               *[]string           `json:"tags"`
	Duration           *string             `json:"duration"`
	Availability       *skill.Availability `json:"availability"`
	Format             *string             `json:"format"`
	Location           *string             `json:"location"`
	ExchangePreference *string             `json:"exchangePreference"`
	Prerequisites      *string             `json:"prerequisites"`
	Materials          *[]string           `json:"materials"`
}

// ValidationMessages words the Availability.Days failures reported at bind time.
func (skillRequest) ValidationMessages() validate.Messages {
	return skill.Listing{}.ValidationMessages()
}

type interestRequest struct {
	Message string `json:"message"`
}

type interestStatusRequest struct {
	Status string `json:"status"`
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router, authMw fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/user/:userId", h.ListByUser)
	r.Get("/:id", h.Get)
	r.Post("/", authMw, h.Create)
	r.Put("/:id", authMw, h.Update)
	r.Delete("/:id", authMw, h.Delete)
	r.Post("/:id/interest", authMw, h.ExpressInterest)
	r.Put("/:id/interest/:interestId", authMw, h.UpdateInterestStatus)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	page, limit, err := pageQuery(c)
	if err != nil {
		return err
	}

	res, err := h.uc.List(c.Context(), ucskill.ListParams{
		Category:  c.Query("category"),
		Level:     c.Query("level"),
		SkillType: c.Query("skillType"),
		Search:    c.Query("search"),
		Sort:      c.Query("sort"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return mapSkillUsecaseError(err, "")
	}

	data := fiber.Map{
		"skills":     dto.NewSkillResponses(res.Skills),
		"pagination": response.NewPagination(res.Page, res.Limit, res.Total),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *SkillHandler) Get(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id", "skill")
	if err != nil {
		return err
	}

	l, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapSkillUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillResponse(l))
}

func (h *SkillHandler) ListByUser(c fiber.Ctx) error {
	userID, err := parseIDParam(c, "userId", "user")
	if err != nil {
		return err
	}

	items, err := h.uc.ListByProvider(c.Context(), userID, c.Query("skillType"))
	if err != nil {
		return mapSkillUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillResponses(items))
}

func (h *SkillHandler) Create(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	var req skillRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	l, err := h.uc.Create(c.Context(), userID, req.createInput())
	if err != nil {
		return mapSkillUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusCreated, "Skill created successfully", dto.NewSkillResponse(l))
}

func (h *SkillHandler) Update(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "skill")
	if err != nil {
		return err
	}

	var req skillRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	l, err := h.uc.Update(c.Context(), userID, id, req.updateInput())
	if err != nil {
		return mapSkillUsecaseError(err, "Not authorized to update this skill")
	}
	return response.Success(c, fiber.StatusOK, "Skill updated successfully", dto.NewSkillResponse(l))
}

func (h *SkillHandler) Delete(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "skill")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapSkillUsecaseError(err, "Not authorized to delete this skill")
	}
	return response.Success(c, fiber.StatusOK, "Skill deleted successfully", nil)
}

func (h *SkillHandler) ExpressInterest(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "skill")
	if err != nil {
		return err
	}

	var req interestRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &req); err != nil {
			return err
		}
	}

	in, err := h.uc.ExpressInterest(c.Context(), userID, id, req.Message)
	if err != nil {
		return mapSkillUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusCreated, "Interest expressed successfully", dto.NewInterestResponse(in))
}

func (h *SkillHandler) UpdateInterestStatus(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "skill")
	if err != nil {
		return err
	}
	interestID, err := parseIDParam(c, "interestId", "interest")
	if err != nil {
		return err
	}

	var req interestStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	in, err := h.uc.UpdateInterestStatus(c.Context(), userID, id, interestID, req.Status)
	if err != nil {
		return mapSkillUsecaseError(err, "Not authorized to update interest status")
	}
	return response.Success(c, fiber.StatusOK, "Interest status updated successfully", dto.NewInterestResponse(in))
}

func (r skillRequest) createInput() ucskill.CreateInput {
	in := ucskill.CreateInput{
		Title:              deref(r.Title),
		Description:        deref(r.Description),
		Category:           deref(r.Category),
		Subcategory:        deref(r.Subcategory),
		Level:              deref(r.Level),
		SkillType:          deref(r.SkillType),
		Duration:           deref(r.Duration),
		Format:             deref(r.Format),
		Location:           deref(r.Location),
		ExchangePreference: deref(r.ExchangePreference),
		Prerequisites:      deref(r.Prerequisites),
	}
	if r.Tags != nil {
		in.Tags = *r.Tags
	}
	if r.Materials != nil {
		in.Materials = *r.Materials
	}
	if r.Availability != nil {
		in.Availability = *r.Availability
	}
	return in
}

func (r skillRequest) updateInput() ucskill.UpdateInput {
	return ucskill.UpdateInput{
		Title:              r.Title,
		Description:        r.Description,
		Category:           r.Category,
		Subcategory:        r.Subcategory,
		Level:              r.Level,
		SkillType:          r.SkillType,
		Tags:               r.Tags,
		Duration:           r.Duration,
		Availability:       r.Availability,
		Format:             r.Format,
		Location:           r.Location,
		ExchangePreference: r.ExchangePreference,
		Prerequisites:      r.Prerequisites,
		Materials:          r.Materials,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// mapSkillUsecaseError translates skill errors; forbidden is the message used
// when the caller does not own the listing.
func mapSkillUsecaseError(err error, forbidden string) error {
	switch {
	case errors.Is(err, ucskill.ErrNotOwner):
		if forbidden == "" {
			forbidden = "Not authorized to modify this skill"
		}
		return middleware.Forbidden(forbidden, err)
	case errors.Is(err, skill.ErrSelfInterest):
		return middleware.BadRequest("Cannot express interest in your own skill", err)
	case errors.Is(err, skill.ErrDuplicateInterest):
		return middleware.BadRequest("You have already expressed interest in this skill", err)
	case errors.Is(err, skill.ErrInvalidStatus):
		return middleware.BadRequest("Invalid interest status", err)
	case errors.Is(err, skill.ErrInvalidTransition):
		return middleware.BadRequest("Invalid interest status transition", err)
	case errors.Is(err, skill.ErrInterestNotFound):
		return middleware.NotFound("Interest not found", err)
	default:
		return mapCommonError(err)
	}
}
