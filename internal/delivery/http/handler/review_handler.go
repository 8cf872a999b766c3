package handler

import (
	"errors"
	"strings"
	"time"

	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/domain/review"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/pkg/validate"
	"skillbridge/internal/usecase"
	ucreview "skillbridge/internal/usecase/review"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	uc usecase.ReviewUsecase
}

type createReviewRequest struct {
	Reviewee    string `json:"reviewee"`
	Skill       string `json:"skill"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	SessionType string `json:"sessionType"`
	SessionDate string `json:"sessionDate"`
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type reportReviewRequest struct {
	Reason string `json:"reason"`
}

type visibilityRequest struct {
	IsVisible *bool `json:"isVisible" validate:"required"`
}

func (visibilityRequest) ValidationMessages() validate.Messages {
	return validate.Messages{"IsVisible": "isVisible is required"}
}

func NewReviewHandler(uc usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

func (h *ReviewHandler) RegisterRoutes(r fiber.Router, authMw fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/user/:userId", h.ListForUser)
	r.Get("/skill/:skillId", h.ListForSkill)
	r.Post("/", authMw, h.Create)
	r.Put("/:id", authMw, h.Update)
	r.Delete("/:id", authMw, h.Delete)
	r.Post("/:id/helpful", authMw, h.Helpful)
	r.Post("/:id/report", authMw, h.Report)
	r.Put("/:id/visibility", authMw, h.SetVisibility)
}

func (h *ReviewHandler) Create(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	in, err := req.input()
	if err != nil {
		return err
	}
	rv, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return mapReviewUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusCreated, "Review created successfully", dto.NewReviewResponse(rv))
}

func (h *ReviewHandler) ListForUser(c fiber.Ctx) error {
	userID, err := parseIDParam(c, "userId", "user")
	if err != nil {
		return err
	}
	page, limit, err := pageQuery(c)
	if err != nil {
		return err
	}

	res, err := h.uc.ListForUser(c.Context(), userID, page, limit)
	if err != nil {
		return mapReviewUsecaseError(err, "")
	}

	data := fiber.Map{
		"reviews":    dto.NewReviewResponses(res.Reviews),
		"pagination": response.NewPagination(res.Page, res.Limit, res.Total),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *ReviewHandler) ListForSkill(c fiber.Ctx) error {
	skillID, err := parseIDParam(c, "skillId", "skill")
	if err != nil {
		return err
	}

	items, err := h.uc.ListForSkill(c.Context(), skillID)
	if err != nil {
		return mapReviewUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewReviewResponses(items))
}

func (h *ReviewHandler) Update(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "review")
	if err != nil {
		return err
	}

	var req updateReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	rv, err := h.uc.Update(c.Context(), userID, id, ucreview.UpdateInput{Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		return mapReviewUsecaseError(err, "Not authorized to update this review")
	}
	return response.Success(c, fiber.StatusOK, "Review updated successfully", dto.NewReviewResponse(rv))
}

func (h *ReviewHandler) Delete(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "review")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapReviewUsecaseError(err, "Not authorized to delete this review")
	}
	return response.Success(c, fiber.StatusOK, "Review deleted successfully", nil)
}

func (h *ReviewHandler) Helpful(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "review")
	if err != nil {
		return err
	}

	res, err := h.uc.ToggleHelpful(c.Context(), userID, id)
	if err != nil {
		return mapReviewUsecaseError(err, "")
	}

	msg := "Helpful vote removed"
	if res.IsHelpful {
		msg = "Marked as helpful"
	}
	data := fiber.Map{"helpfulCount": res.HelpfulCount, "isHelpful": res.IsHelpful}
	return response.Success(c, fiber.StatusOK, msg, data)
}

func (h *ReviewHandler) Report(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "review")
	if err != nil {
		return err
	}

	var req reportReviewRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &req); err != nil {
			return err
		}
	}

	if err := h.uc.Report(c.Context(), userID, id, req.Reason); err != nil {
		return mapReviewUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, "Review reported successfully", nil)
}

func (h *ReviewHandler) SetVisibility(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "review")
	if err != nil {
		return err
	}

	var req visibilityRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	rv, err := h.uc.SetVisibility(c.Context(), userID, id, *req.IsVisible)
	if err != nil {
		return mapReviewUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, "Review visibility updated", dto.NewReviewResponse(rv))
}

func (r createReviewRequest) input() (ucreview.CreateInput, error) {
	in := ucreview.CreateInput{
		Rating:      r.Rating,
		Comment:     r.Comment,
		SessionType: r.SessionType,
	}
	if s := strings.TrimSpace(r.Reviewee); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return in, middleware.BadRequest("Invalid reviewee id", err)
		}
		in.RevieweeID = id
	}
	if s := strings.TrimSpace(r.Skill); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return in, middleware.BadRequest("Invalid skill id", err)
		}
		in.SkillID = id
	}
	if s := strings.TrimSpace(r.SessionDate); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return in, middleware.BadRequest("Invalid session date", err)
		}
		in.SessionDate = d
	}
	return in, nil
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

func mapReviewUsecaseError(err error, forbidden string) error {
	switch {
	case errors.Is(err, ucreview.ErrNotReviewer):
		if forbidden == "" {
			forbidden = "Not authorized to modify this review"
		}
		return middleware.Forbidden(forbidden, err)
	case errors.Is(err, ucreview.ErrNotModerator):
		return middleware.Forbidden("Moderator access required", err)
	case errors.Is(err, review.ErrSelfReview):
		return middleware.BadRequest("Cannot review yourself", err)
	case errors.Is(err, review.ErrDuplicate):
		return middleware.BadRequest("You have already reviewed this skill exchange", err)
	case errors.Is(err, review.ErrAlreadyReported):
		return middleware.BadRequest("You have already reported this review", err)
	case errors.Is(err, skill.ErrNotFound):
		return middleware.NotFound("Skill not found", err)
	default:
		return mapCommonError(err)
	}
}
