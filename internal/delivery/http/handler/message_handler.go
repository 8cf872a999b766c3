package handler

import (
	"errors"
	"strings"

	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/domain/message"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"
	ucmessage "skillbridge/internal/usecase/message"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MessageHandler struct {
	uc usecase.MessageUsecase
}

type sendMessageRequest struct {
	Recipient    string `json:"recipient"`
	Content      string `json:"content"`
	MessageType  string `json:"messageType"`
	RelatedSkill string `json:"relatedSkill"`
}

type editMessageRequest struct {
	Content string `json:"content"`
}

type reactRequest struct {
	Emoji string `json:"emoji"`
}

func NewMessageHandler(uc usecase.MessageUsecase) *MessageHandler {
	return &MessageHandler{uc: uc}
}

// RegisterRoutes expects r to be behind the auth middleware already.
func (h *MessageHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/conversations", h.Conversations)
	r.Get("/:conversationId", h.History)
	r.Post("/", h.Send)
	r.Put("/:id", h.Edit)
	r.Delete("/:id", h.Delete)
	r.Post("/:id/react", h.React)
}

func (h *MessageHandler) Conversations(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	convs, err := h.uc.Conversations(c.Context(), userID)
	if err != nil {
		return mapMessageUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewConversationResponses(convs))
}

func (h *MessageHandler) History(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	page, limit, err := pageQuery(c)
	if err != nil {
		return err
	}

	res, err := h.uc.History(c.Context(), userID, strings.TrimSpace(c.Params("conversationId")), page, limit)
	if err != nil {
		return mapMessageUsecaseError(err, "")
	}

	data := fiber.Map{
		"messages":   dto.NewMessageResponses(res.Messages),
		"pagination": response.NewPagination(res.Page, res.Limit, res.Total),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *MessageHandler) Send(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	var recipient uuid.UUID
	if r := strings.TrimSpace(req.Recipient); r != "" {
		recipient, err = uuid.Parse(r)
		if err != nil {
			return middleware.BadRequest("Invalid recipient id", err)
		}
	}
	related, err := optionalID(req.RelatedSkill, "skill")
	if err != nil {
		return err
	}

	m, err := h.uc.Send(c.Context(), userID, ucmessage.SendInput{
		RecipientID:    recipient,
		Content:        req.Content,
		Type:           req.MessageType,
		RelatedSkillID: related,
	})
	if err != nil {
		return mapMessageUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusCreated, "Message sent successfully", dto.NewMessageResponse(m))
}

func (h *MessageHandler) Edit(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "message")
	if err != nil {
		return err
	}

	var req editMessageRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	m, err := h.uc.Edit(c.Context(), userID, id, req.Content)
	if err != nil {
		return mapMessageUsecaseError(err, "Not authorized to edit this message")
	}
	return response.Success(c, fiber.StatusOK, "Message updated successfully", dto.NewMessageResponse(m))
}

func (h *MessageHandler) Delete(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "message")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapMessageUsecaseError(err, "Not authorized to delete this message")
	}
	return response.Success(c, fiber.StatusOK, "Message deleted successfully", nil)
}

func (h *MessageHandler) React(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "message")
	if err != nil {
		return err
	}

	var req reactRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.uc.React(c.Context(), userID, id, req.Emoji)
	if err != nil {
		return mapMessageUsecaseError(err, "Not authorized to react to this message")
	}

	data := fiber.Map{"messageId": res.MessageID, "reactions": res.Reactions}
	return response.Success(c, fiber.StatusOK, "Reaction updated successfully", data)
}

func mapMessageUsecaseError(err error, forbidden string) error {
	switch {
	case errors.Is(err, message.ErrNotSender):
		if forbidden == "" {
			forbidden = "Not authorized to modify this message"
		}
		return middleware.Forbidden(forbidden, err)
	case errors.Is(err, message.ErrNotParticipant):
		if forbidden == "" {
			forbidden = "Not authorized to access this conversation"
		}
		return middleware.Forbidden(forbidden, err)
	case errors.Is(err, message.ErrInvalidConversation):
		return middleware.BadRequest("Invalid conversation id", err)
	case errors.Is(err, message.ErrEditWindowExpired):
		return middleware.BadRequest("Message edit window has expired (15 minutes)", err)
	case errors.Is(err, ucmessage.ErrRecipientNotFound):
		return middleware.NotFound("Recipient not found", err)
	case errors.Is(err, ucmessage.ErrEmojiRequired):
		return middleware.BadRequest("Emoji is required", err)
	default:
		return mapCommonError(err)
	}
}
