package handler

import (
	"errors"

	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/jwt"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"
	ucauth "skillbridge/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RegisterRoutes mounts the public endpoints; Me needs the auth middleware.
func (h *AuthHandler) RegisterRoutes(r fiber.Router, authMw fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Get("/me", authMw, h.Me)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	sess, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "User registered successfully", newAuthResponse(sess))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	sess, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Login successful", newAuthResponse(sess))
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return middleware.Unauthorized("No refresh token provided", nil)
	}

	sess, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Token refreshed", newAuthResponse(sess))
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	u, err := h.uc.Me(c.Context(), userID)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(u, true))
}

func newAuthResponse(s ucauth.Session) dto.AuthResponse {
	return dto.AuthResponse{
		Token:        s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         dto.NewUserResponse(s.User, true),
	}
}

func mapAuthUsecaseError(err error) error {
	switch {
	case errors.Is(err, user.ErrEmailAlreadyExists):
		return middleware.BadRequest("User with this email already exists", err)
	case errors.Is(err, user.ErrUsernameAlreadyExists):
		return middleware.BadRequest("Username is already taken", err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.Unauthorized("Invalid email or password", err)
	case errors.Is(err, ucauth.ErrAccountDeactivated):
		return middleware.Unauthorized("Account is deactivated", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return middleware.Unauthorized("Refresh token expired", err)
	case errors.Is(err, ucauth.ErrInvalidRefresh):
		return middleware.Unauthorized("Invalid refresh token", err)
	default:
		return mapCommonError(err)
	}
}
