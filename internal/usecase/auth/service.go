package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/jwt"
	"skillbridge/internal/pkg/validate"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultHashCost   = 12
	MinPasswordLength = 6
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

type RegisterInput struct {
	Username  string `validate:"required,min=3,max=30"`
	Email     string `validate:"required,email"`
	Password  string `validate:"min=6"`
	FirstName string `validate:"required,max=50"`
	LastName  string `validate:"required,max=50"`
}

func (RegisterInput) ValidationMessages() validate.Messages {
	return validate.Messages{
		"Username.required":  "Username is required",
		"Username":           "Username must be between 3 and 30 characters",
		"Email.required":     "Email is required",
		"Email":              "Please provide a valid email",
		"Password":           fmt.Sprintf("Password must be at least %d characters", MinPasswordLength),
		"FirstName.required": "First name is required",
		"FirstName":          "First name cannot exceed 50 characters",
		"LastName.required":  "Last name is required",
		"LastName":           "Last name cannot exceed 50 characters",
	}
}

type LoginInput struct {
	Email    string
	Password string
}

// Session is what a successful register, login or refresh hands back.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         user.User
}

type Service struct {
	users    user.Repository
	tokens   jwt.Service
	hashCost int
	now      func() time.Time
}

func NewService(users user.Repository, tokens jwt.Service) *Service {
	return &Service{users: users, tokens: tokens, hashCost: DefaultHashCost, now: time.Now}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *Service) WithHashCost(cost int) *Service {
	s.hashCost = cost
	return s
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = validate.NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := validate.Struct(in); err != nil {
		return Session{}, err
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return Session{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return Session{}, user.ErrEmailAlreadyExists
	}
	exists, err = s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return Session{}, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return Session{}, user.ErrUsernameAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	u := user.User{
		ID:                uuid.New(),
		Username:          in.Username,
		Email:             in.Email,
		PasswordHash:      string(hash),
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Skills:            []user.DeclaredSkill{},
		LearningInterests: []string{},
		Role:              user.RoleUser,
		IsActive:          true,
		LastLogin:         now,
		JoinedAt:          now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	// The unique constraints still catch a concurrent registration.
	if err := s.users.CreateUser(ctx, u); err != nil {
		return Session{}, err
	}

	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := validate.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, validate.Errorf("Email and password are required")
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return Session{}, ErrAccountDeactivated
	}

	if err := s.users.TouchLastLogin(ctx, u.ID); err != nil {
		return Session{}, fmt.Errorf("touch last login: %w", err)
	}
	u.LastLogin = s.now().UTC()

	return s.issue(u)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.tokens.ValidateRefreshToken(strings.TrimSpace(refreshToken))
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidRefresh, err)
	}

	u, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrInvalidRefresh
		}
		return Session{}, err
	}
	if !u.IsActive {
		return Session{}, ErrAccountDeactivated
	}
	return s.issue(u)
}

func (s *Service) Me(ctx context.Context, id uuid.UUID) (user.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	return sanitizeUser(u), nil
}

func (s *Service) issue(u user.User) (Session, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		return Session{}, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID)
	if err != nil {
		return Session{}, fmt.Errorf("generate refresh token: %w", err)
	}
	return Session{AccessToken: access, RefreshToken: refresh, User: sanitizeUser(u)}, nil
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
