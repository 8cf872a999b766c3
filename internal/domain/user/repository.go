package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound              = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrEmailAlreadyExists    = errors.New("email already registered")
)

type Repository interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateUser(ctx context.Context, u User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error

	Search(ctx context.Context, f SearchFilter) ([]User, int, error)
	Suggest(ctx context.Context, q string, limit int) ([]Summary, error)
	Stats(ctx context.Context, id uuid.UUID) (Stats, error)

	// LockForRatingUpdate takes a row lock on the user that serializes rating
	// recomputes without blocking foreign key checks from inserts that
	// reference the user. It must run inside a transaction.
	LockForRatingUpdate(ctx context.Context, id uuid.UUID) error
	UpdateRating(ctx context.Context, id uuid.UUID, r Rating) error
}
