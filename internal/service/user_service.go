package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cryptovibe/internal/cache"
	apperrors "cryptovibe/internal/errors"
	"cryptovibe/internal/model"
	"cryptovibe/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes user administration.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) (*model.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	// EnsureAdmin creates an admin account unless the username is already
	// registered to an active user. It reports whether a user was created.
	// Names and emails of deactivated users cannot be reused.
	EnsureAdmin(ctx context.Context, username, email, password string) (bool, error)
}

type userService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	hasher   PasswordHasher
	cache    *cache.Client
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(users repository.UserRepository, sessions repository.SessionRepository, hasher PasswordHasher, cache *cache.Client) UserService {
	return &userService{users: users, sessions: sessions, hasher: hasher, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storageError("list users", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) (*model.User, error) {
	if err := s.users.SetAdmin(ctx, id, isAdmin); err != nil {
		return nil, userLookupError(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}
	return user, nil
}

// Deactivate marks the user inactive and revokes all of their sessions.
func (s *userService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Deactivate(ctx, id); err != nil {
		return userLookupError(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	if err := s.sessions.InvalidateAllForUser(ctx, id); err != nil {
		return storageError("revoke sessions", err)
	}
	return nil
}

func (s *userService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if username == "" || email == "" || len(password) < minPasswordLength {
		return false, fmt.Errorf("%w: admin username, email and a password of at least %d characters are required",
			apperrors.ErrInvalidInput, minPasswordLength)
	}

	_, err := s.users.FindActiveByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, storageError("find admin", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	admin := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, fmt.Errorf("%w: username %q or email %q belongs to a deactivated account",
				apperrors.ErrInvalidInput, username, email)
		}
		return false, storageError("create admin", err)
	}
	return true, nil
}

func userLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrUserNotFound
	}
	return storageError("user lookup", err)
}
