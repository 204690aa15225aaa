package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"cryptovibe/internal/model"
	"cryptovibe/internal/queue"
	"cryptovibe/internal/repository"
)

// Registration messages shown to the user verbatim.
const (
	MsgUsernameTooShort     = "Username must be at least 3 characters"
	MsgPasswordTooShort     = "Password must be at least 8 characters"
	MsgPasswordMismatch     = "Passwords do not match"
	MsgInvalidEmail         = "Invalid email address"
	MsgUsernameTaken        = "Username already taken"
	MsgEmailTaken           = "Email already registered"
	MsgInvalidBirthDate     = "Birth date must be formatted as YYYY-MM-DD"
	MsgRegistrationComplete = "Registration successful! Please login."
)

const (
	minUsernameLength = 3
	minPasswordLength = 8
	birthDateLayout   = "2006-01-02"
)

// RegisterInput is a registration attempt. ConfirmPassword, FullName and
// BirthDate are optional.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword *string
	FullName        string
	BirthDate       string
}

// RegisterResult reports the outcome of a registration. Validation failures
// are results, not errors.
type RegisterResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegistrationService validates and creates new accounts.
type RegistrationService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
}

type registrationService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	events queue.Publisher
}

// NewRegistrationService creates a registration service.
func NewRegistrationService(users repository.UserRepository, hasher PasswordHasher, events queue.Publisher) RegistrationService {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &registrationService{users: users, hasher: hasher, events: events}
}

// ValidateRegistration applies the input-only rules in order and returns the
// first failing message, or "" when they all pass. Lengths are in bytes.
func ValidateRegistration(in RegisterInput) string {
	switch {
	case len(in.Username) < minUsernameLength:
		return MsgUsernameTooShort
	case len(in.Password) < minPasswordLength:
		return MsgPasswordTooShort
	case in.ConfirmPassword != nil && *in.ConfirmPassword != in.Password:
		return MsgPasswordMismatch
	case !strings.Contains(in.Email, "@") || !strings.Contains(in.Email, "."):
		return MsgInvalidEmail
	}
	return ""
}

func (s *registrationService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if msg := ValidateRegistration(in); msg != "" {
		return failed(msg), nil
	}

	taken, err := s.exists(ctx, s.users.FindActiveByUsername, in.Username)
	if err != nil {
		return nil, storageError("check username", err)
	}
	if taken {
		return failed(MsgUsernameTaken), nil
	}

	taken, err = s.exists(ctx, s.users.FindActiveByEmail, in.Email)
	if err != nil {
		return nil, storageError("check email", err)
	}
	if taken {
		return failed(MsgEmailTaken), nil
	}

	user := &model.User{
		Username: in.Username,
		Email:    in.Email,
		IsActive: true,
	}
	if name := strings.TrimSpace(in.FullName); name != "" {
		user.FullName = &name
	}
	if bd := strings.TrimSpace(in.BirthDate); bd != "" {
		parsed, err := time.Parse(birthDateLayout, bd)
		if err != nil {
			return failed(MsgInvalidBirthDate), nil
		}
		user.BirthDate = &parsed
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent registration, or a deactivated account still
			// holding the name or email.
			emailTaken, lookupErr := s.users.EmailRegistered(ctx, in.Email)
			if lookupErr != nil {
				return nil, storageError("check email", lookupErr)
			}
			if emailTaken {
				return failed(MsgEmailTaken), nil
			}
			return failed(MsgUsernameTaken), nil
		}
		return nil, storageError("create user", err)
	}

	_ = s.events.Publish(ctx, queue.NewAuthEvent(queue.EventUserRegistered, user.ID, user.Username))

	return &RegisterResult{Success: true, Message: MsgRegistrationComplete}, nil
}

func (s *registrationService) exists(ctx context.Context, find func(context.Context, string) (*model.User, error), key string) (bool, error) {
	_, err := find(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}

func failed(msg string) *RegisterResult {
	return &RegisterResult{Success: false, Message: msg}
}
