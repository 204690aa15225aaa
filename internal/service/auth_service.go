package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cryptovibe/internal/auth"
	apperrors "cryptovibe/internal/errors"
	"cryptovibe/internal/model"
	"cryptovibe/internal/queue"
	"cryptovibe/internal/repository"
)

// PasswordHasher hashes and verifies passwords. auth.PasswordHasher is the
// production implementation.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// MsgInvalidCredentials is the login failure message for unknown users and
// wrong passwords alike.
const MsgInvalidCredentials = "Invalid username or password"

// LoginResult is the login response. Token and IsAdmin are only set on success.
type LoginResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
	IsAdmin *bool  `json:"is_admin,omitempty"`
}

// FailedLogin is the body returned for rejected credentials.
func FailedLogin() *LoginResult {
	return &LoginResult{Success: false, Message: MsgInvalidCredentials}
}

// AuthService handles credentials and login sessions.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	IssueSession(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)
	ValidateSession(ctx context.Context, token string) (*model.User, error)
	RevokeSession(ctx context.Context, token string) error
}

type authService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	hasher     PasswordHasher
	events     queue.Publisher
	sessionTTL time.Duration
	now        func() time.Time
}

// NewAuthService creates a new authentication service. A zero sessionTTL
// falls back to auth.DefaultSessionTTL and a nil publisher drops events.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, hasher PasswordHasher, events queue.Publisher, sessionTTL time.Duration) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = auth.DefaultSessionTTL
	}
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &authService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		events:     events,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Authenticate returns the active user matching the credentials. Unknown users
// and wrong passwords both yield ErrInvalidCredentials.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, storageError("find user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and opens a new session for the default TTL.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := s.IssueSession(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.NewAuthEvent(queue.EventUserLoggedIn, user.ID, user.Username))

	isAdmin := user.IsAdmin
	return &LoginResult{
		Success: true,
		Token:   token,
		Message: fmt.Sprintf("Welcome back, %s!", user.Username),
		IsAdmin: &isAdmin,
	}, nil
}

// IssueSession persists a new opaque token valid for ttl.
func (s *authService) IssueSession(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("%w: session ttl must be positive", apperrors.ErrInvalidInput)
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		return "", err
	}

	session := &model.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: s.now().Add(ttl),
		Valid:     true,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", storageError("create session", err)
	}
	return token, nil
}

// ValidateSession resolves a bearer token to its owner. Revoked, expired and
// unknown tokens, as well as tokens of deactivated users, yield ErrInvalidSession.
func (s *authService) ValidateSession(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidSession
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidSession
		}
		return nil, storageError("find session", err)
	}
	if !session.Usable(s.now()) || !session.User.IsActive {
		return nil, apperrors.ErrInvalidSession
	}
	return &session.User, nil
}

// RevokeSession is idempotent; unknown tokens are a no-op. The revocation
// event is only emitted when a live session was switched off.
func (s *authService) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return storageError("find session", err)
	}

	affected, err := s.sessions.Invalidate(ctx, token)
	if err != nil {
		return storageError("invalidate session", err)
	}
	if affected > 0 {
		s.publish(ctx, queue.NewAuthEvent(queue.EventSessionRevoked, session.UserID, session.User.Username))
	}
	return nil
}

func (s *authService) publish(ctx context.Context, ev queue.AuthEvent) {
	// best effort; the publisher logs its own failures
	_ = s.events.Publish(ctx, ev)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, apperrors.ErrStorageUnavailable, err)
}
