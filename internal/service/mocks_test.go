package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cryptovibe/internal/llm"
	"cryptovibe/internal/model"
	"cryptovibe/internal/queue"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindActiveByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindActiveByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	args := m.Called(ctx, id, isAdmin)
	return args.Error(0)
}

func (m *MockUserRepository) EmailRegistered(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionRepository) Invalidate(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) InvalidateAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockWhiteboardRepository is a mock implementation of WhiteboardRepository.
type MockWhiteboardRepository struct {
	mock.Mock
}

func (m *MockWhiteboardRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]model.WhiteboardStroke, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WhiteboardStroke), args.Error(1)
}

func (m *MockWhiteboardRepository) ListUndone(ctx context.Context, userID uuid.UUID) ([]model.WhiteboardStroke, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WhiteboardStroke), args.Error(1)
}

func (m *MockWhiteboardRepository) Commit(ctx context.Context, stroke *model.WhiteboardStroke) error {
	args := m.Called(ctx, stroke)
	return args.Error(0)
}

func (m *MockWhiteboardRepository) MarkUndone(ctx context.Context, id uuid.UUID, undoSeq int64, at time.Time) error {
	args := m.Called(ctx, id, undoSeq, at)
	return args.Error(0)
}

func (m *MockWhiteboardRepository) Restore(ctx context.Context, id uuid.UUID, seq int64) error {
	args := m.Called(ctx, id, seq)
	return args.Error(0)
}

func (m *MockWhiteboardRepository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockPublisher is a mock implementation of queue.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event queue.AuthEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func eventOfType(t queue.EventType) interface{} {
	return mock.MatchedBy(func(ev queue.AuthEvent) bool { return ev.Type == t })
}

// MockGrok is a mock implementation of GrokAnalyzer.
type MockGrok struct {
	mock.Mock
}

func (m *MockGrok) Analyze(ctx context.Context, r llm.GrokRequest) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

// MockGemini is a mock implementation of GeminiAnalyzer.
type MockGemini struct {
	mock.Mock
}

func (m *MockGemini) Analyze(ctx context.Context, r llm.GeminiRequest) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

// MockHolderChecker is a mock implementation of TokenHolderChecker.
type MockHolderChecker struct {
	mock.Mock
}

func (m *MockHolderChecker) HoldsToken(ctx context.Context, owner, mint string) (bool, error) {
	args := m.Called(ctx, owner, mint)
	return args.Bool(0), args.Error(1)
}
