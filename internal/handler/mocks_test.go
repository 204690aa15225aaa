package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"cryptovibe/internal/middleware"
	"cryptovibe/internal/model"
	"cryptovibe/internal/service"
	"cryptovibe/internal/whiteboard"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	return e
}

// newContext builds a request context; user, when set, is stored the way
// SessionAuth does.
func newContext(e *echo.Echo, method, target, body string, user *model.User) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.ContextUserKey, user)
		c.Set(middleware.ContextUserID, user.ID.String())
		c.Set(middleware.ContextTokenKey, "tok")
	}
	return c, rec
}

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) IssueSession(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	args := m.Called(ctx, userID, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateSession(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) RevokeSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockRegistrationService is a mock implementation of service.RegistrationService.
type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) Register(ctx context.Context, in service.RegisterInput) (*service.RegisterResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RegisterResult), args.Error(1)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) (*model.User, error) {
	args := m.Called(ctx, id, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	args := m.Called(ctx, username, email, password)
	return args.Bool(0), args.Error(1)
}

// MockWhiteboardService is a mock implementation of service.WhiteboardService.
type MockWhiteboardService struct {
	mock.Mock
}

func (m *MockWhiteboardService) state(args mock.Arguments) (*service.BoardState, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BoardState), args.Error(1)
}

func (m *MockWhiteboardService) Get(ctx context.Context, userID uuid.UUID) (*service.BoardState, error) {
	return m.state(m.Called(ctx, userID))
}

func (m *MockWhiteboardService) Pointer(ctx context.Context, userID uuid.UUID, ev service.PointerEvent) (*service.BoardState, error) {
	return m.state(m.Called(ctx, userID, ev))
}

func (m *MockWhiteboardService) Commit(ctx context.Context, userID uuid.UUID, stroke whiteboard.Stroke) (*service.BoardState, error) {
	return m.state(m.Called(ctx, userID, stroke))
}

func (m *MockWhiteboardService) Undo(ctx context.Context, userID uuid.UUID) (*service.BoardState, error) {
	return m.state(m.Called(ctx, userID))
}

func (m *MockWhiteboardService) Redo(ctx context.Context, userID uuid.UUID) (*service.BoardState, error) {
	return m.state(m.Called(ctx, userID))
}

func (m *MockWhiteboardService) Clear(ctx context.Context, userID uuid.UUID) (*service.BoardState, error) {
	return m.state(m.Called(ctx, userID))
}

func (m *MockWhiteboardService) Zoom(ctx context.Context, userID uuid.UUID, action string) (*service.BoardState, error) {
	return m.state(m.Called(ctx, userID, action))
}

func (m *MockWhiteboardService) Pan(ctx context.Context, userID uuid.UUID, deltaX, deltaY float64, shift bool) (*service.BoardState, error) {
	return m.state(m.Called(ctx, userID, deltaX, deltaY, shift))
}

func (m *MockWhiteboardService) Key(ctx context.Context, userID uuid.UUID, key string, mod bool) (*service.BoardState, error) {
	return m.state(m.Called(ctx, userID, key, mod))
}

func (m *MockWhiteboardService) SetTool(ctx context.Context, userID uuid.UUID, settings service.ToolSettings) (*service.BoardState, error) {
	return m.state(m.Called(ctx, userID, settings))
}

// MockAnalysisService is a mock implementation of service.AnalysisService.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) MarketAnalysis(ctx context.Context, in service.MarketAnalysisInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockAnalysisService) RiskAnalysis(ctx context.Context, in service.RiskAnalysisInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

// MockNFTService is a mock implementation of service.NFTService.
type MockNFTService struct {
	mock.Mock
}

func (m *MockNFTService) CheckHolder(ctx context.Context, owner, mint string) (*service.HolderStatus, error) {
	args := m.Called(ctx, owner, mint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HolderStatus), args.Error(1)
}
