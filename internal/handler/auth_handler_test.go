package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "cryptovibe/internal/errors"
	"cryptovibe/internal/model"
	"cryptovibe/internal/service"
)

func requireHTTPError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected *echo.HTTPError, got %v", err)
	assert.Equal(t, status, he.Code)
	if code != "" {
		body, ok := he.Message.(apperrors.ErrorResponse)
		require.True(t, ok)
		assert.Equal(t, code, body.Code)
	}
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockRegistrationService)
		wantStatus int
		wantCode   string
		wantResult *service.RegisterResult
	}{
		{
			name: "created",
			body: `{"username":"satoshi","email":"s@example.com","password":"hunter2hunter2","confirm_password":"hunter2hunter2"}`,
			setupMock: func(m *MockRegistrationService) {
				m.On("Register", mock.Anything, mock.MatchedBy(func(in service.RegisterInput) bool {
					return in.Username == "satoshi" && in.ConfirmPassword != nil && *in.ConfirmPassword == "hunter2hunter2"
				})).Return(&service.RegisterResult{Success: true, Message: service.MsgRegistrationComplete}, nil)
			},
			wantStatus: http.StatusCreated,
			wantResult: &service.RegisterResult{Success: true, Message: service.MsgRegistrationComplete},
		},
		{
			name: "rule failure is a result",
			body: `{"username":"sa","email":"s@example.com","password":"hunter2hunter2"}`,
			setupMock: func(m *MockRegistrationService) {
				m.On("Register", mock.Anything, mock.MatchedBy(func(in service.RegisterInput) bool {
					return in.ConfirmPassword == nil
				})).Return(&service.RegisterResult{Message: service.MsgUsernameTooShort}, nil)
			},
			wantStatus: http.StatusOK,
			wantResult: &service.RegisterResult{Message: service.MsgUsernameTooShort},
		},
		{
			name:       "malformed body",
			body:       `{"username":`,
			setupMock:  func(m *MockRegistrationService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name: "storage down",
			body: `{"username":"satoshi","email":"s@example.com","password":"hunter2hunter2"}`,
			setupMock: func(m *MockRegistrationService) {
				m.On("Register", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("find user: %w", apperrors.ErrStorageUnavailable))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "STORAGE_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := new(MockRegistrationService)
			tt.setupMock(reg)
			h := NewAuthHandler(new(MockAuthService), reg)

			c, rec := newContext(newEcho(), http.MethodPost, "/api/auth/register", tt.body, nil)
			err := h.Register(c)

			if tt.wantResult == nil {
				requireHTTPError(t, err, tt.wantStatus, tt.wantCode)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, rec.Code)
				var got service.RegisterResult
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, *tt.wantResult, got)
			}
			reg.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	isAdmin := false
	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockAuthService)
		wantStatus int
		wantCode   string
		wantBody   string
	}{
		{
			name: "success",
			body: `{"username":"alice","password":"correct horse"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "alice", "correct horse").
					Return(&service.LoginResult{Success: true, Token: "tok", Message: "Welcome back, alice!", IsAdmin: &isAdmin}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"token":"tok","message":"Welcome back, alice!","is_admin":false}`,
		},
		{
			name: "bad credentials",
			body: `{"username":"alice","password":"nope"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "alice", "nope").Return(nil, apperrors.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"success":false,"message":"Invalid username or password"}`,
		},
		{
			name:       "missing password",
			body:       `{"username":"alice"}`,
			setupMock:  func(m *MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name: "storage down",
			body: `{"username":"alice","password":"correct horse"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "alice", "correct horse").
					Return(nil, fmt.Errorf("find user: %w", apperrors.ErrStorageUnavailable))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "STORAGE_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := new(MockAuthService)
			tt.setupMock(authSvc)
			h := NewAuthHandler(authSvc, new(MockRegistrationService))

			c, rec := newContext(newEcho(), http.MethodPost, "/api/auth/login", tt.body, nil)
			err := h.Login(c)

			if tt.wantBody != "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, rec.Code)
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			} else {
				requireHTTPError(t, err, tt.wantStatus, tt.wantCode)
			}
			authSvc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	authSvc := new(MockAuthService)
	authSvc.On("RevokeSession", mock.Anything, "tok").Return(nil).Once()
	h := NewAuthHandler(authSvc, new(MockRegistrationService))

	c, rec := newContext(newEcho(), http.MethodPost, "/api/auth/logout", "", &model.User{ID: uuid.New()})
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	authSvc.AssertExpectations(t)
}
