package middleware

import (
	"context"
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "cryptovibe/internal/errors"
	"cryptovibe/internal/model"
)

// Context keys set by SessionAuth.
const (
	ContextUserKey  = "user"
	ContextTokenKey = "session_token"
	ContextUserID   = "user_id"
)

// SessionValidator resolves an opaque bearer token to its owner.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*model.User, error)
}

// SessionAuth requires "Authorization: Bearer <token>" naming a usable
// session. The user, the raw token and the user id are stored on the context.
func SessionAuth(sessions SessionValidator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  ContextUserKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			user, err := sessions.ValidateSession(c.Request().Context(), token)
			if err != nil {
				return nil, err
			}
			c.Set(ContextTokenKey, token)
			c.Set(ContextUserID, user.ID.String())
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, apperrors.ErrStorageUnavailable) {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: apperrors.ErrInvalidSession.Error(),
				Code:  "INVALID_SESSION",
			})
		},
	})
}

// CurrentUser returns the user stored by SessionAuth.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextUserKey).(*model.User)
	return user, ok && user != nil
}

// SessionToken returns the bearer token stored by SessionAuth.
func SessionToken(c echo.Context) string {
	token, _ := c.Get(ContextTokenKey).(string)
	return token
}

// RequireAdmin rejects users without the admin flag. It must run after
// SessionAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Error: apperrors.ErrInvalidSession.Error(),
					Code:  "INVALID_SESSION",
				})
			}
			if !user.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Error: apperrors.ErrForbidden.Error(),
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}
