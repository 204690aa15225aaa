package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cryptovibe/internal/errors"
)

// respondError converts a service error into an echo HTTP error carrying an
// errors.ErrorResponse body.
func respondError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: msg,
		Code:  "INVALID_REQUEST",
	})
}

// bindAndValidate binds the body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}
