package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"cryptovibe/internal/config"
)

func TestRegister_ClientIPFromSocket(t *testing.T) {
	e := echo.New()
	Register(e, &config.Config{}, nil, nil, Handlers{})
	e.GET("/whoami", func(c echo.Context) error {
		return c.String(http.StatusOK, c.RealIP())
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.RemoteAddr = "203.0.113.9:40000"
	req.Header.Set(echo.HeaderXForwardedFor, "198.51.100.1")
	req.Header.Set(echo.HeaderXRealIP, "198.51.100.2")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "203.0.113.9", rec.Body.String())
}

func TestRegister_Healthz(t *testing.T) {
	e := echo.New()
	Register(e, &config.Config{}, nil, nil, Handlers{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
