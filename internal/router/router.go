package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cryptovibe/internal/config"
	"cryptovibe/internal/handler"
	appmw "cryptovibe/internal/middleware"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Whiteboard *handler.WhiteboardHandler
	Analysis   *handler.AnalysisHandler
	NFT        *handler.NFTHandler
}

// Register wires routes and middleware. rdb may be nil, in which case rate
// limiting is disabled.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions appmw.SessionValidator,
	rdb *redis.Client,
	h Handlers,
) {
	// Client addresses come from the socket; forwarding headers are
	// client-controlled and would let callers pick their rate-limit bucket.
	e.IPExtractor = echo.ExtractIPDirect()

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	limited := appmw.RateLimit(cfg.RateLimit, rdb)
	authenticated := appmw.SessionAuth(sessions)

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login, limited)
	api.POST("/ai/gemini", h.Analysis.Gemini, limited)
	api.GET("/market/pairs", h.Analysis.Pairs)

	// Secured routes (require a valid session)
	secured := api.Group("", authenticated)

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/me", h.User.Me)
	secured.POST("/ai/grok", h.Analysis.Grok, limited)
	secured.GET("/nft/holder", h.NFT.Holder)

	board := secured.Group("/whiteboard")
	board.GET("", h.Whiteboard.Get)
	board.POST("/pointer", h.Whiteboard.Pointer)
	board.POST("/strokes", h.Whiteboard.CommitStroke)
	board.POST("/undo", h.Whiteboard.Undo)
	board.POST("/redo", h.Whiteboard.Redo)
	board.POST("/clear", h.Whiteboard.Clear)
	board.POST("/zoom", h.Whiteboard.Zoom)
	board.POST("/pan", h.Whiteboard.Pan)
	board.POST("/key", h.Whiteboard.Key)
	board.POST("/tool", h.Whiteboard.SetTool)

	// Admin routes
	admin := secured.Group("/admin", appmw.RequireAdmin())
	admin.GET("/users", h.User.ListUsers)
	admin.GET("/users/:id", h.User.GetUser)
	admin.PATCH("/users/:id/admin", h.User.SetAdmin)
	admin.DELETE("/users/:id", h.User.Deactivate)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
