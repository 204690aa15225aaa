package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cryptovibe/internal/errors"
	"cryptovibe/internal/middleware"
	"cryptovibe/internal/model"
	"cryptovibe/internal/service"
	"cryptovibe/internal/whiteboard"
)

// WhiteboardHandler exposes the signed-in user's whiteboard.
type WhiteboardHandler struct {
	whiteboardService service.WhiteboardService
}

// NewWhiteboardHandler creates a new whiteboard handler.
func NewWhiteboardHandler(whiteboardService service.WhiteboardService) *WhiteboardHandler {
	return &WhiteboardHandler{whiteboardService: whiteboardService}
}

// PointerRequest is a pointer event in screen coordinates.
type PointerRequest struct {
	Type string  `json:"type" validate:"required,oneof=down move up leave"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ZoomRequest selects a zoom action.
type ZoomRequest struct {
	Action string `json:"action" validate:"required,oneof=in out reset"`
}

// PanRequest is a wheel gesture.
type PanRequest struct {
	DeltaX float64 `json:"delta_x"`
	DeltaY float64 `json:"delta_y"`
	Shift  bool    `json:"shift"`
}

// KeyRequest is a keyboard shortcut; Mod is ctrl or meta.
type KeyRequest struct {
	Key string `json:"key" validate:"required,max=16"`
	Mod bool   `json:"mod"`
}

// ToolRequest changes drawing attributes. Omitted fields stay unchanged.
type ToolRequest struct {
	Tool       *string  `json:"tool,omitempty" validate:"omitempty,max=16"`
	Color      *string  `json:"color,omitempty" validate:"omitempty,max=16"`
	Thickness  *float64 `json:"thickness,omitempty"`
	CycleColor bool     `json:"cycle_color,omitempty"`
}

func (h *WhiteboardHandler) user(c echo.Context) (*model.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, respondError(errors.ErrInvalidSession)
	}
	return user, nil
}

func (h *WhiteboardHandler) respond(c echo.Context, state *service.BoardState, err error) error {
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, state)
}

// Get godoc
// @Summary Current whiteboard
// @Description Returns strokes, redo stack, view and the draw commands of a full redraw
// @Tags whiteboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.BoardState
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /whiteboard [get]
func (h *WhiteboardHandler) Get(c echo.Context) error {
	user, err := h.user(c)
	if err != nil {
		return err
	}
	state, err := h.whiteboardService.Get(c.Request().Context(), user.ID)
	return h.respond(c, state, err)
}

// Pointer godoc
// @Summary Feed a pointer event
// @Tags whiteboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PointerRequest true "Pointer event"
// @Success 200 {object} service.BoardState
// @Failure 400 {object} errors.ErrorResponse
// @Router /whiteboard/pointer [post]
func (h *WhiteboardHandler) Pointer(c echo.Context) error {
	user, err := h.user(c)
	if err != nil {
		return err
	}
	var req PointerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	state, err := h.whiteboardService.Pointer(c.Request().Context(), user.ID, service.PointerEvent{
		Type: req.Type,
		X:    req.X,
		Y:    req.Y,
	})
	return h.respond(c, state, err)
}

// CommitStroke godoc
// @Summary Commit a complete stroke
// @Tags whiteboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body whiteboard.Stroke true "Stroke"
// @Success 200 {object} service.BoardState
// @Failure 400 {object} errors.ErrorResponse
// @Router /whiteboard/strokes [post]
func (h *WhiteboardHandler) CommitStroke(c echo.Context) error {
	user, err := h.user(c)
	if err != nil {
		return err
	}
	var stroke whiteboard.Stroke
	if err := c.Bind(&stroke); err != nil {
		return badRequest("invalid request body")
	}
	state, err := h.whiteboardService.Commit(c.Request().Context(), user.ID, stroke)
	return h.respond(c, state, err)
}

// Undo godoc
// @Summary Undo the last stroke
// @Tags whiteboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.BoardState
// @Router /whiteboard/undo [post]
func (h *WhiteboardHandler) Undo(c echo.Context) error {
	user, err := h.user(c)
	if err != nil {
		return err
	}
	state, err := h.whiteboardService.Undo(c.Request().Context(), user.ID)
	return h.respond(c, state, err)
}

// Redo godoc
// @Summary Redo the last undone stroke
// @Tags whiteboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.BoardState
// @Router /whiteboard/redo [post]
func (h *WhiteboardHandler) Redo(c echo.Context) error {
	user, err := h.user(c)
	if err != nil {
		return err
	}
	state, err := h.whiteboardService.Redo(c.Request().Context(), user.ID)
	return h.respond(c, state, err)
}

// Clear godoc
// @Summary Clear the board and its history
// @Tags whiteboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.BoardState
// @Router /whiteboard/clear [post]
func (h *WhiteboardHandler) Clear(c echo.Context) error {
	user, err := h.user(c)
	if err != nil {
		return err
	}
	state, err := h.whiteboardService.Clear(c.Request().Context(), user.ID)
	return h.respond(c, state, err)
}

// Zoom godoc
// @Summary Zoom in, out or reset the view
// @Tags whiteboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ZoomRequest true "Zoom action"
// @Success 200 {object} service.BoardState
// @Failure 400 {object} errors.ErrorResponse
// @Router /whiteboard/zoom [post]
func (h *WhiteboardHandler) Zoom(c echo.Context) error {
	user, err := h.user(c)
	if err != nil {
		return err
	}
	var req ZoomRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	state, err := h.whiteboardService.Zoom(c.Request().Context(), user.ID, req.Action)
	return h.respond(c, state, err)
}

// Pan godoc
// @Summary Pan the view with a wheel gesture
// @Tags whiteboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PanRequest true "Wheel deltas"
// @Success 200 {object} service.BoardState
// @Router /whiteboard/pan [post]
func (h *WhiteboardHandler) Pan(c echo.Context) error {
	user, err := h.user(c)
	if err != nil {
		return err
	}
	var req PanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	state, err := h.whiteboardService.Pan(c.Request().Context(), user.ID, req.DeltaX, req.DeltaY, req.Shift)
	return h.respond(c, state, err)
}

// Key godoc
// @Summary Apply a keyboard shortcut
// @Tags whiteboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body KeyRequest true "Key"
// @Success 200 {object} service.BoardState
// @Router /whiteboard/key [post]
func (h *WhiteboardHandler) Key(c echo.Context) error {
	user, err := h.user(c)
	if err != nil {
		return err
	}
	var req KeyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	state, err := h.whiteboardService.Key(c.Request().Context(), user.ID, req.Key, req.Mod)
	return h.respond(c, state, err)
}

// SetTool godoc
// @Summary Change tool, color or thickness
// @Tags whiteboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ToolRequest true "Tool settings"
// @Success 200 {object} service.BoardState
// @Failure 400 {object} errors.ErrorResponse
// @Router /whiteboard/tool [post]
func (h *WhiteboardHandler) SetTool(c echo.Context) error {
	user, err := h.user(c)
	if err != nil {
		return err
	}
	var req ToolRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	state, err := h.whiteboardService.SetTool(c.Request().Context(), user.ID, service.ToolSettings{
		Tool:       req.Tool,
		Color:      req.Color,
		Thickness:  req.Thickness,
		CycleColor: req.CycleColor,
	})
	return h.respond(c, state, err)
}
