package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "cryptovibe/internal/errors"
	"cryptovibe/internal/model"
	"cryptovibe/internal/repository"
	"cryptovibe/internal/whiteboard"
)

// Pointer event kinds accepted by WhiteboardService.Pointer.
const (
	PointerDown  = "down"
	PointerMove  = "move"
	PointerUp    = "up"
	PointerLeave = "leave"
)

// Zoom actions accepted by WhiteboardService.Zoom.
const (
	ZoomIn    = "in"
	ZoomOut   = "out"
	ZoomReset = "reset"
)

// PointerEvent is a pointer position on the drawing surface.
type PointerEvent struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ToolSettings changes the drawing attributes. Nil fields are left unchanged;
// CycleColor advances the palette after Color is applied.
type ToolSettings struct {
	Tool       *string  `json:"tool,omitempty"`
	Color      *string  `json:"color,omitempty"`
	Thickness  *float64 `json:"thickness,omitempty"`
	CycleColor bool     `json:"cycle_color,omitempty"`
}

// BoardState is the board snapshot plus the draw commands of a full redraw.
type BoardState struct {
	whiteboard.Snapshot
	Commands []whiteboard.Command `json:"commands"`
}

// WhiteboardService keeps one board per user and persists its history.
type WhiteboardService interface {
	Get(ctx context.Context, userID uuid.UUID) (*BoardState, error)
	Pointer(ctx context.Context, userID uuid.UUID, ev PointerEvent) (*BoardState, error)
	Commit(ctx context.Context, userID uuid.UUID, stroke whiteboard.Stroke) (*BoardState, error)
	Undo(ctx context.Context, userID uuid.UUID) (*BoardState, error)
	Redo(ctx context.Context, userID uuid.UUID) (*BoardState, error)
	Clear(ctx context.Context, userID uuid.UUID) (*BoardState, error)
	Zoom(ctx context.Context, userID uuid.UUID, action string) (*BoardState, error)
	Pan(ctx context.Context, userID uuid.UUID, deltaX, deltaY float64, shift bool) (*BoardState, error)
	Key(ctx context.Context, userID uuid.UUID, key string, mod bool) (*BoardState, error)
	SetTool(ctx context.Context, userID uuid.UUID, settings ToolSettings) (*BoardState, error)
}

// boardSession is one user's in-memory board. ids and redoIDs mirror the
// board's stroke list and redo stack with the ids of the persisted rows.
type boardSession struct {
	mu       sync.Mutex
	loaded   bool
	board    *whiteboard.Board
	recorder *whiteboard.Recorder

	ids         []uuid.UUID
	redoIDs     []uuid.UUID
	nextSeq     int64
	nextUndoSeq int64
}

type whiteboardService struct {
	repo   repository.WhiteboardRepository
	boards sync.Map // uuid.UUID -> *boardSession
	now    func() time.Time
}

// NewWhiteboardService creates a whiteboard service backed by repo.
func NewWhiteboardService(repo repository.WhiteboardRepository) WhiteboardService {
	return &whiteboardService{repo: repo, now: time.Now}
}

// with runs fn on the user's hydrated board while holding its lock. When fn
// fails the board is marked stale and the next call reloads it from storage.
// The entry itself stays in the map so every caller keeps sharing one lock.
func (s *whiteboardService) with(ctx context.Context, userID uuid.UUID, fn func(*boardSession) error) (*BoardState, error) {
	v, _ := s.boards.LoadOrStore(userID, &boardSession{})
	bs := v.(*boardSession)

	bs.mu.Lock()
	defer bs.mu.Unlock()

	if !bs.loaded {
		if err := s.hydrate(ctx, userID, bs); err != nil {
			return nil, err
		}
	}

	if fn != nil {
		if err := fn(bs); err != nil {
			bs.loaded = false
			return nil, err
		}
	}
	return bs.state(), nil
}

func (s *whiteboardService) hydrate(ctx context.Context, userID uuid.UUID, bs *boardSession) error {
	active, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return storageError("load strokes", err)
	}
	undone, err := s.repo.ListUndone(ctx, userID)
	if err != nil {
		return storageError("load redo stack", err)
	}

	strokes, ids, err := decodeStrokes(active)
	if err != nil {
		return err
	}
	redo, redoIDs, err := decodeStrokes(undone)
	if err != nil {
		return err
	}

	bs.recorder = &whiteboard.Recorder{}
	bs.board = whiteboard.New(whiteboard.DefaultWidth, whiteboard.DefaultHeight, bs.recorder)
	bs.board.Load(strokes, redo)
	bs.ids, bs.redoIDs = ids, redoIDs

	bs.nextSeq, bs.nextUndoSeq = 1, 1
	for _, row := range active {
		if row.Seq >= bs.nextSeq {
			bs.nextSeq = row.Seq + 1
		}
	}
	for _, row := range undone {
		if row.Seq >= bs.nextSeq {
			bs.nextSeq = row.Seq + 1
		}
		if row.UndoSeq >= bs.nextUndoSeq {
			bs.nextUndoSeq = row.UndoSeq + 1
		}
	}
	bs.loaded = true
	return nil
}

func (s *whiteboardService) Get(ctx context.Context, userID uuid.UUID) (*BoardState, error) {
	return s.with(ctx, userID, nil)
}

func (s *whiteboardService) Pointer(ctx context.Context, userID uuid.UUID, ev PointerEvent) (*BoardState, error) {
	kind := strings.ToLower(ev.Type)
	switch kind {
	case PointerDown, PointerMove, PointerUp, PointerLeave:
	default:
		return nil, fmt.Errorf("%w: unknown pointer event %q", apperrors.ErrInvalidInput, ev.Type)
	}

	return s.with(ctx, userID, func(bs *boardSession) error {
		switch kind {
		case PointerDown:
			bs.board.PointerDown(ev.X, ev.Y)
		case PointerMove:
			bs.board.PointerMove(ev.X, ev.Y)
		default:
			stroke, ok := bs.board.PointerUp()
			if !ok {
				return nil
			}
			return s.persistCommit(ctx, userID, bs, stroke)
		}
		return nil
	})
}

func (s *whiteboardService) Commit(ctx context.Context, userID uuid.UUID, stroke whiteboard.Stroke) (*BoardState, error) {
	tool, err := whiteboard.ParseTool(string(stroke.Tool))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	stroke.Tool = tool
	if len(stroke.Points) == 0 {
		return nil, fmt.Errorf("%w: stroke has no points", apperrors.ErrInvalidInput)
	}
	if stroke.Thickness <= 0 {
		stroke.Thickness = whiteboard.DefaultThickness
	}

	return s.with(ctx, userID, func(bs *boardSession) error {
		committed := bs.board.Commit(stroke)
		return s.persistCommit(ctx, userID, bs, committed)
	})
}

func (s *whiteboardService) persistCommit(ctx context.Context, userID uuid.UUID, bs *boardSession, stroke whiteboard.Stroke) error {
	data, err := json.Marshal(stroke)
	if err != nil {
		return fmt.Errorf("encode stroke: %w", err)
	}
	row := &model.WhiteboardStroke{
		ID:         uuid.New(),
		UserID:     userID,
		StrokeData: string(data),
		Seq:        bs.nextSeq,
	}
	if err := s.repo.Commit(ctx, row); err != nil {
		return storageError("commit stroke", err)
	}
	bs.nextSeq++
	bs.ids = append(bs.ids, row.ID)
	bs.redoIDs = nil
	return nil
}

func (s *whiteboardService) Undo(ctx context.Context, userID uuid.UUID) (*BoardState, error) {
	return s.with(ctx, userID, func(bs *boardSession) error {
		return s.undo(ctx, bs)
	})
}

func (s *whiteboardService) undo(ctx context.Context, bs *boardSession) error {
	if _, ok := bs.board.Undo(); !ok {
		return nil
	}
	last := len(bs.ids) - 1
	id := bs.ids[last]
	if err := s.repo.MarkUndone(ctx, id, bs.nextUndoSeq, s.now()); err != nil {
		return storageError("undo stroke", err)
	}
	bs.nextUndoSeq++
	bs.ids = bs.ids[:last]
	bs.redoIDs = append(bs.redoIDs, id)
	return nil
}

func (s *whiteboardService) Redo(ctx context.Context, userID uuid.UUID) (*BoardState, error) {
	return s.with(ctx, userID, func(bs *boardSession) error {
		return s.redo(ctx, bs)
	})
}

func (s *whiteboardService) redo(ctx context.Context, bs *boardSession) error {
	if _, ok := bs.board.Redo(); !ok {
		return nil
	}
	last := len(bs.redoIDs) - 1
	id := bs.redoIDs[last]
	if err := s.repo.Restore(ctx, id, bs.nextSeq); err != nil {
		return storageError("redo stroke", err)
	}
	bs.nextSeq++
	bs.redoIDs = bs.redoIDs[:last]
	bs.ids = append(bs.ids, id)
	return nil
}

func (s *whiteboardService) Clear(ctx context.Context, userID uuid.UUID) (*BoardState, error) {
	return s.with(ctx, userID, func(bs *boardSession) error {
		if err := s.repo.DeleteAll(ctx, userID); err != nil {
			return storageError("clear board", err)
		}
		bs.board.Clear()
		bs.ids, bs.redoIDs = nil, nil
		return nil
	})
}

func (s *whiteboardService) Zoom(ctx context.Context, userID uuid.UUID, action string) (*BoardState, error) {
	var apply func(*whiteboard.Board)
	switch strings.ToLower(action) {
	case ZoomIn:
		apply = (*whiteboard.Board).ZoomIn
	case ZoomOut:
		apply = (*whiteboard.Board).ZoomOut
	case ZoomReset:
		apply = (*whiteboard.Board).ResetView
	default:
		return nil, fmt.Errorf("%w: unknown zoom action %q", apperrors.ErrInvalidInput, action)
	}
	return s.with(ctx, userID, func(bs *boardSession) error {
		apply(bs.board)
		return nil
	})
}

func (s *whiteboardService) Pan(ctx context.Context, userID uuid.UUID, deltaX, deltaY float64, shift bool) (*BoardState, error) {
	return s.with(ctx, userID, func(bs *boardSession) error {
		bs.board.Wheel(deltaX, deltaY, shift)
		return nil
	})
}

// Key applies a keyboard shortcut. Undo and redo go through the persisted
// path; unbound keys leave the board unchanged.
func (s *whiteboardService) Key(ctx context.Context, userID uuid.UUID, key string, mod bool) (*BoardState, error) {
	key = strings.ToLower(key)
	return s.with(ctx, userID, func(bs *boardSession) error {
		switch {
		case mod && key == "z":
			return s.undo(ctx, bs)
		case mod && key == "y":
			return s.redo(ctx, bs)
		default:
			bs.board.HandleKey(key, mod)
			return nil
		}
	})
}

func (s *whiteboardService) SetTool(ctx context.Context, userID uuid.UUID, settings ToolSettings) (*BoardState, error) {
	var (
		tool  whiteboard.Tool
		color whiteboard.Color
		err   error
	)
	if settings.Tool != nil {
		if tool, err = whiteboard.ParseTool(*settings.Tool); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
	}
	if settings.Color != nil {
		if color, err = whiteboard.ParseColor(*settings.Color); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
	}

	return s.with(ctx, userID, func(bs *boardSession) error {
		if settings.Tool != nil {
			bs.board.SetTool(tool)
		}
		if settings.Color != nil {
			bs.board.SetColor(color)
		}
		if settings.Thickness != nil {
			bs.board.SetThickness(*settings.Thickness)
		}
		if settings.CycleColor {
			bs.board.CycleColor()
		}
		return nil
	})
}

func (bs *boardSession) state() *BoardState {
	return &BoardState{
		Snapshot: bs.board.Snapshot(),
		Commands: bs.recorder.Commands(),
	}
}

func decodeStrokes(rows []model.WhiteboardStroke) ([]whiteboard.Stroke, []uuid.UUID, error) {
	strokes := make([]whiteboard.Stroke, 0, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		var s whiteboard.Stroke
		if err := json.Unmarshal([]byte(row.StrokeData), &s); err != nil {
			return nil, nil, fmt.Errorf("decode stroke %s: %w", row.ID, err)
		}
		strokes = append(strokes, s)
		ids = append(ids, row.ID)
	}
	return strokes, ids, nil
}
