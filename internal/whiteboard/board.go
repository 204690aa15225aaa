package whiteboard

import "math"

const (
	MinZoom  = 0.2
	MaxZoom  = 5.0
	ZoomStep = 1.1

	// EraserScale widens eraser strokes relative to the configured thickness.
	EraserScale = 5.0

	DefaultThickness = 2.0
	DefaultWidth     = 1200
	DefaultHeight    = 800
)

// View is the pan offset and zoom applied when rendering.
type View struct {
	Zoom    float64 `json:"zoom"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// ToBoard maps a surface position to board coordinates, inverting the
// translate-then-scale render transform.
func (v View) ToBoard(x, y float64) Point {
	return Point{X: (x - v.OffsetX) / v.Zoom, Y: (y - v.OffsetY) / v.Zoom}
}

// Snapshot is a read-only copy of the board state.
type Snapshot struct {
	Strokes   []Stroke `json:"strokes"`
	Redo      []Stroke `json:"redo"`
	Current   []Point  `json:"current,omitempty"`
	Drawing   bool     `json:"drawing"`
	Tool      Tool     `json:"tool"`
	Color     Color    `json:"color"`
	Thickness float64  `json:"thickness"`
	View      View     `json:"view"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
}

// Board holds one whiteboard. It is not safe for concurrent use; callers
// serialize access the way a UI event loop would.
type Board struct {
	width, height float64

	strokes []Stroke
	redo    []Stroke

	current []Point
	drawing bool

	tool      Tool
	color     Color
	thickness float64
	view      View

	canvas Canvas
}

// New returns an empty board of the given surface size. When canvas is not
// nil it is fully redrawn after every mutation.
func New(width, height float64, canvas Canvas) *Board {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	b := &Board{
		width:     width,
		height:    height,
		tool:      ToolPen,
		color:     Black,
		thickness: DefaultThickness,
		view:      View{Zoom: 1},
		canvas:    canvas,
	}
	b.redraw()
	return b
}

// Load replaces the history, for example when restoring a persisted board.
// Both slices are given oldest first.
func (b *Board) Load(strokes, redo []Stroke) {
	b.strokes = cloneStrokes(strokes)
	b.redo = cloneStrokes(redo)
	b.current = nil
	b.drawing = false
	b.redraw()
}

// Snapshot returns a deep copy of the current state.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Strokes:   cloneStrokes(b.strokes),
		Redo:      cloneStrokes(b.redo),
		Current:   append([]Point(nil), b.current...),
		Drawing:   b.drawing,
		Tool:      b.tool,
		Color:     b.color,
		Thickness: b.thickness,
		View:      b.view,
		Width:     b.width,
		Height:    b.height,
	}
}

func (b *Board) Strokes() []Stroke { return cloneStrokes(b.strokes) }
func (b *Board) RedoStack() []Stroke { return cloneStrokes(b.redo) }
func (b *Board) Drawing() bool { return b.drawing }
func (b *Board) View() View { return b.view }
func (b *Board) Tool() Tool { return b.tool }
func (b *Board) Color() Color { return b.color }

// SetTool changes the tool used by the next gesture.
func (b *Board) SetTool(t Tool) {
	b.tool = t
}

// SetColor changes the color used by the next gesture.
func (b *Board) SetColor(c Color) {
	b.color = c
}

// CycleColor advances to the next palette color.
func (b *Board) CycleColor() Color {
	b.color = b.color.Next()
	return b.color
}

// SetThickness ignores non-positive widths.
func (b *Board) SetThickness(w float64) {
	if w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w) {
		b.thickness = w
	}
}

// PointerDown starts a gesture at surface position (x, y).
func (b *Board) PointerDown(x, y float64) {
	b.drawing = true
	b.current = []Point{b.view.ToBoard(x, y)}
	b.redraw()
}

// PointerMove extends the gesture in progress. Freehand tools record every
// point; anchored shapes only move their end point.
func (b *Board) PointerMove(x, y float64) {
	if !b.drawing {
		return
	}
	p := b.view.ToBoard(x, y)
	switch {
	case b.tool.Freehand():
		b.current = append(b.current, p)
	case b.tool.Anchored():
		if len(b.current) < 2 {
			b.current = append(b.current, p)
		} else {
			b.current[len(b.current)-1] = p
		}
	default:
		// text only needs its placement point
	}
	b.redraw()
}

// PointerUp ends the gesture and commits it. It reports false when no
// gesture was in progress.
func (b *Board) PointerUp() (Stroke, bool) {
	if !b.drawing {
		return Stroke{}, false
	}
	s := Stroke{
		Points:    b.current,
		Color:     b.color,
		Thickness: b.thickness,
		Tool:      b.tool,
	}
	b.drawing = false
	b.current = nil
	b.commit(s)
	return s.Clone(), true
}

// PointerLeave behaves like PointerUp.
func (b *Board) PointerLeave() (Stroke, bool) {
	return b.PointerUp()
}

// Commit appends a complete stroke, as if drawn by a gesture. Anchored shapes
// are reduced to their first and last point.
func (b *Board) Commit(s Stroke) Stroke {
	s = s.Clone()
	if s.Tool.Anchored() && len(s.Points) > 2 {
		s.Points = []Point{s.Points[0], s.Points[len(s.Points)-1]}
	}
	if s.Tool == ToolText && len(s.Points) > 1 {
		s.Points = s.Points[:1]
	}
	b.commit(s)
	return s.Clone()
}

func (b *Board) commit(s Stroke) {
	b.strokes = append(b.strokes, s)
	b.redo = nil
	b.redraw()
}

// Undo moves the latest stroke onto the redo stack.
func (b *Board) Undo() (Stroke, bool) {
	if len(b.strokes) == 0 {
		return Stroke{}, false
	}
	last := b.strokes[len(b.strokes)-1]
	b.strokes = b.strokes[:len(b.strokes)-1]
	b.redo = append(b.redo, last)
	b.redraw()
	return last.Clone(), true
}

// Redo moves the top of the redo stack back onto the board.
func (b *Board) Redo() (Stroke, bool) {
	if len(b.redo) == 0 {
		return Stroke{}, false
	}
	top := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.strokes = append(b.strokes, top)
	b.redraw()
	return top.Clone(), true
}

// Clear removes every stroke and the redo history.
func (b *Board) Clear() {
	b.strokes = nil
	b.redo = nil
	b.current = nil
	b.drawing = false
	b.redraw()
}

func (b *Board) ZoomIn() {
	b.view.Zoom = math.Min(b.view.Zoom*ZoomStep, MaxZoom)
	b.redraw()
}

func (b *Board) ZoomOut() {
	b.view.Zoom = math.Max(b.view.Zoom/ZoomStep, MinZoom)
	b.redraw()
}

// ResetView restores zoom 1 and removes any pan offset.
func (b *Board) ResetView() {
	b.view = View{Zoom: 1}
	b.redraw()
}

// Wheel pans the view. With shift held the horizontal delta pans
// horizontally, otherwise the vertical delta pans vertically.
func (b *Board) Wheel(deltaX, deltaY float64, shift bool) {
	if shift {
		b.view.OffsetX -= deltaX
	} else {
		b.view.OffsetY -= deltaY
	}
	b.redraw()
}

// HandleKey applies a keyboard shortcut. mod is ctrl or meta. It reports
// whether the key was bound.
func (b *Board) HandleKey(key string, mod bool) bool {
	switch {
	case key == "z" && mod:
		b.Undo()
	case key == "y" && mod:
		b.Redo()
	case key == "+" || key == "=":
		b.ZoomIn()
	case key == "-" || key == "_":
		b.ZoomOut()
	case key == "0":
		b.ResetView()
	default:
		return false
	}
	return true
}

// Render draws the whole board onto c: committed strokes in order, then the
// gesture in progress, all under the current view transform.
func (b *Board) Render(c Canvas) {
	c.ClearRect(0, 0, b.width, b.height)
	c.Save()
	c.Translate(b.view.OffsetX, b.view.OffsetY)
	c.Scale(b.view.Zoom, b.view.Zoom)

	for i := range b.strokes {
		drawStroke(c, &b.strokes[i])
	}
	if len(b.current) > 0 {
		drawStroke(c, &Stroke{
			Points:    b.current,
			Color:     b.color,
			Thickness: b.thickness,
			Tool:      b.tool,
		})
	}

	c.Restore()
}

func (b *Board) redraw() {
	if b.canvas != nil {
		b.Render(b.canvas)
	}
}

func drawStroke(c Canvas, s *Stroke) {
	if len(s.Points) == 0 {
		return
	}

	c.BeginPath()
	c.SetLineWidth(s.Thickness)
	c.SetLineCap("round")
	c.SetLineJoin("round")
	c.SetStrokeStyle(s.Color.String())

	first, last := s.Points[0], s.Points[len(s.Points)-1]

	switch s.Tool {
	case ToolPen, ToolEraser:
		if s.Tool == ToolEraser {
			c.SetCompositeOperation(CompositeDestinationOut)
			c.SetLineWidth(s.Thickness * EraserScale)
		} else {
			c.SetCompositeOperation(CompositeSourceOver)
		}
		c.MoveTo(first.X, first.Y)
		for _, p := range s.Points[1:] {
			c.LineTo(p.X, p.Y)
		}
		c.Stroke()
		c.SetCompositeOperation(CompositeSourceOver)
	case ToolLine:
		if len(s.Points) >= 2 {
			c.MoveTo(first.X, first.Y)
			c.LineTo(last.X, last.Y)
			c.Stroke()
		}
	case ToolRectangle:
		if len(s.Points) >= 2 {
			c.StrokeRect(
				math.Min(first.X, last.X),
				math.Min(first.Y, last.Y),
				math.Abs(last.X-first.X),
				math.Abs(last.Y-first.Y),
			)
		}
	case ToolCircle:
		if len(s.Points) >= 2 {
			c.BeginPath()
			c.Arc(first.X, first.Y, math.Hypot(last.X-first.X, last.Y-first.Y), 0, 2*math.Pi)
			c.Stroke()
		}
	case ToolText:
		// placeholder: text strokes only mark a position
	}
}

func cloneStrokes(in []Stroke) []Stroke {
	if len(in) == 0 {
		return []Stroke{}
	}
	out := make([]Stroke, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
