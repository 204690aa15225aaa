// Package whiteboard implements the drawing engine behind the trading
// whiteboard: gesture capture, linear undo/redo, pan/zoom and a
// redraw-from-scratch renderer targeting a 2D canvas.
package whiteboard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Tool selects how a gesture is turned into a stroke.
type Tool string

const (
	ToolPen       Tool = "pen"
	ToolEraser    Tool = "eraser"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolText      Tool = "text"
)

// ParseTool accepts a tool name case-insensitively.
func ParseTool(s string) (Tool, error) {
	switch t := Tool(strings.ToLower(strings.TrimSpace(s))); t {
	case ToolPen, ToolEraser, ToolLine, ToolRectangle, ToolCircle, ToolText:
		return t, nil
	default:
		return "", fmt.Errorf("unknown tool %q", s)
	}
}

// Freehand reports whether every pointer move adds a point.
func (t Tool) Freehand() bool {
	return t == ToolPen || t == ToolEraser
}

// Anchored reports whether the stroke only uses its first and last point.
func (t Tool) Anchored() bool {
	return t == ToolLine || t == ToolRectangle || t == ToolCircle
}

// Color is an RGB stroke color. It marshals to a "#rrggbb" string.
type Color struct {
	R, G, B uint8
}

var (
	Black   = Color{0x00, 0x00, 0x00}
	Red     = Color{0xff, 0x33, 0x33}
	Green   = Color{0x00, 0xff, 0x88}
	Blue    = Color{0x33, 0x66, 0xff}
	Yellow  = Color{0xff, 0xff, 0x33}
	Cyan    = Color{0x33, 0xff, 0xff}
	Magenta = Color{0xff, 0x33, 0xff}
	White   = Color{0xff, 0xff, 0xff}
)

// Palette is the toolbar color cycle.
var Palette = []Color{Black, Red, Green, Blue, Yellow, Cyan, Magenta, White}

var colorNames = map[string]Color{
	"black":   Black,
	"red":     Red,
	"green":   Green,
	"blue":    Blue,
	"yellow":  Yellow,
	"cyan":    Cyan,
	"magenta": Magenta,
	"white":   White,
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Next returns the color after c in the palette. Custom colors stay as they are.
func (c Color) Next() Color {
	for i, p := range Palette {
		if p == c {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return c
}

// ParseColor accepts a palette name or a "#rrggbb" hex string.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colorNames[s]; ok {
		return c, nil
	}
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Point is a position in board coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one committed drawing action. Points are in drawing order.
type Stroke struct {
	Points    []Point `json:"points"`
	Color     Color   `json:"color"`
	Thickness float64 `json:"thickness"`
	Tool      Tool    `json:"tool"`
}

// Clone returns a deep copy so callers cannot mutate committed history.
func (s Stroke) Clone() Stroke {
	out := s
	out.Points = append([]Point(nil), s.Points...)
	return out
}

// Equal reports whether two strokes have the same points and attributes.
func (s Stroke) Equal(o Stroke) bool {
	if s.Color != o.Color || s.Thickness != o.Thickness || s.Tool != o.Tool || len(s.Points) != len(o.Points) {
		return false
	}
	for i := range s.Points {
		if s.Points[i] != o.Points[i] {
			return false
		}
	}
	return true
}
