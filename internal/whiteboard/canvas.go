package whiteboard

// Composite operations used by the renderer.
const (
	CompositeSourceOver     = "source-over"
	CompositeDestinationOut = "destination-out"
)

// Canvas is the subset of a 2D canvas context the renderer draws with.
type Canvas interface {
	ClearRect(x, y, w, h float64)
	Save()
	Restore()
	Translate(x, y float64)
	Scale(x, y float64)
	SetCompositeOperation(op string)
	SetLineWidth(w float64)
	SetLineCap(cap string)
	SetLineJoin(join string)
	SetStrokeStyle(style string)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, radius, startAngle, endAngle float64)
	Stroke()
	StrokeRect(x, y, w, h float64)
}

// Command is one recorded canvas call.
type Command struct {
	Op    string    `json:"op"`
	Args  []float64 `json:"args,omitempty"`
	Value string    `json:"value,omitempty"`
}

// Recorder is a Canvas that keeps the calls of the most recent frame. A
// ClearRect starts a new frame, so after a full redraw Commands holds exactly
// what a client needs to replay.
type Recorder struct {
	commands []Command
}

// Commands returns a copy of the current frame.
func (r *Recorder) Commands() []Command {
	return append([]Command(nil), r.commands...)
}

func (r *Recorder) add(op string, value string, args ...float64) {
	r.commands = append(r.commands, Command{Op: op, Args: args, Value: value})
}

func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.commands = r.commands[:0]
	r.add("clearRect", "", x, y, w, h)
}

func (r *Recorder) Save() { r.add("save", "") }
func (r *Recorder) Restore() { r.add("restore", "") }
func (r *Recorder) Translate(x, y float64) { r.add("translate", "", x, y) }
func (r *Recorder) Scale(x, y float64) { r.add("scale", "", x, y) }
func (r *Recorder) SetCompositeOperation(op string) { r.add("globalCompositeOperation", op) }
func (r *Recorder) SetLineWidth(w float64) { r.add("lineWidth", "", w) }
func (r *Recorder) SetLineCap(cap string) { r.add("lineCap", cap) }
func (r *Recorder) SetLineJoin(join string) { r.add("lineJoin", join) }
func (r *Recorder) SetStrokeStyle(style string) { r.add("strokeStyle", style) }
func (r *Recorder) BeginPath() { r.add("beginPath", "") }
func (r *Recorder) MoveTo(x, y float64) { r.add("moveTo", "", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.add("lineTo", "", x, y) }
func (r *Recorder) Stroke() { r.add("stroke", "") }
func (r *Recorder) StrokeRect(x, y, w, h float64) { r.add("strokeRect", "", x, y, w, h) }

func (r *Recorder) Arc(x, y, radius, startAngle, endAngle float64) {
	r.add("arc", "", x, y, radius, startAngle, endAngle)
}
