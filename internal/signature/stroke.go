package signature

import "image"

// Point is a position in pointer or canvas coordinates.
type Point struct{ X, Y float64 }

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

type Button int

const (
	ButtonPrimary Button = iota + 1
	ButtonSecondary
	ButtonTertiary
)

// PointerEvent is a toolkit-neutral pointer press, move or release.
type PointerEvent struct {
	Pos    Point
	Button Button
}

// Pad is the stroke tracker state: pen status, last canvas-local point and
// the canvas it draws on. Origin is where the canvas sits inside the host
// widget; pointer positions are translated by it.
//
// The transition functions copy the pen fields but not the pixels: Canvas is
// a pointer, so a Pad value and every Pad returned from it draw on the same
// buffer. Keep only the latest Pad.
type Pad struct {
	Drawing bool
	Last    Point
	Origin  Point
	Canvas  *Canvas
}

// NewPad returns a pad over a blank w×h canvas.
func NewPad(w, h int) Pad {
	return Pad{Canvas: NewCanvas(w, h)}
}

// OnPointerDown puts the pen down for the primary button. Nothing is drawn.
func OnPointerDown(p Pad, e PointerEvent) Pad {
	if e.Button != ButtonPrimary {
		return p
	}
	p.Drawing = true
	p.Last = e.Pos.Sub(p.Origin)
	return p
}

// OnPointerMove extends the current stroke to e.Pos, inking the shared
// canvas in place. Moves that fall outside
// the canvas are dropped without advancing Last, so a stroke that leaves and
// re-enters the canvas leaves a gap.
func OnPointerMove(p Pad, e PointerEvent) Pad {
	if !p.Drawing {
		return p
	}
	pos := e.Pos.Sub(p.Origin)
	if !p.Canvas.Contains(pos) {
		return p
	}
	p.Canvas.line(p.Last, pos)
	p.Last = pos
	return p
}

// OnPointerUp lifts the pen for the primary button.
func OnPointerUp(p Pad, e PointerEvent) Pad {
	if e.Button == ButtonPrimary {
		p.Drawing = false
	}
	return p
}

// Clear blanks the canvas. The pen state is left alone.
func (p *Pad) Clear() { p.Canvas.Clear() }

// HasSignature reports whether anything has been drawn or loaded.
func (p *Pad) HasSignature() bool { return HasSignature(p.Canvas) }

func (p *Pad) Image() image.Image { return p.Canvas.Image() }
