package ui

import (
	"image/color"
	"sync"

	"AutoCenter/internal/signature"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// SignatureWidget is a fixed-size signature pad. Pointer positions inside
// the widget are canvas pixels.
type SignatureWidget struct {
	widget.BaseWidget
	mu        sync.Mutex
	pad       signature.Pad
	OnChanged func()
}

var _ fyne.Widget = (*SignatureWidget)(nil)
var _ fyne.Draggable = (*SignatureWidget)(nil)
var _ desktop.Mouseable = (*SignatureWidget)(nil)

func NewSignatureWidget(w, h int) *SignatureWidget {
	s := &SignatureWidget{pad: signature.NewPad(w, h)}
	s.ExtendBaseWidget(s)
	return s
}

func buttonOf(b desktop.MouseButton) signature.Button {
	switch b {
	case desktop.MouseButtonPrimary:
		return signature.ButtonPrimary
	case desktop.MouseButtonSecondary:
		return signature.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return signature.ButtonTertiary
	}
	return 0
}

func pointOf(p fyne.Position) signature.Point {
	return signature.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (s *SignatureWidget) changed() {
	s.Refresh()
	if s.OnChanged != nil {
		s.OnChanged()
	}
}

func (s *SignatureWidget) MouseDown(e *desktop.MouseEvent) {
	s.mu.Lock()
	s.pad = signature.OnPointerDown(s.pad, signature.PointerEvent{Pos: pointOf(e.Position), Button: buttonOf(e.Button)})
	s.mu.Unlock()
}

func (s *SignatureWidget) MouseUp(e *desktop.MouseEvent) {
	s.mu.Lock()
	s.pad = signature.OnPointerUp(s.pad, signature.PointerEvent{Pos: pointOf(e.Position), Button: buttonOf(e.Button)})
	s.mu.Unlock()
}

func (s *SignatureWidget) Dragged(e *fyne.DragEvent) {
	s.mu.Lock()
	drawing := s.pad.Drawing
	s.pad = signature.OnPointerMove(s.pad, signature.PointerEvent{Pos: pointOf(e.Position), Button: signature.ButtonPrimary})
	s.mu.Unlock()
	if drawing {
		s.changed()
	}
}

// DragEnd lifts the pen when the button is released outside the widget
// and no MouseUp reaches us.
func (s *SignatureWidget) DragEnd() {
	s.mu.Lock()
	s.pad = signature.OnPointerUp(s.pad, signature.PointerEvent{Button: signature.ButtonPrimary})
	s.mu.Unlock()
}

// Clear blanks the pad.
func (s *SignatureWidget) Clear() {
	s.mu.Lock()
	s.pad.Clear()
	s.mu.Unlock()
	s.changed()
}

func (s *SignatureWidget) HasSignature() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pad.HasSignature()
}

// Encoded returns the signature as base64 PNG.
func (s *SignatureWidget) Encoded() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pad.Encoded()
}

// SetEncoded loads a stored signature. Unreadable input clears the pad.
func (s *SignatureWidget) SetEncoded(enc string) {
	s.mu.Lock()
	s.pad.SetEncoded(enc)
	s.mu.Unlock()
	s.changed()
}

func (s *SignatureWidget) size() fyne.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fyne.NewSize(float32(s.pad.Canvas.Width()), float32(s.pad.Canvas.Height()))
}

func (s *SignatureWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &signatureRenderer{sig: s}
	r.border = canvas.NewRectangle(color.Transparent)
	r.border.StrokeColor = color.Gray{Y: 150}
	r.border.StrokeWidth = 1
	s.mu.Lock()
	r.image = canvas.NewImageFromImage(s.pad.Image())
	s.mu.Unlock()
	r.image.FillMode = canvas.ImageFillOriginal
	r.image.ScaleMode = canvas.ImageScalePixels
	return r
}

type signatureRenderer struct {
	sig    *SignatureWidget
	image  *canvas.Image
	border *canvas.Rectangle
}

func (r *signatureRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.image, r.border}
}

// Layout pins the image at the origin at its pixel size so pointer
// coordinates map one to one onto the canvas.
func (r *signatureRenderer) Layout(fyne.Size) {
	sz := r.sig.size()
	r.image.Move(fyne.NewPos(0, 0))
	r.image.Resize(sz)
	r.border.Move(fyne.NewPos(0, 0))
	r.border.Resize(sz)
}

func (r *signatureRenderer) MinSize() fyne.Size { return r.sig.size() }

func (r *signatureRenderer) Refresh() {
	r.sig.mu.Lock()
	r.image.Image = r.sig.pad.Image()
	r.sig.mu.Unlock()
	r.Layout(r.sig.Size())
	r.image.Refresh()
}

func (r *signatureRenderer) Destroy() {}
