// Package signature captures freehand signatures onto a fixed-size raster
// and round-trips them through base64 PNG for storage on a service order.
package signature

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
)

const (
	DefaultWidth  = 400
	DefaultHeight = 200

	// PenWidth is the stroke width in pixels.
	PenWidth = 2.0
)

var (
	Background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Foreground = color.RGBA{A: 0xff}
)

// Canvas is the pixel buffer behind a signature.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas allocates a w×h canvas filled with the background color.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	c.Clear()
	return c
}

func (c *Canvas) Width() int  { return c.img.Bounds().Dx() }
func (c *Canvas) Height() int { return c.img.Bounds().Dy() }

// Image exposes the backing buffer. Callers must not keep it across a
// SetEncoded, which may swap the buffer.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Contains reports whether p lies inside [0,W)×[0,H).
func (c *Canvas) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(c.Width()) && p.Y < float64(c.Height())
}

// Clear refills every pixel with the background color.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
}

// line strokes a segment a→b with the round-capped black pen.
func (c *Canvas) line(a, b Point) {
	dc := gg.NewContextForRGBA(c.img)
	dc.SetColor(Foreground)
	dc.SetLineWidth(PenWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.DrawLine(a.X, a.Y, b.X, b.Y)
	dc.Stroke()
}

// install replaces the buffer with img, taking its dimensions.
func (c *Canvas) install(img image.Image) {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	c.img = dst
}
