// Package chart draws the small dashboard charts as images.
package chart

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Default image size.
const (
	Width  = 480
	Height = 320
)

// Slice is one labelled value of a pie or bar chart.
type Slice struct {
	Label string
	Value float64
}

// Bar is drawn the same way; the name reads better at call sites.
type Bar = Slice

// NoData is drawn in place of a chart with nothing to show.
const NoData = "sem dados"

var palette = []color.RGBA{
	{0x2e, 0x86, 0xde, 0xff},
	{0x10, 0xac, 0x84, 0xff},
	{0xff, 0x9f, 0x43, 0xff},
	{0xee, 0x52, 0x53, 0xff},
	{0x5f, 0x27, 0xcd, 0xff},
	{0x57, 0x65, 0x74, 0xff},
}

var (
	fontOnce sync.Once
	ttf      *truetype.Font
)

func face(size float64) font.Face {
	fontOnce.Do(func() {
		// goregular.TTF is compiled in and always parses.
		ttf, _ = truetype.Parse(goregular.TTF)
	})
	if ttf == nil {
		return nil
	}
	return truetype.NewFace(ttf, &truetype.Options{Size: size, Hinting: font.HintingFull})
}

func newContext(title string) *gg.Context {
	dc := gg.NewContext(Width, Height)
	dc.SetColor(color.White)
	dc.Clear()
	if f := face(15); f != nil {
		dc.SetFontFace(f)
	}
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(title, Width/2, 18, 0.5, 0.5)
	if f := face(11); f != nil {
		dc.SetFontFace(f)
	}
	return dc
}

func empty(title string) image.Image {
	dc := newContext(title)
	dc.SetColor(color.Gray{0xc0})
	dc.SetLineWidth(1)
	dc.DrawRectangle(10, 34, Width-20, Height-44)
	dc.Stroke()
	dc.SetColor(color.Gray{0x80})
	dc.DrawStringAnchored(NoData, Width/2, Height/2+12, 0.5, 0.5)
	return dc.Image()
}

func total(data []Slice) float64 {
	var t float64
	for _, s := range data {
		if s.Value > 0 {
			t += s.Value
		}
	}
	return t
}

// Pie draws data as a pie with a legend on the right. Negative values are
// ignored.
func Pie(title string, data []Slice) image.Image {
	sum := total(data)
	if sum == 0 {
		return empty(title)
	}
	dc := newContext(title)

	cx, cy := float64(Height)/2, float64(Height)/2+12
	r := float64(Height)/2 - 36
	angle := -math.Pi / 2
	for i, s := range data {
		if s.Value <= 0 {
			continue
		}
		sweep := 2 * math.Pi * s.Value / sum
		dc.SetColor(palette[i%len(palette)])
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, r, angle, angle+sweep)
		dc.ClosePath()
		dc.Fill()
		angle += sweep
	}

	lx, ly := float64(Height)+4, 50.0
	for i, s := range data {
		dc.SetColor(palette[i%len(palette)])
		dc.DrawRectangle(lx, ly-8, 10, 10)
		dc.Fill()
		dc.SetColor(color.Black)
		pct := 0.0
		if s.Value > 0 {
			pct = 100 * s.Value / sum
		}
		dc.DrawString(fmt.Sprintf("%s (%.0f%%)", s.Label, pct), lx+14, ly+1)
		ly += 18
	}
	return dc.Image()
}

// Bars draws data as vertical bars scaled to the largest value.
func Bars(title string, data []Bar) image.Image {
	var max float64
	for _, b := range data {
		max = math.Max(max, b.Value)
	}
	if len(data) == 0 || max <= 0 {
		return empty(title)
	}
	dc := newContext(title)

	left, right, top, bottom := 40.0, float64(Width)-10, 44.0, float64(Height)-30
	dc.SetColor(color.Gray{0x60})
	dc.SetLineWidth(1)
	dc.DrawLine(left, top, left, bottom)
	dc.DrawLine(left, bottom, right, bottom)
	dc.Stroke()

	slot := (right - left) / float64(len(data))
	barW := slot * 0.6
	for i, b := range data {
		x := left + slot*float64(i) + (slot-barW)/2
		h := 0.0
		if b.Value > 0 {
			h = (bottom - top) * b.Value / max
		}
		dc.SetColor(palette[0])
		dc.DrawRectangle(x, bottom-h, barW, h)
		dc.Fill()

		dc.SetColor(color.Black)
		dc.DrawStringAnchored(b.Label, x+barW/2, bottom+12, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", b.Value), x+barW/2, bottom-h-8, 0.5, 0.5)
	}
	return dc.Image()
}
