package chart

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func isWhite(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestPie(t *testing.T) {
	img := Pie("Status", []Slice{{"em andamento", 1}, {"concluído", 3}})
	assert.Equal(t, image.Rect(0, 0, Width, Height), img.Bounds())
	assert.False(t, isWhite(img, Height/2, Height/2+60), "pie body is filled")
}

func TestPieEmpty(t *testing.T) {
	for _, data := range [][]Slice{nil, {{"a", 0}, {"b", 0}}, {{"neg", -5}}} {
		img := Pie("Status", data)
		assert.Equal(t, image.Rect(0, 0, Width, Height), img.Bounds())
		assert.True(t, isWhite(img, Height/2, Height/2+60))
	}
}

func TestBars(t *testing.T) {
	img := Bars("Receita", []Bar{{"2023-03", 250}})
	assert.False(t, isWhite(img, Width/2+15, 200))

	c := palette[0]
	r, g, b, _ := img.At(Width/2+15, 200).RGBA()
	assert.Equal(t, uint32(c.R), r>>8)
	assert.Equal(t, uint32(c.G), g>>8)
	assert.Equal(t, uint32(c.B), b>>8)
}

func TestBarsEmpty(t *testing.T) {
	img := Bars("Receita", nil)
	assert.True(t, isWhite(img, Width/2+15, 200))
	img = Bars("Receita", []Bar{{"x", 0}})
	assert.True(t, isWhite(img, Width/2+15, 200))
}
