package signature

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func down(x, y float64) PointerEvent { return PointerEvent{Pos: Point{x, y}, Button: ButtonPrimary} }

func isBlank(t *testing.T, c *Canvas) {
	t.Helper()
	img := c.Image()
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			if img.RGBAAt(x, y) != Background {
				t.Fatalf("pixel (%d,%d) = %v, want background", x, y, img.RGBAAt(x, y))
			}
		}
	}
}

func drawLine(p Pad, x0, y0, x1, y1 float64) Pad {
	p = OnPointerDown(p, down(x0, y0))
	p = OnPointerMove(p, down(x1, y1))
	return OnPointerUp(p, down(x1, y1))
}

func TestNewPadIsBlank(t *testing.T) {
	p := NewPad(DefaultWidth, DefaultHeight)
	assert.Equal(t, 400, p.Canvas.Width())
	assert.Equal(t, 200, p.Canvas.Height())
	assert.False(t, p.Drawing)
	assert.False(t, p.HasSignature())
	isBlank(t, p.Canvas)
}

func TestHorizontalStroke(t *testing.T) {
	p := NewPad(DefaultWidth, DefaultHeight)
	p = drawLine(p, 10, 10, 50, 10)

	assert.False(t, p.Drawing)
	assert.True(t, p.HasSignature())

	img := p.Canvas.Image()
	for x := 11; x < 50; x++ {
		c := img.RGBAAt(x, 10)
		assert.Less(t, c.R, uint8(128), "pixel (%d,10) should be inked", x)
	}
	// well away from the segment
	assert.Equal(t, Background, img.RGBAAt(10, 100))
	assert.Equal(t, Background, img.RGBAAt(200, 10))
}

func TestRoundTrip(t *testing.T) {
	p := NewPad(DefaultWidth, DefaultHeight)
	p = drawLine(p, 10, 10, 50, 10)
	p = drawLine(p, 20, 40, 120, 150)

	enc := p.Encoded()
	require.NotEmpty(t, enc)

	q := NewPad(DefaultWidth, DefaultHeight)
	q.SetEncoded(enc)
	assert.True(t, q.HasSignature())
	assert.Equal(t, p.Canvas.Image().Rect, q.Canvas.Image().Rect)
	assert.Equal(t, p.Canvas.Image().Pix, q.Canvas.Image().Pix)

	q.Clear()
	assert.False(t, q.HasSignature())
	isBlank(t, q.Canvas)
}

func TestSetEncodedInvalidClears(t *testing.T) {
	for _, in := range []string{"", "not-valid-base64", base64.StdEncoding.EncodeToString([]byte("plain text, not an image"))} {
		p := NewPad(DefaultWidth, DefaultHeight)
		p = drawLine(p, 10, 10, 50, 10)
		require.True(t, p.HasSignature())

		assert.NotPanics(t, func() { p.SetEncoded(in) })
		assert.False(t, p.HasSignature(), "input %q", in)
		assert.Equal(t, DefaultWidth, p.Canvas.Width())
	}
}

func TestSetEncodedTakesImageSize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 30, 15))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	src.SetRGBA(3, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	p := NewPad(DefaultWidth, DefaultHeight)
	p.SetEncoded(base64.StdEncoding.EncodeToString(buf.Bytes()))
	assert.Equal(t, 30, p.Canvas.Width())
	assert.Equal(t, 15, p.Canvas.Height())
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, p.Canvas.Image().RGBAAt(3, 4))
	assert.True(t, p.HasSignature())
}

func TestDecodeReturnsEncodedImage(t *testing.T) {
	p := drawLine(NewPad(DefaultWidth, DefaultHeight), 10, 10, 50, 10)
	img, err := Decode(p.Encoded())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, DefaultWidth, DefaultHeight), img.Bounds())
	r, _, _, _ := img.At(30, 10).RGBA()
	assert.Less(t, r, uint32(0x8000))
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode("###")
	assert.Error(t, err)
}

func TestOutOfBoundsMoveIsSkipped(t *testing.T) {
	p := NewPad(DefaultWidth, DefaultHeight)
	p = OnPointerDown(p, down(5, 5))
	p = OnPointerMove(p, down(-1, -1))

	assert.True(t, p.Drawing)
	assert.Equal(t, Point{5, 5}, p.Last)
	assert.False(t, p.HasSignature())

	for _, pos := range []Point{{400, 10}, {10, 200}, {-0.5, 3}} {
		p = OnPointerMove(p, PointerEvent{Pos: pos})
		assert.Equal(t, Point{5, 5}, p.Last)
	}
	assert.False(t, p.HasSignature())
}

func TestStrokeResumesFromLastInBoundsPoint(t *testing.T) {
	p := NewPad(DefaultWidth, DefaultHeight)
	p = OnPointerDown(p, down(5, 5))
	p = OnPointerMove(p, down(-10, 5))
	p = OnPointerMove(p, down(30, 5))

	assert.Equal(t, Point{30, 5}, p.Last)
	assert.True(t, p.HasSignature())
}

func TestSecondaryButtonDoesNotDraw(t *testing.T) {
	p := NewPad(DefaultWidth, DefaultHeight)
	p = OnPointerDown(p, PointerEvent{Pos: Point{10, 10}, Button: ButtonSecondary})
	assert.False(t, p.Drawing)

	p = OnPointerMove(p, down(50, 50))
	assert.False(t, p.HasSignature())
}

func TestMoveWithoutPressDoesNothing(t *testing.T) {
	p := NewPad(DefaultWidth, DefaultHeight)
	p = OnPointerMove(p, down(20, 20))
	assert.Equal(t, Point{}, p.Last)
	assert.False(t, p.HasSignature())
}

func TestOriginTranslation(t *testing.T) {
	p := NewPad(DefaultWidth, DefaultHeight)
	p.Origin = Point{100, 50}
	p = OnPointerDown(p, down(110, 60))
	assert.Equal(t, Point{10, 10}, p.Last)

	// (90,40) is (-10,-10) in canvas space.
	p = OnPointerMove(p, down(90, 40))
	assert.Equal(t, Point{10, 10}, p.Last)

	p = OnPointerMove(p, down(150, 60))
	assert.Equal(t, Point{50, 10}, p.Last)
	assert.True(t, p.HasSignature())
}

func TestClearKeepsPenState(t *testing.T) {
	p := NewPad(DefaultWidth, DefaultHeight)
	p = OnPointerDown(p, down(10, 10))
	p = OnPointerMove(p, down(40, 40))
	p.Clear()

	assert.True(t, p.Drawing)
	assert.False(t, p.HasSignature())
}

func TestTransitionsShareCanvas(t *testing.T) {
	before := OnPointerDown(NewPad(DefaultWidth, DefaultHeight), down(10, 10))
	after := OnPointerMove(before, down(60, 10))

	assert.Same(t, before.Canvas, after.Canvas)
	assert.Equal(t, Point{10, 10}, before.Last)
	assert.Equal(t, Point{60, 10}, after.Last)
	// The ink is in the shared buffer, so the older value sees it too.
	assert.True(t, before.HasSignature())
}
