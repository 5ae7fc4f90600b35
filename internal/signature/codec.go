package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"

	"go.uber.org/zap"
)

// ErrEmpty is returned by Decode for an empty signature field.
var ErrEmpty = errors.New("signature: empty")

// Encode renders the canvas as PNG and returns it base64 encoded.
func Encode(c *Canvas) string {
	var buf bytes.Buffer
	// Writing an RGBA image into a bytes.Buffer cannot fail.
	_ = png.Encode(&buf, c.Image())
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// Decode reverses Encode. Any image format registered with the image
// package is accepted, PNG always.
func Decode(s string) (image.Image, error) {
	if s == "" {
		return nil, ErrEmpty
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("signature: bad base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("signature: bad image: %w", err)
	}
	return img, nil
}

// Encoded returns the current canvas as base64 PNG.
func (p *Pad) Encoded() string { return Encode(p.Canvas) }

// SetEncoded loads a stored signature, taking the stored dimensions. On any
// decode failure the canvas is cleared instead.
func (p *Pad) SetEncoded(s string) {
	img, err := Decode(s)
	if err != nil {
		if !errors.Is(err, ErrEmpty) {
			zap.L().Debug("discarding unreadable signature", zap.Error(err))
		}
		p.Canvas.Clear()
		return
	}
	p.Canvas.install(img)
}
