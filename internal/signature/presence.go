package signature

// HasSignature scans the buffer and reports whether any pixel differs from
// the background. It is a full O(W×H) scan with early exit, fine at
// signature sizes.
func HasSignature(c *Canvas) bool {
	img := c.Image()
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if img.Pix[i] != Background.R || img.Pix[i+1] != Background.G ||
			img.Pix[i+2] != Background.B || img.Pix[i+3] != Background.A {
			return true
		}
	}
	return false
}
