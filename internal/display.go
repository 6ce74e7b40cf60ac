package internal

import "strings"

// Display dimensions
const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Framebuffer is the 64 px x 32 px display, indexed [y][x]. Each cell is 0 or 1.
type Framebuffer [ScreenHeight][ScreenWidth]uint8

// wrap reduces v into [0, n), negative values included
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Pixel returns the pixel at (x, y), wrapping coordinates around the edges
func (fb *Framebuffer) Pixel(x, y int) uint8 {
	return fb[wrap(y, ScreenHeight)][wrap(x, ScreenWidth)]
}

// toggle flips the pixel at (x, y) and reports whether it was switched off
func (fb *Framebuffer) toggle(x, y int) bool {
	px := &fb[wrap(y, ScreenHeight)][wrap(x, ScreenWidth)]
	*px ^= 1
	return *px == 0
}

func (fb *Framebuffer) clear() {
	*fb = Framebuffer{}
}

// String renders the framebuffer as text, '#' for lit pixels and '.' for dark ones
func (fb *Framebuffer) String() string {
	var b strings.Builder
	b.Grow(ScreenHeight * (ScreenWidth + 1))
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			if fb[y][x] == 1 {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
