package tty

import (
	"strings"

	"github.com/mnafees/chopper/internal"
)

// Render converts the framebuffer to text lines. Every character cell
// shows two pixel rows using half block characters.
func Render(fb internal.Framebuffer) []string {
	lines := make([]string, 0, internal.ScreenHeight/2)
	var sb strings.Builder

	for y := 0; y < internal.ScreenHeight; y += 2 {
		sb.Reset()
		for x := range internal.ScreenWidth {
			top := fb[y][x] != 0
			bottom := fb[y+1][x] != 0

			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		lines = append(lines, sb.String())
	}
	return lines
}
