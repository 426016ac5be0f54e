package emulator

import (
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// renderFrame converts the framebuffer into terminal text, one character
// cell per pixel.
func renderFrame(display []bool) string {
	var sb strings.Builder
	sb.Grow((chip8.DisplayWidth + 1) * chip8.DisplayHeight)

	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			if display[y*chip8.DisplayWidth+x] {
				sb.WriteRune('█')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
