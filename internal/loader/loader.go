// Package loader handles ROM image loading operations.
package loader

import (
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Load reads a raw CHIP-8 ROM image from disk. ROM files carry no header;
// the bytes are the program image verbatim. Images that cannot fit into the
// machine's program space are rejected before they reach the core.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM file %s: %w", path, err)
	}

	if len(data) > chip8.MaxProgramSize {
		return nil, fmt.Errorf("ROM file %s: %w: %d bytes, maximum is %d",
			path, chip8.ErrProgramTooLarge, len(data), chip8.MaxProgramSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("ROM file %s is empty", path)
	}

	return data, nil
}
