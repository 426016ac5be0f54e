package emulator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrogolib/assert"
)

func TestKeypadLayout(t *testing.T) {
	assert.Len(t, keypadLayout, 16)

	seen := map[byte]bool{}
	for _, key := range keypadLayout {
		assert.True(t, key <= 0xF)
		assert.False(t, seen[key], "duplicate keypad key %X", key)
		seen[key] = true
	}
}

func TestRenderFrame(t *testing.T) {
	display := make([]bool, chip8.DisplayWidth*chip8.DisplayHeight)
	display[0] = true
	display[chip8.DisplayWidth+1] = true

	frame := renderFrame(display)
	lines := strings.Split(strings.TrimRight(frame, "\n"), "\n")

	assert.Len(t, lines, chip8.DisplayHeight)
	assert.True(t, strings.HasPrefix(lines[0], "█ "))
	assert.True(t, strings.HasPrefix(lines[1], " █"))
}

func TestRunHeadless(t *testing.T) {
	vm := chip8.New()
	// draw the glyph for digit 0 at the origin, then spin
	program := []byte{
		0x60, 0x00, // LD V0, $00
		0x61, 0x00, // LD V1, $00
		0xA0, 0x00, // LD I, $000
		0xD0, 0x15, // DRW V0, V1, $5
		0x12, 0x08, // JP $208
	}
	assert.NoError(t, vm.Load(program))

	e := New(config.CreateLogger(false, true), vm)

	var sb strings.Builder
	assert.NoError(t, e.RunHeadless(context.Background(), 16, &sb))
	assert.Contains(t, sb.String(), "█")
}

func TestRunHeadlessFault(t *testing.T) {
	vm := chip8.New()
	assert.NoError(t, vm.Load([]byte{0xF0, 0xFF})) // no such instruction

	e := New(config.CreateLogger(false, true), vm)

	err := e.RunHeadless(context.Background(), 1, &strings.Builder{})
	assert.True(t, errors.Is(err, chip8.ErrUnknownOpcode))
}

func TestRunHeadlessCancelled(t *testing.T) {
	vm := chip8.New()
	assert.NoError(t, vm.Load([]byte{0x12, 0x00})) // JP $200

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(config.CreateLogger(false, true), vm)
	err := e.RunHeadless(ctx, 10, &strings.Builder{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRenderStateConcurrentWithStep(t *testing.T) {
	vm := chip8.New()
	assert.NoError(t, vm.Load([]byte{0x12, 0x00})) // JP $200

	e := New(config.CreateLogger(false, true), vm)

	var stepErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			if err := e.step(); err != nil {
				stepErr = err
				return
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		frame, registers := e.renderState()
		assert.NotEmpty(t, frame)
		assert.Contains(t, registers, "PC:")
	}

	<-done
	assert.NoError(t, stepErr)
}

func TestPressKeyRestartsHold(t *testing.T) {
	vm := chip8.New()
	e := New(config.CreateLogger(false, true), vm)

	e.pressKey(0x5)
	first := e.releaseTimers[0x5]
	assert.NotNil(t, first)

	// pressing again replaces the pending release
	e.pressKey(0x5)
	assert.NotNil(t, e.releaseTimers[0x5])
	assert.True(t, first != e.releaseTimers[0x5])
}
