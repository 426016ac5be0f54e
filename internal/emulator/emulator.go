// Package emulator drives the CHIP-8 core under a terminal front-end.
//
// The driver loop owns the machine exclusively: it steps the core at a fixed
// 60 Hz cadence, mirrors the framebuffer into a gocui view after every step
// and feeds terminal key presses to the keypad between steps. The core itself
// stays free of locking; a single mutex in the driver serializes stepping
// against keypad updates and view rendering, both of which arrive on the UI
// thread.
package emulator

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// stepsPerSecond is the fixed step cadence. One instruction per step and one
// timer decrement per step matches the platform's 60 Hz timer rate.
const stepsPerSecond = 60

// keyHold is how long a terminal key press counts as held down. Terminals
// deliver no key release events, so presses decay on their own.
const keyHold = 200 * time.Millisecond

// Emulator couples the machine core with the terminal display and keypad.
type Emulator struct {
	logger *log.Logger
	vm     *chip8.Chip8

	mu            sync.Mutex
	releaseTimers [16]*time.Timer
}

// New returns an emulator driving the given machine.
func New(logger *log.Logger, vm *chip8.Chip8) *Emulator {
	return &Emulator{
		logger: logger,
		vm:     vm,
	}
}

// Run starts the terminal front-end and blocks until the user quits, the
// context is cancelled or the machine faults.
func (e *Emulator) Run(ctx context.Context) error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("creating terminal gui: %w", err)
	}
	defer g.Close()

	g.SetManagerFunc(e.layout)

	if err := e.bindKeys(g); err != nil {
		return fmt.Errorf("setting keybindings: %w", err)
	}

	go e.loop(ctx, g)

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return fmt.Errorf("terminal main loop: %w", err)
	}
	return nil
}

// RunHeadless executes a fixed number of steps without a UI and writes the
// resulting framebuffer as text. Used for ROM smoke testing.
func (e *Emulator) RunHeadless(ctx context.Context, steps int, w io.Writer) error {
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.step(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	if _, err := io.WriteString(w, renderFrame(e.vm.Display())); err != nil {
		return fmt.Errorf("writing framebuffer: %w", err)
	}
	return nil
}

// loop steps the machine at the fixed cadence and refreshes the views.
func (e *Emulator) loop(ctx context.Context, g *gocui.Gui) {
	ticker := time.NewTicker(time.Second / stepsPerSecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.Update(quit)
			return

		case <-ticker.C:
			if err := e.step(); err != nil {
				e.logger.Error("Machine fault", log.Err(err))
				g.Update(quit)
				return
			}
			g.Update(e.refresh)
		}
	}
}

// step advances the machine one instruction under the driver lock.
func (e *Emulator) step() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vm.Step()
}

// renderState snapshots the framebuffer and register summary under the driver
// lock, so a render never observes a half-applied step.
func (e *Emulator) renderState() (frame, registers string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var regs strings.Builder
	e.vm.DumpRegisters(&regs)
	if e.vm.SoundActive() {
		regs.WriteString("  BEEP")
	}
	return renderFrame(e.vm.Display()), regs.String()
}

// refresh redraws the display and register views. Runs on the UI thread.
func (e *Emulator) refresh(g *gocui.Gui) error {
	frame, registers := e.renderState()

	displayView, err := g.View("display")
	if err != nil {
		return err
	}
	displayView.Clear()
	fmt.Fprint(displayView, frame)

	regView, err := g.View("registers")
	if err != nil {
		return err
	}
	regView.Clear()
	fmt.Fprint(regView, registers)

	return nil
}

// layout arranges the display view on top of the register view.
func (e *Emulator) layout(g *gocui.Gui) error {
	if v, err := g.SetView("display", 0, 0, chip8.DisplayWidth+1, chip8.DisplayHeight+1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Display"
	}

	if v, err := g.SetView("registers", 0, chip8.DisplayHeight+2, chip8.DisplayWidth+1, chip8.DisplayHeight+6); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Registers"
	}
	return nil
}

// bindKeys registers the quit binding and one binding per keypad key.
func (e *Emulator) bindKeys(g *gocui.Gui) error {
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, func(*gocui.Gui, *gocui.View) error {
		return gocui.ErrQuit
	}); err != nil {
		return err
	}

	for r, key := range keypadLayout {
		key := key
		handler := func(*gocui.Gui, *gocui.View) error {
			e.pressKey(key)
			return nil
		}
		if err := g.SetKeybinding("", r, gocui.ModNone, handler); err != nil {
			return err
		}
	}
	return nil
}

// pressKey marks a keypad key as held and schedules its release.
func (e *Emulator) pressKey(key byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.vm.SetKey(key, true)

	if t := e.releaseTimers[key]; t != nil {
		t.Stop()
	}
	e.releaseTimers[key] = time.AfterFunc(keyHold, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.vm.SetKey(key, false)
	})
}

func quit(*gocui.Gui) error {
	return gocui.ErrQuit
}
