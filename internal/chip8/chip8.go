package chip8

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: hexadecimal glyph sprites, one 5-byte glyph per digit
//	0x050-0x1FF: reserved interpreter area, zero-initialized
//	0x200-0xFFF: user program space (3584 bytes)
const (
	// ProgramStart is the memory address where CHIP-8 programs begin execution.
	ProgramStart = 0x200

	// MaxAddress is the highest valid address in CHIP-8 memory space (4KB total).
	MaxAddress = 0xFFF

	// MaxProgramSize is the largest program image that fits into memory
	// starting at ProgramStart.
	MaxProgramSize = MaxAddress + 1 - ProgramStart
)

// Display dimensions of the monochrome framebuffer.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

const (
	memorySize   = MaxAddress + 1
	numRegisters = 16
	numKeys      = 16
	stackDepth   = 16
	glyphSize    = 5
)

// Chip8 holds the complete machine state: memory, registers, timers, call
// stack, keypad and framebuffer. It is one owned aggregate, created once at
// program load time and mutated in place by Step for the life of the run.
// The zero value is not usable, use New.
type Chip8 struct {
	memory [memorySize]byte
	v      [numRegisters]byte
	i      uint16
	pc     uint16
	stack  [stackDepth]uint16
	sp     byte

	delayTimer byte
	soundTimer byte

	keys    [numKeys]bool
	display [DisplayWidth * DisplayHeight]bool

	rand   *rand.Rand
	logger *log.Logger
}

// Option configures the virtual machine.
type Option func(*Chip8)

// WithRandom sets the random source used by the RND instruction.
// Injecting a seeded source makes runs deterministic for testing.
func WithRandom(rnd *rand.Rand) Option {
	return func(c *Chip8) {
		c.rand = rnd
	}
}

// WithLogger enables debug-level execution tracing through the given logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Chip8) {
		c.logger = logger
	}
}

// New returns an initialized machine: glyph sprites at the bottom of memory,
// the program counter at ProgramStart and all other state zeroed.
func New(opts ...Option) *Chip8 {
	c := &Chip8{
		pc:   ProgramStart,
		rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	copy(c.memory[:], glyphSprites[:])

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load copies a program image into memory starting at ProgramStart.
// The image is raw bytes without any header; no opcode validation happens
// until execution reaches them.
func (c *Chip8) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes exceed the %d byte program space",
			ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	copy(c.memory[ProgramStart:], program)
	return nil
}

// SetKey sets the pressed state of one keypad key (0x0-0xF). The keypad is
// owned by the front-end; the interpreter only reads it during execution.
func (c *Chip8) SetKey(key byte, pressed bool) {
	if key >= numKeys {
		return
	}
	c.keys[key] = pressed
}

// Display returns a read-only view of the framebuffer as a flat slice
// indexed y*DisplayWidth + x. The caller must not modify it.
func (c *Chip8) Display() []bool {
	return c.display[:]
}

// SoundActive reports whether the sound timer is running. The machine models
// the timer only; emitting the tone is up to the front-end.
func (c *Chip8) SoundActive() bool {
	return c.soundTimer > 0
}

// DumpRegisters writes a human-readable register summary, one call per line
// of the front-end register view.
func (c *Chip8) DumpRegisters(w io.Writer) {
	for i, reg := range c.v {
		fmt.Fprintf(w, "V%X:%02X ", i, reg)
		if i == 7 {
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintf(w, "\nPC:%03X I:%03X SP:%X DT:%02X ST:%02X", c.pc, c.i, c.sp, c.delayTimer, c.soundTimer)
}
