package chip8

import (
	"fmt"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/log"
)

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// Step executes one instruction: it fetches the big-endian instruction word
// at PC, identifies it against the opcode table, runs the handler and then
// decrements both timers once if nonzero. The program counter is advanced by
// the handler; every instruction except the key-wait makes forward progress.
func (c *Chip8) Step() error {
	w := uint16(c.memory[c.pc&MaxAddress])<<8 | uint16(c.memory[(c.pc+1)&MaxAddress])

	op, ok := decodeOpcode(w)
	if !ok {
		return c.decodeFault(w)
	}

	if c.logger != nil {
		c.logger.Debug("exec",
			log.String("pc", fmt.Sprintf("0x%03X", c.pc)),
			log.String("asm", disassemble(op.Instruction.Name, w)))
	}

	if err := c.execute(w); err != nil {
		return err
	}

	if c.delayTimer > 0 {
		c.delayTimer--
	}
	if c.soundTimer > 0 {
		c.soundTimer--
	}
	return nil
}

// decodeOpcode matches an instruction word against the opcode table entries
// of its high nibble. The first mask match wins.
func decodeOpcode(w uint16) (chip8cpu.Opcode, bool) {
	opcodes := chip8cpu.Opcodes[int(w>>12)]
	for _, op := range opcodes {
		if op.Info.Mask&w == op.Info.Value {
			return op, true
		}
	}
	return chip8cpu.Opcode{}, false
}

func (c *Chip8) decodeFault(w uint16) error {
	return fmt.Errorf("%w: 0x%04X at address 0x%03X", ErrUnknownOpcode, w, c.pc)
}

// execute dispatches on the opcode family nibble. Sub-families (0x0, 0x8,
// 0xE and 0xF) dispatch on a secondary nibble or byte. Instruction words
// that survive decoding but belong to no documented handler, such as the
// machine code call 0NNN, fall through to a decode fault.
func (c *Chip8) execute(w uint16) error {
	x := byte(w >> 8 & 0x0F)
	y := byte(w >> 4 & 0x0F)
	nn := byte(w)
	nnn := w & 0x0FFF

	switch w & 0xF000 {
	case 0x0000:
		switch w {
		case 0x00E0: // CLS
			c.display = [DisplayWidth * DisplayHeight]bool{}
			c.pc += opcodeSize
		case 0x00EE: // RET
			return c.opReturn()
		default:
			return c.decodeFault(w)
		}

	case 0x1000: // JP addr
		c.pc = nnn

	case 0x2000: // CALL addr
		return c.opCall(nnn)

	case 0x3000: // SE Vx, byte
		c.skipIf(c.v[x] == nn)

	case 0x4000: // SNE Vx, byte
		c.skipIf(c.v[x] != nn)

	case 0x5000: // SE Vx, Vy
		c.skipIf(c.v[x] == c.v[y])

	case 0x6000: // LD Vx, byte
		c.v[x] = nn
		c.pc += opcodeSize

	case 0x7000: // ADD Vx, byte - wraps mod 256, no carry flag
		c.v[x] += nn
		c.pc += opcodeSize

	case 0x8000:
		return c.executeALU(w, x, y)

	case 0x9000: // SNE Vx, Vy
		c.skipIf(c.v[x] != c.v[y])

	case 0xA000: // LD I, addr
		c.i = nnn
		c.pc += opcodeSize

	case 0xB000: // JP V0, addr
		c.pc = nnn + uint16(c.v[0])

	case 0xC000: // RND Vx, byte
		c.v[x] = byte(c.rand.IntN(256)) & nn
		c.pc += opcodeSize

	case 0xD000: // DRW Vx, Vy, nibble
		c.draw(x, y, byte(w&0x0F))
		c.pc += opcodeSize

	case 0xE000:
		return c.executeKeySkip(w, x)

	case 0xF000:
		return c.executeMisc(w, x)

	default:
		return c.decodeFault(w)
	}
	return nil
}

// executeALU handles the 8XY_ register arithmetic and shift family.
// VF is overwritten by the carry, borrow or shifted-out bit; additions wrap
// mod 256 and subtractions record "no borrow" as VF=1.
func (c *Chip8) executeALU(w uint16, x, y byte) error {
	switch w & 0x000F {
	case 0x0: // LD Vx, Vy
		c.v[x] = c.v[y]

	case 0x1: // OR Vx, Vy
		c.v[x] |= c.v[y]

	case 0x2: // AND Vx, Vy
		c.v[x] &= c.v[y]

	case 0x3: // XOR Vx, Vy
		c.v[x] ^= c.v[y]

	case 0x4: // ADD Vx, Vy
		sum := uint16(c.v[x]) + uint16(c.v[y])
		c.v[x] = byte(sum)
		c.v[0xF] = byte(sum >> 8)

	case 0x5: // SUB Vx, Vy
		flag := byte(0)
		if c.v[x] >= c.v[y] {
			flag = 1
		}
		c.v[x] -= c.v[y]
		c.v[0xF] = flag

	case 0x6: // SHR Vx
		flag := c.v[x] & 0x01
		c.v[x] >>= 1
		c.v[0xF] = flag

	case 0x7: // SUBN Vx, Vy
		flag := byte(0)
		if c.v[y] >= c.v[x] {
			flag = 1
		}
		c.v[x] = c.v[y] - c.v[x]
		c.v[0xF] = flag

	case 0xE: // SHL Vx
		flag := c.v[x] >> 7
		c.v[x] <<= 1
		c.v[0xF] = flag

	default:
		return c.decodeFault(w)
	}

	c.pc += opcodeSize
	return nil
}

// executeKeySkip handles the EX__ key state skips.
func (c *Chip8) executeKeySkip(w uint16, x byte) error {
	key := c.v[x] & 0x0F

	switch w & 0x00FF {
	case 0x9E: // SKP Vx
		c.skipIf(c.keys[key])
	case 0xA1: // SKNP Vx
		c.skipIf(!c.keys[key])
	default:
		return c.decodeFault(w)
	}
	return nil
}

// executeMisc handles the FX__ family: timer I/O, key wait, index register
// arithmetic, glyph addressing, BCD decomposition and register block
// transfers.
func (c *Chip8) executeMisc(w uint16, x byte) error {
	switch w & 0x00FF {
	case 0x07: // LD Vx, DT
		c.v[x] = c.delayTimer

	case 0x0A: // LD Vx, K - block until a key is down
		key, pressed := c.lowestPressedKey()
		if !pressed {
			// PC stays put, the driver loop retries on the next step.
			return nil
		}
		c.v[x] = key

	case 0x15: // LD DT, Vx
		c.delayTimer = c.v[x]

	case 0x18: // LD ST, Vx
		c.soundTimer = c.v[x]

	case 0x1E: // ADD I, Vx
		c.i += uint16(c.v[x])

	case 0x29: // LD F, Vx
		c.i = uint16(c.v[x]&0x0F) * glyphSize

	case 0x33: // LD B, Vx
		c.memory[c.i&MaxAddress] = c.v[x] / 100
		c.memory[(c.i+1)&MaxAddress] = c.v[x] / 10 % 10
		c.memory[(c.i+2)&MaxAddress] = c.v[x] % 10

	case 0x55: // LD [I], Vx - I itself is left unchanged
		for reg := byte(0); reg <= x; reg++ {
			c.memory[(c.i+uint16(reg))&MaxAddress] = c.v[reg]
		}

	case 0x65: // LD Vx, [I]
		for reg := byte(0); reg <= x; reg++ {
			c.v[reg] = c.memory[(c.i+uint16(reg))&MaxAddress]
		}

	default:
		return c.decodeFault(w)
	}

	c.pc += opcodeSize
	return nil
}

// opCall pushes the address of the call instruction and jumps. The popped
// address is advanced past the call on return.
func (c *Chip8) opCall(addr uint16) error {
	if c.sp >= stackDepth {
		return fmt.Errorf("%w: call at address 0x%03X exceeds %d nesting levels",
			ErrStackOverflow, c.pc, stackDepth)
	}
	c.stack[c.sp] = c.pc
	c.sp++
	c.pc = addr
	return nil
}

func (c *Chip8) opReturn() error {
	if c.sp == 0 {
		return fmt.Errorf("%w: return at address 0x%03X with empty stack",
			ErrStackUnderflow, c.pc)
	}
	c.sp--
	c.pc = c.stack[c.sp] + opcodeSize
	return nil
}

// skipIf advances PC past the next instruction on a met condition.
func (c *Chip8) skipIf(condition bool) {
	if condition {
		c.pc += 2 * opcodeSize
	} else {
		c.pc += opcodeSize
	}
}

// lowestPressedKey scans the keypad and returns the lowest-indexed key
// currently held down.
func (c *Chip8) lowestPressedKey() (byte, bool) {
	for key := byte(0); key < numKeys; key++ {
		if c.keys[key] {
			return key, true
		}
	}
	return 0, false
}

// draw XOR-renders an n-row sprite read from memory at I to the framebuffer
// at (Vx, Vy). Each sprite byte is one 8-pixel row, most significant bit
// leftmost. Coordinates wrap modularly on both axes, so sprites drawn near
// an edge continue on the opposite edge. VF is set to 1 if any toggle turned
// a lit pixel off.
func (c *Chip8) draw(x, y, n byte) {
	c.v[0xF] = 0

	for row := byte(0); row < n; row++ {
		sprite := c.memory[(c.i+uint16(row))&MaxAddress]

		for bit := 0; bit < 8; bit++ {
			if sprite&(0x80>>bit) == 0 {
				continue
			}

			px := (int(c.v[x]) + bit) % DisplayWidth
			py := (int(c.v[y]) + int(row)) % DisplayHeight
			idx := py*DisplayWidth + px

			if c.display[idx] {
				c.v[0xF] = 1
			}
			c.display[idx] = !c.display[idx]
		}
	}
}
