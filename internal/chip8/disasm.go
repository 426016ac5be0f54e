package chip8

import (
	"fmt"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// disassemble formats an instruction word as assembly text for execution
// tracing, e.g. "DRW V0, V1, $5". The mnemonic comes from the matched opcode
// table entry, the parameters from the word's nibble fields.
func disassemble(name string, w uint16) string {
	if params := formatParams(name, w); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// formatParams returns the formatted parameter string for an instruction,
// or an empty string for parameterless instructions.
func formatParams(name string, w uint16) string {
	x := w >> 8 & 0x0F
	y := w >> 4 & 0x0F

	switch name {
	case chip8cpu.JpName:
		if w&0xF000 == 0xB000 {
			return fmt.Sprintf("V0, $%03X", w&0x0FFF)
		}
		return fmt.Sprintf("$%03X", w&0x0FFF)

	case chip8cpu.CallName:
		return fmt.Sprintf("$%03X", w&0x0FFF)

	case chip8cpu.SeName, chip8cpu.SneName:
		if w&0xF000 == 0x5000 || w&0xF000 == 0x9000 {
			return fmt.Sprintf("V%X, V%X", x, y)
		}
		return fmt.Sprintf("V%X, $%02X", x, w&0x00FF)

	case chip8cpu.LdName:
		return formatLoadParams(w, x, y)

	case chip8cpu.AddName:
		switch w & 0xF000 {
		case 0x7000:
			return fmt.Sprintf("V%X, $%02X", x, w&0x00FF)
		case 0xF000:
			return fmt.Sprintf("I, V%X", x)
		}
		return fmt.Sprintf("V%X, V%X", x, y)

	case chip8cpu.OrName, chip8cpu.AndName, chip8cpu.XorName,
		chip8cpu.SubName, chip8cpu.SubnName:
		return fmt.Sprintf("V%X, V%X", x, y)

	case chip8cpu.ShrName, chip8cpu.ShlName, chip8cpu.SkpName, chip8cpu.SknpName:
		return fmt.Sprintf("V%X", x)

	case chip8cpu.RndName:
		return fmt.Sprintf("V%X, $%02X", x, w&0x00FF)

	case chip8cpu.DrwName:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, w&0x000F)
	}
	return ""
}

// formatLoadParams formats the many LD variants, which span register loads,
// the index register, timers, key wait, glyph addressing, BCD and block
// transfers.
func formatLoadParams(w, x, y uint16) string {
	switch w & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, w&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", w&0x0FFF)
	}

	switch w & 0x00FF {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}
