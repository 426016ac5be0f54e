// Package chip8 implements the CHIP-8 virtual machine core.
//
// # Machine Model
//
// CHIP-8 is an interpreted programming language from the 1970s designed for
// simple games on hexadecimal-keypad microcomputers. The machine consists of:
//   - 4KB of memory (0x000-0xFFF), programs loaded at ProgramStart (0x200)
//   - 16 general-purpose 8-bit registers V0-VF, VF doubling as the
//     carry/borrow/collision flag output of arithmetic and draw instructions
//   - a 16-bit index register I for memory-relative addressing
//   - a 16-entry call stack
//   - delay and sound timers, decremented once per executed instruction
//   - a 16-key hexadecimal keypad
//   - a 64x32 monochrome framebuffer with XOR sprite drawing
//
// # Execution
//
// The core is fully synchronous and owned by a single driver loop: the driver
// repeatedly calls Step to execute one instruction, reads the framebuffer via
// Display, and mutates key state via SetKey between steps. The core has no
// awareness of wall-clock time; any 60 Hz cadence is the driver's concern.
//
// Instruction words are identified against the CHIP-8 opcode tables of
// retrogolib. A word matching no documented instruction is reported as an
// unrecoverable decode fault, as are call stack overflow and underflow.
package chip8
