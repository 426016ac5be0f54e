package chip8

import "errors"

var (
	// ErrProgramTooLarge is returned by Load when the program image does not
	// fit into memory at ProgramStart. The caller may report it and exit.
	ErrProgramTooLarge = errors.New("program image too large")

	// ErrUnknownOpcode is returned by Step when the instruction word at PC
	// matches no documented CHIP-8 instruction. The platform defines no
	// behavior for illegal opcodes, so there is no recovery path.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrStackOverflow is returned when a call instruction exceeds the
	// 16-entry call stack. It indicates a malformed program rather than a
	// malformed instruction encoding.
	ErrStackOverflow = errors.New("call stack overflow")

	// ErrStackUnderflow is returned when a return instruction executes with
	// an empty call stack.
	ErrStackUnderflow = errors.New("call stack underflow")
)
