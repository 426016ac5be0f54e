// Package options contains the program options.
package options

// Program options of the emulator.
type Program struct {
	Input string // ROM file to run

	Steps int // headless mode: number of steps to execute without a UI

	Debug bool // enable debug logging and execution tracing
	Quiet bool // only log errors
}
